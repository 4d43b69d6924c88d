// Command retrack plans and applies rule-driven audio track rewrites
// against media files using ffprobe and ffmpeg.
package main
