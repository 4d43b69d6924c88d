// Package ffmpeg serialises command plans into ffmpeg invocations and
// applies them. BuildArgs is the pure serialisation step; Apply wraps it
// with the temp-file-and-swap discipline that keeps the original intact
// if the encode fails partway.
package ffmpeg
