// Package language provides ISO 639 language code lookup for track
// metadata: display names for rendered titles and plan output, and tag
// extraction from probed stream metadata.
package language
