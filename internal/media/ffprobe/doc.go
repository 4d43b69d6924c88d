// Package ffprobe wraps ffprobe inspection of media containers.
//
// Inspect shells out to ffprobe and decodes its JSON report into Result,
// the stream/format model the rest of the tool consumes. Parse decodes a
// report that was captured elsewhere, which is also how tests feed the
// package without an ffprobe binary.
package ffprobe
