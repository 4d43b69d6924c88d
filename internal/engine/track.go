package engine

// Track describes one audio stream as reported by the probing side.
// Tracks are read-only inputs; the engine never mutates them.
type Track struct {
	// Index is the stream's position within the container.
	Index int
	// Codec is the codec name, e.g. "aac" or "truehd".
	Codec string
	// Channels is the channel count, 0 when unknown.
	Channels int
	// BitRate is the stream bitrate in bits per second, 0 when unknown
	// (typical for lossless tracks).
	BitRate int64
	// Language is the stream language tag; empty is treated as "und".
	Language string
	// Title is the stream title, empty when untitled.
	Title string
	// ChannelLayout is the descriptive layout string, e.g. "5.1(side)".
	ChannelLayout string
	// Disposition maps flag names to 0/1 as ffprobe reports them.
	Disposition map[string]int
}

// language returns the track language with the "und" default applied.
func (t Track) language() string {
	if t.Language == "" {
		return "und"
	}
	return t.Language
}

// OtherStream describes a non-audio, non-video stream in the container.
type OtherStream struct {
	// Index is the stream's position within the container.
	Index int
	// Kind is the stream classification, e.g. "subtitle" or "attachment".
	Kind string
	// CodecKnown reports whether the stream's encoding was identified.
	// Streams without an identifiable encoding are excluded from
	// passthrough so the downstream command stays valid.
	CodecKnown bool
}

// Source is the engine's view of one media file.
type Source struct {
	// Audio holds the audio tracks in container order.
	Audio []Track
	// VideoCount is the number of video streams in the container.
	VideoCount int
	// Others holds the remaining streams (subtitles, attachments, data).
	Others []OtherStream
	// Marker is the container's free-text marker field, checked for a
	// prior watermark.
	Marker string
}
