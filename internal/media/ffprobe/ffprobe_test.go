package ffprobe

import (
	"testing"
)

const sampleReport = `{
	"streams": [
		{"index": 0, "codec_name": "hevc", "codec_type": "video"},
		{
			"index": 1,
			"codec_name": "truehd",
			"codec_type": "audio",
			"channels": 8,
			"channel_layout": "7.1",
			"tags": {"language": "eng", "title": "TrueHD Atmos 7.1"},
			"disposition": {"default": 1, "comment": 0}
		},
		{
			"index": 2,
			"codec_name": "ac3",
			"codec_type": "audio",
			"bit_rate": "640000",
			"channels": 6,
			"channel_layout": "5.1(side)",
			"tags": {"language": "eng"},
			"disposition": {"default": 0}
		},
		{"index": 3, "codec_name": "subrip", "codec_type": "subtitle"}
	],
	"format": {
		"filename": "movie.mkv",
		"nb_streams": 4,
		"format_name": "matroska,webm",
		"tags": {"comment": "[retrack abc123]"}
	}
}`

func TestParseReport(t *testing.T) {
	result, err := Parse([]byte(sampleReport))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Streams) != 4 {
		t.Fatalf("expected 4 streams, got %d", len(result.Streams))
	}

	audio := result.AudioStreams()
	if len(audio) != 2 {
		t.Fatalf("expected 2 audio streams, got %d", len(audio))
	}
	first := audio[0]
	if first.Index != 1 || first.CodecName != "truehd" || first.Channels != 8 {
		t.Fatalf("unexpected first audio stream: %+v", first)
	}
	if first.Title() != "TrueHD Atmos 7.1" {
		t.Fatalf("unexpected title: %q", first.Title())
	}
	if first.BitRateBits() != 0 {
		t.Fatalf("lossless stream should report unknown bitrate, got %d", first.BitRateBits())
	}
	if first.Disposition["default"] != 1 {
		t.Fatalf("unexpected disposition: %+v", first.Disposition)
	}
	if audio[1].BitRateBits() != 640000 {
		t.Fatalf("unexpected bitrate: %d", audio[1].BitRateBits())
	}

	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.Comment() != "[retrack abc123]" {
		t.Fatalf("unexpected comment: %q", result.Comment())
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStreamAccessorsTolerateMissingTags(t *testing.T) {
	stream := Stream{CodecType: "audio"}
	if stream.Title() != "" {
		t.Fatalf("expected empty title, got %q", stream.Title())
	}
	if stream.BitRateBits() != 0 {
		t.Fatalf("expected zero bitrate, got %d", stream.BitRateBits())
	}
	var result Result
	if result.Comment() != "" {
		t.Fatalf("expected empty comment, got %q", result.Comment())
	}
}
