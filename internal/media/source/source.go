package source

import (
	"retrack/internal/engine"
	"retrack/internal/language"
	"retrack/internal/media/ffprobe"
)

// FromProbe converts an ffprobe inspection into the engine's view of the
// file: audio tracks in container order, the video stream count, the
// remaining streams with their identifiability, and the container marker.
func FromProbe(result ffprobe.Result) engine.Source {
	src := engine.Source{Marker: result.Comment()}
	for _, stream := range result.Streams {
		switch {
		case stream.IsAudio():
			src.Audio = append(src.Audio, trackFromStream(stream))
		case stream.IsVideo():
			src.VideoCount++
		default:
			src.Others = append(src.Others, engine.OtherStream{
				Index:      stream.Index,
				Kind:       stream.CodecType,
				CodecKnown: stream.CodecName != "",
			})
		}
	}
	return src
}

func trackFromStream(stream ffprobe.Stream) engine.Track {
	lang := language.ExtractFromTags(stream.Tags)
	if lang != "" {
		lang = language.ToISO3(lang)
	}
	return engine.Track{
		Index:         stream.Index,
		Codec:         stream.CodecName,
		Channels:      stream.Channels,
		BitRate:       stream.BitRateBits(),
		Language:      lang,
		Title:         stream.Title(),
		ChannelLayout: stream.ChannelLayout,
		Disposition:   stream.Disposition,
	}
}
