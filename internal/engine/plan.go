package engine

import "fmt"

// InstructionKind identifies one audio output instruction.
type InstructionKind int

const (
	// MapStream maps an input track to an output track.
	MapStream InstructionKind = iota
	// CopyCodec marks the output track as a direct stream copy.
	CopyCodec
	// SetCodec sets the output track's target codec.
	SetCodec
	// SetBitRate sets the output track's bitrate in bits per second.
	SetBitRate
	// SetChannels sets the output track's channel count.
	SetChannels
	// SetLanguage sets the output track's language metadata tag.
	SetLanguage
	// SetTitle sets the output track's title metadata tag.
	SetTitle
	// SetDispositions sets the output track's disposition flag string.
	SetDispositions
	// SetFilter attaches a free-form filter expression to the output track.
	SetFilter
)

func (k InstructionKind) String() string {
	switch k {
	case MapStream:
		return "map"
	case CopyCodec:
		return "copy"
	case SetCodec:
		return "codec"
	case SetBitRate:
		return "bitrate"
	case SetChannels:
		return "channels"
	case SetLanguage:
		return "language"
	case SetTitle:
		return "title"
	case SetDispositions:
		return "dispositions"
	case SetFilter:
		return "filter"
	default:
		return fmt.Sprintf("instruction(%d)", int(k))
	}
}

// Instruction is one audio output operation, tagged with the output track
// index it applies to. Input is meaningful for MapStream; Value carries
// codec names, metadata text, flag strings, and filter expressions;
// Number carries bitrates and channel counts.
type Instruction struct {
	Kind   InstructionKind `json:"kind"`
	Output int             `json:"output"`
	Input  int             `json:"input,omitempty"`
	Value  string          `json:"value,omitempty"`
	Number int64           `json:"number,omitempty"`
}

func (in Instruction) String() string {
	switch in.Kind {
	case MapStream:
		return fmt.Sprintf("a:%d map 0:%d", in.Output, in.Input)
	case CopyCodec:
		return fmt.Sprintf("a:%d copy", in.Output)
	case SetBitRate, SetChannels:
		return fmt.Sprintf("a:%d %s %d", in.Output, in.Kind, in.Number)
	default:
		return fmt.Sprintf("a:%d %s %s", in.Output, in.Kind, in.Value)
	}
}

// CommandPlan is the engine's sole output artifact: the ordered audio
// instructions plus the stream passthrough policy and the watermark to
// stamp into output metadata.
type CommandPlan struct {
	// Changed reports whether any track was dropped or transformed.
	// When false the plan carries no instructions.
	Changed bool `json:"changed"`
	// Instructions are the audio output operations in emission order.
	Instructions []Instruction `json:"instructions,omitempty"`
	// VideoPassthrough reports that video streams are carried unchanged.
	VideoPassthrough bool `json:"video_passthrough,omitempty"`
	// KeptStreams lists the non-audio, non-video streams with an
	// identifiable encoding, carried unchanged.
	KeptStreams []OtherStream `json:"kept_streams,omitempty"`
	// ExcludedStreams lists input indexes of streams dropped because
	// their encoding could not be identified.
	ExcludedStreams []int `json:"excluded_streams,omitempty"`
	// Marker is the watermark to persist for future idempotency checks.
	Marker string `json:"marker,omitempty"`
}

// OutputTracks returns the number of audio tracks the plan emits.
func (p CommandPlan) OutputTracks() int {
	count := 0
	for _, in := range p.Instructions {
		if in.Kind == MapStream {
			count++
		}
	}
	return count
}
