package engine

import (
	"retrack/internal/rules"
)

// codecLimit caps the channel count and bitrate a codec can carry.
type codecLimit struct {
	channels int
	bitRate  int64
}

// codecLimits holds the fixed per-codec ceilings enforced regardless of
// what an operation requests. The values are container-format facts, not
// tuning knobs.
var codecLimits = map[string]codecLimit{
	"ac3": {channels: 6, bitRate: 640000},
	"mp3": {channels: 2, bitRate: 320000},
}

// aac encoders mishandle unusual source layouts above 5.1, so sources
// beyond six channels are forced to an explicit 8-channel target unless
// the operation overrides the count itself.
const (
	aacOverrideCodec    = "aac"
	aacOverrideChannels = 8
	aacOverrideAbove    = 6
)

// Synthesize runs the rule engine over the source's audio tracks and
// builds the command plan. Tracks are visited in container order; the
// first matching rule wins; unmatched tracks are copied verbatim. The
// input index advances once per track, the output index once per emitted
// output track.
func Synthesize(src Source, rs rules.RuleSet) CommandPlan {
	var plan CommandPlan
	output := 0
	for _, track := range src.Audio {
		ruleIdx := selectRule(track, rs)
		if ruleIdx < 0 {
			plan.Instructions = append(plan.Instructions,
				Instruction{Kind: MapStream, Output: output, Input: track.Index},
				Instruction{Kind: CopyCodec, Output: output},
			)
			output++
			continue
		}
		rule := rs.Rules[ruleIdx]
		if len(rule.Operations) == 0 {
			// Drop: the input index still advances, the output index
			// does not, and nothing is emitted.
			plan.Changed = true
			continue
		}
		for _, op := range rule.Operations {
			switch {
			case op.Copy != nil:
				emitCopy(&plan, track, rule, op, output)
			case op.Transcode != nil:
				emitTranscode(&plan, track, rule, op, output)
			}
			output++
		}
		if len(rule.Operations) > 1 {
			plan.Changed = true
		}
	}

	if plan.Changed {
		plan.VideoPassthrough = src.VideoCount > 0
		for _, other := range src.Others {
			if other.CodecKnown {
				plan.KeptStreams = append(plan.KeptStreams, other)
			} else {
				plan.ExcludedStreams = append(plan.ExcludedStreams, other.Index)
			}
		}
	} else {
		plan.Instructions = nil
	}
	return plan
}

// emitCopy emits a stream copy with optional metadata overrides.
func emitCopy(plan *CommandPlan, track Track, rule rules.Rule, op rules.Operation, output int) {
	plan.Instructions = append(plan.Instructions,
		Instruction{Kind: MapStream, Output: output, Input: track.Index},
		Instruction{Kind: CopyCodec, Output: output},
	)
	if title := op.Title(); title != "" {
		rendered := ExpandTitle(title, TitleContext{
			Track:       track,
			OutCodec:    track.Codec,
			OutChannels: track.Channels,
			OutBitRate:  track.BitRate,
			Pattern:     rule.Match.Title,
		})
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetTitle, Output: output, Value: rendered})
		plan.Changed = true
	}
	if flags := op.Dispositions(); len(flags) > 0 {
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetDispositions, Output: output, Value: EncodeDispositions(flags)})
		plan.Changed = true
	}
}

func emitTranscode(plan *CommandPlan, track Track, rule rules.Rule, op rules.Operation, output int) {
	tc := op.Transcode
	plan.Changed = true

	outCodec := tc.Codec
	effectiveCodec := outCodec
	if effectiveCodec == "copy" {
		effectiveCodec = track.Codec
	}
	plan.Instructions = append(plan.Instructions,
		Instruction{Kind: MapStream, Output: output, Input: track.Index},
		Instruction{Kind: SetCodec, Output: output, Value: outCodec},
	)

	channels, emitChannels := resolveChannels(track, tc, effectiveCodec)
	if emitChannels {
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetChannels, Output: output, Number: int64(channels)})
	}
	bitRate, emitBitRate := resolveBitRate(track, tc, effectiveCodec)
	if emitBitRate {
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetBitRate, Output: output, Number: bitRate})
	}

	if track.Language != "" {
		// Re-encoded streams lose their language tags unless the plan
		// carries them over explicitly.
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetLanguage, Output: output, Value: track.Language})
	}
	if tc.Title != "" {
		rendered := ExpandTitle(tc.Title, TitleContext{
			Track:       track,
			OutCodec:    effectiveCodec,
			OutChannels: channels,
			OutBitRate:  bitRate,
			Pattern:     rule.Match.Title,
		})
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetTitle, Output: output, Value: rendered})
	}
	if len(tc.Dispositions) > 0 {
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetDispositions, Output: output, Value: EncodeDispositions(tc.Dispositions)})
	}
	if tc.Filters != "" {
		plan.Instructions = append(plan.Instructions,
			Instruction{Kind: SetFilter, Output: output, Value: tc.Filters})
	}
}

// resolveChannels decides the output channel count and whether an explicit
// channel instruction is emitted. Explicit requests are clamped to the
// codec ceiling; inherited counts are clamped too, and sources above six
// channels going into aac are forced to eight unless overridden.
func resolveChannels(track Track, tc *rules.TranscodeOp, codec string) (int, bool) {
	limit, limited := codecLimits[codec]
	if tc.Channels != nil {
		channels := *tc.Channels
		if limited && channels > limit.channels {
			channels = limit.channels
		}
		return channels, true
	}
	channels := track.Channels
	if codec == aacOverrideCodec && channels > aacOverrideAbove {
		return aacOverrideChannels, true
	}
	if limited && channels > limit.channels {
		return limit.channels, true
	}
	return channels, false
}

// resolveBitRate mirrors resolveChannels for bitrate. Inherited bitrates
// are emitted only when the codec ceiling clamps them; otherwise the
// encoder default applies and no instruction is produced.
func resolveBitRate(track Track, tc *rules.TranscodeOp, codec string) (int64, bool) {
	limit, limited := codecLimits[codec]
	if tc.Bitrate != nil {
		bitRate := *tc.Bitrate
		if limited && bitRate > limit.bitRate {
			bitRate = limit.bitRate
		}
		return bitRate, true
	}
	bitRate := track.BitRate
	if limited && bitRate > limit.bitRate {
		return limit.bitRate, true
	}
	return bitRate, false
}
