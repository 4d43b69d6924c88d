package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"retrack/internal/engine"
)

// BuildArgs serialises a command plan into the ffmpeg argument list that
// rewrites input into output. The caller supplies the container's prior
// comment text so the watermark is appended rather than replacing it.
func BuildArgs(input, output string, plan engine.CommandPlan, priorComment string) []string {
	args := make([]string, 0, 32+len(plan.Instructions)*2)
	args = append(args,
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-i", input,
	)

	if plan.VideoPassthrough {
		args = append(args, "-map", "0:v", "-c:v", "copy")
	}

	for _, in := range plan.Instructions {
		args = append(args, instructionArgs(in)...)
	}

	kinds := map[string]bool{}
	for _, kept := range plan.KeptStreams {
		args = append(args, "-map", fmt.Sprintf("0:%d", kept.Index))
		kinds[kept.Kind] = true
	}
	if kinds["subtitle"] {
		args = append(args, "-c:s", "copy")
	}
	if kinds["attachment"] {
		args = append(args, "-c:t", "copy")
	}
	if kinds["data"] {
		args = append(args, "-c:d", "copy")
	}
	if len(plan.KeptStreams) == 0 && len(plan.ExcludedStreams) > 0 {
		// Every remaining stream had an unidentifiable encoding;
		// suppress them so the command stays valid.
		args = append(args, "-sn", "-dn")
	}

	if plan.Marker != "" {
		args = append(args, "-metadata", "comment="+mergeComment(priorComment, plan.Marker))
	}

	args = append(args, "-max_muxing_queue_size", "4096", output)
	return args
}

func instructionArgs(in engine.Instruction) []string {
	out := strconv.Itoa(in.Output)
	switch in.Kind {
	case engine.MapStream:
		return []string{"-map", fmt.Sprintf("0:%d", in.Input)}
	case engine.CopyCodec:
		return []string{"-c:a:" + out, "copy"}
	case engine.SetCodec:
		return []string{"-c:a:" + out, in.Value}
	case engine.SetBitRate:
		return []string{"-b:a:" + out, strconv.FormatInt(in.Number, 10)}
	case engine.SetChannels:
		return []string{"-ac:a:" + out, strconv.FormatInt(in.Number, 10)}
	case engine.SetLanguage:
		return []string{"-metadata:s:a:" + out, "language=" + in.Value}
	case engine.SetTitle:
		return []string{"-metadata:s:a:" + out, "title=" + in.Value}
	case engine.SetDispositions:
		return []string{"-disposition:a:" + out, in.Value}
	case engine.SetFilter:
		return []string{"-filter:a:" + out, in.Value}
	default:
		return nil
	}
}

func mergeComment(prior, marker string) string {
	prior = strings.TrimSpace(prior)
	if prior == "" {
		return marker
	}
	return prior + " " + marker
}
