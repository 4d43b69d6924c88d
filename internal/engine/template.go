package engine

import (
	"fmt"
	"strconv"
	"strings"

	"retrack/internal/language"
	"retrack/internal/rules"
)

// Commas and double quotes would break the title's embedding in a
// downstream command argument, so every expanded title swaps them for
// look-alike code points. This runs unconditionally, even on templates
// with no tags at all.
var titleSanitizer = strings.NewReplacer(
	",", "‚", // single low-9 quotation mark
	`"`, "″", // double prime
)

// TitleContext carries the data a title template can draw on: the source
// track, the operation's resolved output parameters, and the rule's title
// pattern for numbered capture tags.
type TitleContext struct {
	Track Track
	// OutCodec is the operation's resolved target codec; for copy
	// operations it equals the track codec.
	OutCodec string
	// OutChannels is the resolved output channel count, 0 when unknown.
	OutChannels int
	// OutBitRate is the resolved output bitrate, 0 when unknown.
	OutBitRate int64
	// Pattern is the rule's title pattern, nil when the rule has none.
	Pattern *rules.TitleMatch
}

// ExpandTitle renders a title template. Numbered tags {1}, {2}, ... are
// filled from the title pattern's capture groups; named tags are filled
// from the track and the resolved output parameters. Tags with no
// resolvable value stay verbatim; expansion never fails.
func ExpandTitle(template string, ctx TitleContext) string {
	if template == "" {
		return ""
	}
	pairs := capturePairs(ctx)
	pairs = append(pairs, tagPairs(ctx)...)
	expanded := template
	if len(pairs) > 0 {
		expanded = strings.NewReplacer(pairs...).Replace(template)
	}
	return titleSanitizer.Replace(expanded)
}

// capturePairs re-runs the rule's title pattern against the original
// title in global mode. Each match maps its groups onto {1}..{n}; later
// matches overwrite earlier ones, so when groups repeat across matches
// the last write wins.
func capturePairs(ctx TitleContext) []string {
	if ctx.Pattern == nil {
		return nil
	}
	matches := ctx.Pattern.Regexp().FindAllStringSubmatch(ctx.Track.Title, -1)
	if len(matches) == 0 {
		return nil
	}
	values := map[int]string{}
	for _, match := range matches {
		for group := 1; group < len(match); group++ {
			values[group] = match[group]
		}
	}
	pairs := make([]string, 0, len(values)*2)
	for group, value := range values {
		pairs = append(pairs, fmt.Sprintf("{%d}", group), value)
	}
	return pairs
}

func tagPairs(ctx TitleContext) []string {
	track := ctx.Track
	lang := track.language()
	outCodec := ctx.OutCodec
	if outCodec == "" || outCodec == "copy" {
		outCodec = track.Codec
	}

	pairs := []string{
		"{title}", track.Title,
		"{lang}", strings.ToLower(lang),
		"{LANG}", strings.ToUpper(lang),
		"{langname}", language.DisplayName(lang),
		"{codec}", strings.ToLower(track.Codec),
		"{CODEC}", strings.ToUpper(track.Codec),
		"{ocodec}", strings.ToLower(outCodec),
		"{OCODEC}", strings.ToUpper(outCodec),
		"{layout}", track.ChannelLayout,
	}
	if track.Channels > 0 {
		pairs = append(pairs,
			"{channels}", strconv.Itoa(track.Channels),
			"{fchannels}", FancyChannels(track.Channels),
		)
	}
	if out := ctx.OutChannels; out > 0 {
		pairs = append(pairs,
			"{ochannels}", strconv.Itoa(out),
			"{ofchannels}", FancyChannels(out),
		)
	}
	if track.BitRate > 0 {
		pairs = append(pairs,
			"{bitrate}", strconv.FormatInt(track.BitRate, 10),
			"{kbps}", strconv.FormatInt(track.BitRate/1000, 10)+"k",
		)
	}
	if out := ctx.OutBitRate; out > 0 {
		pairs = append(pairs,
			"{obitrate}", strconv.FormatInt(out, 10),
			"{okbps}", strconv.FormatInt(out/1000, 10)+"k",
		)
	}
	return pairs
}

// FancyChannels renders a channel count the way track titles usually do:
// 1 is Mono, 2 is Stereo, anything above is "N.1".
func FancyChannels(channels int) string {
	switch {
	case channels <= 0:
		return ""
	case channels == 1:
		return "Mono"
	case channels == 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%d.1", channels-1)
	}
}
