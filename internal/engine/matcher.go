package engine

import (
	"strings"

	"retrack/internal/rules"
)

// Matches reports whether the track satisfies every part of the match
// specification. Absent fields match everything; present fields are
// conjunctive. The function is pure and order-independent, though it
// short-circuits on the first failing sub-test.
func Matches(track Track, spec rules.MatchSpec) bool {
	if !spec.Codecs.Matches(track.Codec) {
		return false
	}
	for _, cond := range spec.Channels {
		if !cond.Holds(int64(track.Channels)) {
			return false
		}
	}
	for _, cond := range spec.Bitrate {
		if !cond.Holds(track.BitRate) {
			return false
		}
	}
	if len(spec.Languages) > 0 && !languageAllowed(track.language(), spec.Languages) {
		return false
	}
	for _, flag := range spec.Dispositions {
		actual, ok := track.Disposition[flag.Name]
		if !ok {
			return false
		}
		if (actual != 0) != flag.Value {
			return false
		}
	}
	if spec.Title != nil && !spec.Title.Regexp().MatchString(track.Title) {
		return false
	}
	return true
}

func languageAllowed(lang string, allowed []string) bool {
	lang = strings.ToLower(lang)
	for _, candidate := range allowed {
		if candidate == lang {
			return true
		}
	}
	return false
}

// selectRule returns the first rule whose match specification accepts the
// track, or -1 when no rule matches.
func selectRule(track Track, rs rules.RuleSet) int {
	for i := range rs.Rules {
		if Matches(track, rs.Rules[i].Match) {
			return i
		}
	}
	return -1
}
