package engine

import (
	"strings"

	"retrack/internal/rules"
)

// EncodeDispositions renders disposition overrides as the downstream
// flag-string syntax: the first enabled flag appears bare, later enabled
// flags carry a "+" prefix, and disabled flags carry a "-" prefix. The
// document order of the flags is preserved exactly; the consumer treats
// the leading bare flag specially.
func EncodeDispositions(flags rules.Dispositions) string {
	var b strings.Builder
	sawEnabled := false
	for _, flag := range flags {
		switch {
		case !flag.Value:
			b.WriteByte('-')
		case sawEnabled:
			b.WriteByte('+')
		default:
			sawEnabled = true
		}
		b.WriteString(flag.Name)
	}
	return b.String()
}
