package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CodecSelector matches a track's codec name. Exactly one of the three
// forms is active: the wildcard, a negated single codec, or a fixed set.
type CodecSelector struct {
	All bool
	Not string
	Set []string
}

// Matches reports whether the selector accepts the given codec name.
// Comparison is case-insensitive.
func (s CodecSelector) Matches(codec string) bool {
	codec = strings.ToLower(strings.TrimSpace(codec))
	switch {
	case s.All:
		return true
	case s.Not != "":
		return codec != s.Not
	default:
		for _, name := range s.Set {
			if name == codec {
				return true
			}
		}
		return false
	}
}

// MarshalJSON renders the selector back into its document form.
func (s CodecSelector) MarshalJSON() ([]byte, error) {
	switch {
	case s.All:
		return json.Marshal("*")
	case s.Not != "":
		return json.Marshal("!" + s.Not)
	default:
		return json.Marshal(s.Set)
	}
}

// CompareOp is the operator of a numeric condition.
type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareLT
	CompareLE
	CompareGT
	CompareGE
)

func (op CompareOp) String() string {
	switch op {
	case CompareLT:
		return "<"
	case CompareLE:
		return "<="
	case CompareGT:
		return ">"
	case CompareGE:
		return ">="
	default:
		return ""
	}
}

// Condition is a single numeric constraint such as ">2" or "<=640000".
// A bare integer means equality. When a match field carries several
// conditions they are conjunctive: all must hold.
type Condition struct {
	Op    CompareOp
	Value int64
}

// Holds reports whether the condition is satisfied by v.
func (c Condition) Holds(v int64) bool {
	switch c.Op {
	case CompareLT:
		return v < c.Value
	case CompareLE:
		return v <= c.Value
	case CompareGT:
		return v > c.Value
	case CompareGE:
		return v >= c.Value
	default:
		return v == c.Value
	}
}

// MarshalJSON renders the condition back into its document form.
func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Op.String() + strconv.FormatInt(c.Value, 10))
}

// ParseCondition parses a condition string: an optional <=, >=, < or >
// prefix followed by a base-10 integer.
func ParseCondition(raw string) (Condition, error) {
	trimmed := strings.TrimSpace(raw)
	cond := Condition{Op: CompareEq}
	switch {
	case strings.HasPrefix(trimmed, "<="):
		cond.Op = CompareLE
		trimmed = trimmed[2:]
	case strings.HasPrefix(trimmed, ">="):
		cond.Op = CompareGE
		trimmed = trimmed[2:]
	case strings.HasPrefix(trimmed, "<"):
		cond.Op = CompareLT
		trimmed = trimmed[1:]
	case strings.HasPrefix(trimmed, ">"):
		cond.Op = CompareGT
		trimmed = trimmed[1:]
	}
	value, err := strconv.ParseInt(strings.TrimSpace(trimmed), 10, 64)
	if err != nil {
		return Condition{}, fmt.Errorf("invalid condition %q: expected an integer with optional <, <=, > or >= prefix", raw)
	}
	cond.Value = value
	return cond, nil
}

// DispositionFlag is one named boolean flag in document order.
type DispositionFlag struct {
	Name  string
	Value bool
}

// Dispositions preserves the document order of its flags. The downstream
// flag-string syntax treats the first flag specially, so a plain map
// (which loses JSON key order) cannot represent this field.
type Dispositions []DispositionFlag

// Lookup returns the value for a flag name and whether it is present.
func (d Dispositions) Lookup(name string) (bool, bool) {
	for _, flag := range d {
		if flag.Name == name {
			return flag.Value, true
		}
	}
	return false, false
}

// UnmarshalJSON decodes a JSON object of booleans, keeping key order.
func (d *Dispositions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object of boolean flags")
	}
	var flags Dispositions
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		value, ok := valTok.(bool)
		if !ok {
			return fmt.Errorf("flag %q: expected a boolean", key)
		}
		flags = append(flags, DispositionFlag{Name: key, Value: value})
	}
	*d = flags
	return nil
}

// MarshalJSON encodes the flags as an object, preserving order.
func (d Dispositions) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, flag := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(flag.Name)
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		b.WriteString(strconv.FormatBool(flag.Value))
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// TitleMatch tests a track title against a regular expression.
type TitleMatch struct {
	Pattern       string `json:"pattern"`
	CaseSensitive bool   `json:"caseSensitive"`

	re *regexp.Regexp
}

// Regexp returns the compiled pattern. Compilation happens during
// validation, so the result is always non-nil on a parsed rule set.
func (t *TitleMatch) Regexp() *regexp.Regexp {
	return t.re
}

func (t *TitleMatch) compile() error {
	pattern := t.Pattern
	if !t.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %v", t.Pattern, err)
	}
	t.re = re
	return nil
}

// MatchSpec is the predicate half of a rule. Absent fields match
// everything; present fields are conjunctive.
type MatchSpec struct {
	Codecs       CodecSelector `json:"codecs"`
	Channels     []Condition   `json:"channels,omitempty"`
	Bitrate      []Condition   `json:"bitrate,omitempty"`
	Languages    []string      `json:"languages,omitempty"`
	Dispositions Dispositions  `json:"dispositions,omitempty"`
	Title        *TitleMatch   `json:"title,omitempty"`
}

// CopyOp copies the stream bits unchanged, optionally rewriting metadata.
type CopyOp struct {
	Title        string       `json:"title,omitempty"`
	Dispositions Dispositions `json:"dispositions,omitempty"`
}

// TranscodeOp re-encodes the stream. Codec "copy" keeps the source codec.
// Nil Channels/Bitrate mean "inherit from the source".
type TranscodeOp struct {
	Codec        string       `json:"codec"`
	Channels     *int         `json:"channels,omitempty"`
	Bitrate      *int64       `json:"bitrate,omitempty"`
	Title        string       `json:"title,omitempty"`
	Dispositions Dispositions `json:"dispositions,omitempty"`
	Filters      string       `json:"filters,omitempty"`
}

// Operation is a tagged union: exactly one of Copy or Transcode is set.
type Operation struct {
	Copy      *CopyOp      `json:"copy,omitempty"`
	Transcode *TranscodeOp `json:"transcode,omitempty"`
}

// Title returns the operation's title template, if any.
func (o Operation) Title() string {
	switch {
	case o.Copy != nil:
		return o.Copy.Title
	case o.Transcode != nil:
		return o.Transcode.Title
	}
	return ""
}

// Dispositions returns the operation's disposition overrides, if any.
func (o Operation) Dispositions() Dispositions {
	switch {
	case o.Copy != nil:
		return o.Copy.Dispositions
	case o.Transcode != nil:
		return o.Transcode.Dispositions
	}
	return nil
}

// Rule pairs a match specification with an ordered operation list. An
// empty operation list drops the matched track. Name is diagnostic only.
type Rule struct {
	Name       string      `json:"name,omitempty"`
	Match      MatchSpec   `json:"match"`
	Operations []Operation `json:"operations"`
}

// RuleSet is an ordered list of rules, evaluated first-match-wins.
type RuleSet struct {
	Rules []Rule `json:"rules"`
}

// Canonical returns a stable JSON rendering of the rule set's effective
// content. Two documents that parse to the same model produce identical
// output regardless of whitespace or field order in the source text.
func (rs RuleSet) Canonical() (string, error) {
	data, err := json.Marshal(rs.Rules)
	if err != nil {
		return "", fmt.Errorf("canonicalize rule set: %w", err)
	}
	return string(data), nil
}
