package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Parse validates a raw rule document and returns the typed rule set.
// The document root must be a JSON list of rule objects. Validation is
// all-or-nothing: any structural violation fails the whole document with
// an error locating the offending rule, operation, and field.
func Parse(data []byte) (RuleSet, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return RuleSet{}, errors.New("rule document is empty")
	}

	var rawRules []json.RawMessage
	if err := json.Unmarshal(trimmed, &rawRules); err != nil {
		return RuleSet{}, errors.New("rule document root must be an ordered list of rules")
	}

	rs := RuleSet{Rules: make([]Rule, 0, len(rawRules))}
	for i, raw := range rawRules {
		rule, err := parseRule(raw)
		if err != nil {
			return RuleSet{}, fmt.Errorf("rule %d: %w", i, err)
		}
		rs.Rules = append(rs.Rules, rule)
	}
	return rs, nil
}

type rawRule struct {
	Name       json.RawMessage `json:"name"`
	Match      json.RawMessage `json:"match"`
	Operations json.RawMessage `json:"operations"`
}

type rawMatch struct {
	Codecs       json.RawMessage `json:"codecs"`
	Channels     json.RawMessage `json:"channels"`
	Bitrate      json.RawMessage `json:"bitrate"`
	Languages    json.RawMessage `json:"languages"`
	Dispositions json.RawMessage `json:"dispositions"`
	Title        json.RawMessage `json:"title"`
}

type rawOperation struct {
	Copy      json.RawMessage `json:"copy"`
	Transcode json.RawMessage `json:"transcode"`
}

func parseRule(raw json.RawMessage) (Rule, error) {
	var rr rawRule
	if err := json.Unmarshal(raw, &rr); err != nil {
		return Rule{}, errors.New("expected a rule object")
	}

	var rule Rule
	if len(rr.Name) > 0 {
		if err := json.Unmarshal(rr.Name, &rule.Name); err != nil {
			return Rule{}, errors.New("name: expected a string")
		}
	}

	if len(rr.Match) == 0 {
		return Rule{}, errors.New("missing match object")
	}
	match, err := parseMatch(rr.Match)
	if err != nil {
		return Rule{}, fmt.Errorf("match: %w", err)
	}
	rule.Match = match

	if len(rr.Operations) == 0 {
		return Rule{}, errors.New("missing operations list")
	}
	var rawOps []json.RawMessage
	if err := json.Unmarshal(rr.Operations, &rawOps); err != nil {
		return Rule{}, errors.New("operations: expected a list")
	}
	rule.Operations = make([]Operation, 0, len(rawOps))
	for i, rawOp := range rawOps {
		op, err := parseOperation(rawOp)
		if err != nil {
			return Rule{}, fmt.Errorf("operation %d: %w", i, err)
		}
		rule.Operations = append(rule.Operations, op)
	}
	return rule, nil
}

func parseMatch(raw json.RawMessage) (MatchSpec, error) {
	var rm rawMatch
	if err := json.Unmarshal(raw, &rm); err != nil {
		return MatchSpec{}, errors.New("expected an object")
	}

	var spec MatchSpec
	if len(rm.Codecs) == 0 {
		return MatchSpec{}, errors.New("missing codecs selector")
	}
	codecs, err := parseCodecSelector(rm.Codecs)
	if err != nil {
		return MatchSpec{}, fmt.Errorf("codecs: %w", err)
	}
	spec.Codecs = codecs

	if spec.Channels, err = parseConditions(rm.Channels); err != nil {
		return MatchSpec{}, fmt.Errorf("channels: %w", err)
	}
	if spec.Bitrate, err = parseConditions(rm.Bitrate); err != nil {
		return MatchSpec{}, fmt.Errorf("bitrate: %w", err)
	}

	if len(rm.Languages) > 0 {
		langs, err := stringOrList(rm.Languages)
		if err != nil {
			return MatchSpec{}, fmt.Errorf("languages: %w", err)
		}
		spec.Languages = make([]string, 0, len(langs))
		for _, lang := range langs {
			spec.Languages = append(spec.Languages, strings.ToLower(strings.TrimSpace(lang)))
		}
	}

	if len(rm.Dispositions) > 0 {
		if err := json.Unmarshal(rm.Dispositions, &spec.Dispositions); err != nil {
			return MatchSpec{}, fmt.Errorf("dispositions: %v", err)
		}
	}

	if len(rm.Title) > 0 {
		title, err := parseTitleMatch(rm.Title)
		if err != nil {
			return MatchSpec{}, fmt.Errorf("title: %w", err)
		}
		spec.Title = title
	}
	return spec, nil
}

func parseCodecSelector(raw json.RawMessage) (CodecSelector, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		single = strings.ToLower(strings.TrimSpace(single))
		switch {
		case single == "*":
			return CodecSelector{All: true}, nil
		case strings.HasPrefix(single, "!"):
			name := strings.TrimSpace(strings.TrimPrefix(single, "!"))
			if name == "" {
				return CodecSelector{}, errors.New("negated selector needs a codec name after '!'")
			}
			return CodecSelector{Not: name}, nil
		case single == "":
			return CodecSelector{}, errors.New("expected a codec name, \"*\", \"!codec\" or a list of codec names")
		default:
			return CodecSelector{Set: []string{single}}, nil
		}
	}

	var set []string
	if err := json.Unmarshal(raw, &set); err != nil {
		return CodecSelector{}, errors.New("expected a codec name, \"*\", \"!codec\" or a list of codec names")
	}
	if len(set) == 0 {
		return CodecSelector{}, errors.New("codec list must not be empty")
	}
	lowered := make([]string, 0, len(set))
	for _, name := range set {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return CodecSelector{}, errors.New("codec list contains an empty name")
		}
		lowered = append(lowered, name)
	}
	return CodecSelector{Set: lowered}, nil
}

func parseConditions(raw json.RawMessage) ([]Condition, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	values, err := stringOrList(raw)
	if err != nil {
		return nil, err
	}
	conditions := make([]Condition, 0, len(values))
	for _, value := range values {
		cond, err := ParseCondition(value)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

func parseTitleMatch(raw json.RawMessage) (*TitleMatch, error) {
	var rt struct {
		Pattern       json.RawMessage `json:"pattern"`
		CaseSensitive json.RawMessage `json:"caseSensitive"`
	}
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, errors.New("expected an object with a pattern string")
	}
	if len(rt.Pattern) == 0 {
		return nil, errors.New("missing pattern")
	}
	title := &TitleMatch{}
	if err := json.Unmarshal(rt.Pattern, &title.Pattern); err != nil {
		return nil, errors.New("pattern: expected a string")
	}
	if len(rt.CaseSensitive) > 0 {
		if err := json.Unmarshal(rt.CaseSensitive, &title.CaseSensitive); err != nil {
			return nil, errors.New("caseSensitive: expected a boolean")
		}
	}
	// Patterns arrive inside a larger escaped text blob, so doubled
	// backslashes collapse to single ones before compilation.
	title.Pattern = strings.ReplaceAll(title.Pattern, `\\`, `\`)
	if err := title.compile(); err != nil {
		return nil, err
	}
	return title, nil
}

func parseOperation(raw json.RawMessage) (Operation, error) {
	var ro rawOperation
	if err := json.Unmarshal(raw, &ro); err != nil {
		return Operation{}, errors.New("expected an operation object")
	}
	switch {
	case len(ro.Copy) > 0 && len(ro.Transcode) > 0:
		return Operation{}, errors.New("must carry exactly one of copy or transcode, not both")
	case len(ro.Copy) > 0:
		op, err := parseCopy(ro.Copy)
		if err != nil {
			return Operation{}, fmt.Errorf("copy: %w", err)
		}
		return Operation{Copy: op}, nil
	case len(ro.Transcode) > 0:
		op, err := parseTranscode(ro.Transcode)
		if err != nil {
			return Operation{}, fmt.Errorf("transcode: %w", err)
		}
		return Operation{Transcode: op}, nil
	default:
		return Operation{}, errors.New("must carry exactly one of copy or transcode")
	}
}

func parseCopy(raw json.RawMessage) (*CopyOp, error) {
	var rc struct {
		Title        json.RawMessage `json:"title"`
		Dispositions json.RawMessage `json:"dispositions"`
	}
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, errors.New("expected an object")
	}
	op := &CopyOp{}
	if len(rc.Title) > 0 {
		if err := json.Unmarshal(rc.Title, &op.Title); err != nil {
			return nil, errors.New("title: expected a string")
		}
	}
	if len(rc.Dispositions) > 0 {
		if err := json.Unmarshal(rc.Dispositions, &op.Dispositions); err != nil {
			return nil, fmt.Errorf("dispositions: %v", err)
		}
	}
	return op, nil
}

func parseTranscode(raw json.RawMessage) (*TranscodeOp, error) {
	var rt struct {
		Codec        json.RawMessage `json:"codec"`
		Channels     json.RawMessage `json:"channels"`
		Bitrate      json.RawMessage `json:"bitrate"`
		Title        json.RawMessage `json:"title"`
		Dispositions json.RawMessage `json:"dispositions"`
		Filters      json.RawMessage `json:"filters"`
	}
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, errors.New("expected an object")
	}
	if len(rt.Codec) == 0 {
		return nil, errors.New("missing codec")
	}
	op := &TranscodeOp{}
	if err := json.Unmarshal(rt.Codec, &op.Codec); err != nil {
		return nil, errors.New("codec: expected a string")
	}
	op.Codec = strings.ToLower(strings.TrimSpace(op.Codec))
	if op.Codec == "" {
		return nil, errors.New("codec must not be empty")
	}
	if len(rt.Channels) > 0 {
		channels, err := parseInt(rt.Channels)
		if err != nil {
			return nil, fmt.Errorf("channels: %w", err)
		}
		value := int(channels)
		op.Channels = &value
	}
	if len(rt.Bitrate) > 0 {
		bitrate, err := parseInt(rt.Bitrate)
		if err != nil {
			return nil, fmt.Errorf("bitrate: %w", err)
		}
		op.Bitrate = &bitrate
	}
	if len(rt.Title) > 0 {
		if err := json.Unmarshal(rt.Title, &op.Title); err != nil {
			return nil, errors.New("title: expected a string")
		}
	}
	if len(rt.Dispositions) > 0 {
		if err := json.Unmarshal(rt.Dispositions, &op.Dispositions); err != nil {
			return nil, fmt.Errorf("dispositions: %v", err)
		}
	}
	if len(rt.Filters) > 0 {
		if err := json.Unmarshal(rt.Filters, &op.Filters); err != nil {
			return nil, errors.New("filters: expected a string")
		}
	}
	return op, nil
}

func parseInt(raw json.RawMessage) (int64, error) {
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return 0, errors.New("expected a number")
	}
	value, err := number.Int64()
	if err != nil {
		return 0, errors.New("expected an integer")
	}
	if value < 0 {
		return 0, errors.New("must not be negative")
	}
	return value, nil
}

func stringOrList(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.New("expected a string or a list of strings")
	}
	return list, nil
}
