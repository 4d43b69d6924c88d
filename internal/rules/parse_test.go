package rules

import (
	"strings"
	"testing"
)

func TestParseFullDocument(t *testing.T) {
	doc := `[
		{
			"name": "downmix lossless",
			"match": {
				"codecs": ["truehd", "dts"],
				"channels": [">2", "<=8"],
				"languages": "eng",
				"dispositions": {"comment": false},
				"title": {"pattern": "Atmos", "caseSensitive": true}
			},
			"operations": [
				{"transcode": {"codec": "aac", "channels": 6, "bitrate": 384000, "title": "{OCODEC} {ofchannels}"}},
				{"transcode": {"codec": "copy", "filters": "volume=1.5"}}
			]
		},
		{
			"match": {"codecs": "!aac", "bitrate": ">=768000"},
			"operations": []
		},
		{
			"match": {"codecs": "*"},
			"operations": [{"copy": {"dispositions": {"default": true, "comment": false}}}]
		}
	]`

	rs, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(rs.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rs.Rules))
	}

	first := rs.Rules[0]
	if first.Name != "downmix lossless" {
		t.Fatalf("unexpected rule name: %q", first.Name)
	}
	if len(first.Match.Codecs.Set) != 2 || first.Match.Codecs.Set[0] != "truehd" {
		t.Fatalf("unexpected codec set: %+v", first.Match.Codecs)
	}
	if len(first.Match.Channels) != 2 {
		t.Fatalf("expected 2 channel conditions, got %d", len(first.Match.Channels))
	}
	if got := first.Match.Channels[0]; got.Op != CompareGT || got.Value != 2 {
		t.Fatalf("unexpected first channel condition: %+v", got)
	}
	if len(first.Match.Languages) != 1 || first.Match.Languages[0] != "eng" {
		t.Fatalf("unexpected languages: %v", first.Match.Languages)
	}
	if first.Match.Title == nil || first.Match.Title.Regexp() == nil {
		t.Fatal("expected compiled title pattern")
	}
	if first.Match.Title.Regexp().MatchString("atmos") {
		t.Fatal("case-sensitive pattern should not match lowercase title")
	}
	tc := first.Operations[0].Transcode
	if tc == nil || tc.Codec != "aac" || tc.Channels == nil || *tc.Channels != 6 || tc.Bitrate == nil || *tc.Bitrate != 384000 {
		t.Fatalf("unexpected transcode op: %+v", tc)
	}

	second := rs.Rules[1]
	if second.Match.Codecs.Not != "aac" {
		t.Fatalf("expected negated selector, got %+v", second.Match.Codecs)
	}
	if len(second.Operations) != 0 {
		t.Fatalf("expected drop rule to have no operations, got %d", len(second.Operations))
	}

	third := rs.Rules[2]
	if !third.Match.Codecs.All {
		t.Fatalf("expected wildcard selector, got %+v", third.Match.Codecs)
	}
	flags := third.Operations[0].Copy.Dispositions
	if len(flags) != 2 || flags[0].Name != "default" || !flags[0].Value || flags[1].Name != "comment" || flags[1].Value {
		t.Fatalf("disposition order not preserved: %+v", flags)
	}
}

func TestParseRejectsNonListRoot(t *testing.T) {
	if _, err := Parse([]byte(`{"match": {}}`)); err == nil {
		t.Fatal("expected error for object root")
	}
	if _, err := Parse([]byte("")); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestParseErrorsLocateField(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing match",
			doc:  `[{"operations": []}]`,
			want: "rule 0: missing match",
		},
		{
			name: "missing operations",
			doc:  `[{"match": {"codecs": "*"}}]`,
			want: "rule 0: missing operations",
		},
		{
			name: "missing codecs",
			doc:  `[{"match": {}, "operations": []}]`,
			want: "rule 0: match: missing codecs",
		},
		{
			name: "bad codec shape",
			doc:  `[{"match": {"codecs": 7}, "operations": []}]`,
			want: "rule 0: match: codecs:",
		},
		{
			name: "bad condition",
			doc:  `[{"match": {"codecs": "*", "channels": "~6"}, "operations": []}]`,
			want: "rule 0: match: channels:",
		},
		{
			name: "bad disposition value",
			doc:  `[{"match": {"codecs": "*", "dispositions": {"default": 1}}, "operations": []}]`,
			want: "rule 0: match: dispositions:",
		},
		{
			name: "title without pattern",
			doc:  `[{"match": {"codecs": "*", "title": {}}, "operations": []}]`,
			want: "rule 0: match: title: missing pattern",
		},
		{
			name: "operation with both variants",
			doc:  `[{"match": {"codecs": "*"}, "operations": [{"copy": {}, "transcode": {"codec": "aac"}}]}]`,
			want: "rule 0: operation 0:",
		},
		{
			name: "operation with neither variant",
			doc:  `[{"match": {"codecs": "*"}, "operations": [{}]}]`,
			want: "rule 0: operation 0:",
		},
		{
			name: "transcode without codec",
			doc:  `[{"match": {"codecs": "*"}, "operations": [{"transcode": {}}]}]`,
			want: "rule 0: operation 0: transcode: missing codec",
		},
		{
			name: "non-integer bitrate",
			doc:  `[{"match": {"codecs": "*"}, "operations": [{"transcode": {"codec": "aac", "bitrate": 128.5}}]}]`,
			want: "rule 0: operation 0: transcode: bitrate:",
		},
		{
			name: "second rule located",
			doc:  `[{"match": {"codecs": "*"}, "operations": []}, {"operations": []}]`,
			want: "rule 1:",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
			if !strings.HasPrefix(err.Error(), tc.want) {
				t.Fatalf("error %q does not start with %q", err.Error(), tc.want)
			}
		})
	}
}

func TestParseNormalizesEscapedBackslashes(t *testing.T) {
	doc := `[{"match": {"codecs": "*", "title": {"pattern": "\\\\d+"}}, "operations": []}]`
	rs, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	title := rs.Rules[0].Match.Title
	if title.Pattern != `\d+` {
		t.Fatalf("expected doubled backslash collapsed, got %q", title.Pattern)
	}
	if !title.Regexp().MatchString("track 12") {
		t.Fatal("expected normalized pattern to match digits")
	}
}

func TestParseCaseInsensitiveTitleByDefault(t *testing.T) {
	doc := `[{"match": {"codecs": "*", "title": {"pattern": "commentary"}}, "operations": []}]`
	rs, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !rs.Rules[0].Match.Title.Regexp().MatchString("Director Commentary") {
		t.Fatal("expected case-insensitive match by default")
	}
}

func TestParseRejectsInvalidPattern(t *testing.T) {
	doc := `[{"match": {"codecs": "*", "title": {"pattern": "("}}, "operations": []}]`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected error for invalid regular expression")
	}
}

func TestConditionSemantics(t *testing.T) {
	cases := []struct {
		raw   string
		value int64
		want  bool
	}{
		{"6", 6, true},
		{"6", 5, false},
		{"<=6", 6, true},
		{"<6", 6, false},
		{">2", 2, false},
		{">2", 3, true},
		{">=640000", 640000, true},
		{" <= 6 ", 6, true},
	}
	for _, tc := range cases {
		cond, err := ParseCondition(tc.raw)
		if err != nil {
			t.Fatalf("ParseCondition(%q) returned error: %v", tc.raw, err)
		}
		if got := cond.Holds(tc.value); got != tc.want {
			t.Fatalf("condition %q against %d: got %v want %v", tc.raw, tc.value, got, tc.want)
		}
	}
	if _, err := ParseCondition("abc"); err == nil {
		t.Fatal("expected error for non-numeric condition")
	}
}

func TestCanonicalIsStableAcrossFormatting(t *testing.T) {
	compact := `[{"match":{"codecs":["ac3"],"channels":"<=6"},"operations":[{"transcode":{"codec":"aac"}}]}]`
	spaced := `[
		{
			"operations": [ {"transcode": {"codec": "aac"}} ],
			"match": { "channels": "<=6", "codecs": ["ac3"] }
		}
	]`
	first, err := Parse([]byte(compact))
	if err != nil {
		t.Fatalf("parse compact: %v", err)
	}
	second, err := Parse([]byte(spaced))
	if err != nil {
		t.Fatalf("parse spaced: %v", err)
	}
	c1, err := first.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	c2, err := second.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("canonical forms differ:\n%s\n%s", c1, c2)
	}
}
