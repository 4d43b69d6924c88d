package engine

import (
	"testing"

	"retrack/internal/rules"
)

func TestEncodeDispositions(t *testing.T) {
	cases := []struct {
		name  string
		flags rules.Dispositions
		want  string
	}{
		{
			name: "first enabled flag is bare",
			flags: rules.Dispositions{
				{Name: "default", Value: true},
				{Name: "comment", Value: true},
			},
			want: "default+comment",
		},
		{
			name: "disabled flags get a minus",
			flags: rules.Dispositions{
				{Name: "default", Value: true},
				{Name: "comment", Value: false},
			},
			want: "default-comment",
		},
		{
			name: "leading disabled flag keeps later bare flag",
			flags: rules.Dispositions{
				{Name: "comment", Value: false},
				{Name: "default", Value: true},
				{Name: "dub", Value: true},
			},
			want: "-commentdefault+dub",
		},
		{
			name: "all disabled",
			flags: rules.Dispositions{
				{Name: "default", Value: false},
				{Name: "forced", Value: false},
			},
			want: "-default-forced",
		},
		{name: "empty", flags: nil, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EncodeDispositions(tc.flags); got != tc.want {
				t.Fatalf("EncodeDispositions(%+v) = %q, want %q", tc.flags, got, tc.want)
			}
		})
	}
}

func TestEncodeDispositionsPreservesDocumentOrder(t *testing.T) {
	rs := mustParse(t, `[{
		"match": {"codecs": "*"},
		"operations": [{"copy": {"dispositions": {"hearing_impaired": true, "default": false, "comment": true}}}]
	}]`)
	flags := rs.Rules[0].Operations[0].Copy.Dispositions
	if got := EncodeDispositions(flags); got != "hearing_impaired-default+comment" {
		t.Fatalf("document order not preserved: %q", got)
	}
}
