package engine

import (
	"strings"
	"testing"
)

func TestWatermarkShape(t *testing.T) {
	rs := mustParse(t, `[{"match": {"codecs": "*"}, "operations": []}]`)
	mark, err := Watermark(rs)
	if err != nil {
		t.Fatalf("Watermark returned error: %v", err)
	}
	if !strings.HasPrefix(mark, "[retrack ") || !strings.HasSuffix(mark, "]") {
		t.Fatalf("unexpected marker shape: %q", mark)
	}
}

func TestWatermarkEquivalentDocumentsCollapse(t *testing.T) {
	first := mustParse(t, `[{"match":{"codecs":["ac3"]},"operations":[]}]`)
	second := mustParse(t, `[
		{ "operations": [], "match": { "codecs": ["ac3"] } }
	]`)
	m1, err := Watermark(first)
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	m2, err := Watermark(second)
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if m1 != m2 {
		t.Fatalf("equivalent rule sets produced different markers:\n%s\n%s", m1, m2)
	}
}

func TestWatermarkChangesWithContent(t *testing.T) {
	first := mustParse(t, `[{"match": {"codecs": ["ac3"]}, "operations": []}]`)
	second := mustParse(t, `[{"match": {"codecs": ["dts"]}, "operations": []}]`)
	m1, _ := Watermark(first)
	m2, _ := Watermark(second)
	if m1 == m2 {
		t.Fatal("different rule sets must produce different markers")
	}
}

func TestAlreadyProcessed(t *testing.T) {
	rs := mustParse(t, `[{"match": {"codecs": "*"}, "operations": []}]`)
	mark, _ := Watermark(rs)

	done, err := AlreadyProcessed("encoded by someone "+mark+" trailing", rs)
	if err != nil {
		t.Fatalf("AlreadyProcessed: %v", err)
	}
	if !done {
		t.Fatal("marker containing the token should report processed")
	}

	done, err = AlreadyProcessed("some unrelated comment", rs)
	if err != nil {
		t.Fatalf("AlreadyProcessed: %v", err)
	}
	if done {
		t.Fatal("unrelated marker should not report processed")
	}

	done, err = AlreadyProcessed("", rs)
	if err != nil || done {
		t.Fatalf("empty marker should be a clean miss, got %v %v", done, err)
	}
}
