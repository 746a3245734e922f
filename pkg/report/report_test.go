package report

import (
	"strings"
	"testing"

	"github.com/deepin-community/transtats/pkg/locale"
)

var langs = []locale.Token{"zh_CN", "zh_TW"}

func TestWriteTableSection(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf, langs)

	err := w.Write(&Section{
		Package: "dde-dock",
		Rows: []string{
			"| File | zh_CN | zh_TW |",
			"| dock.ts | 100% | 98% |",
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "## dde-dock:\n" +
		"\n" +
		"| File | zh_CN | zh_TW |\n" +
		"| dock.ts | 100% | 98% |\n" +
		"\n"
	if buf.String() != want {
		t.Errorf("section = %q, want %q", buf.String(), want)
	}
}

func TestWriteFailureSection(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf, langs)

	err := w.Write(&Section{
		Package: "no-such-pkg",
		Failure: "FETCH_FAILED: apt source no-such-pkg: E: Unable to find a source package",
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "## no-such-pkg:\n\n") {
		t.Errorf("section should start with header, got %q", out)
	}
	if !strings.Contains(out, "FETCH_FAILED") {
		t.Errorf("failure message missing from %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("section should end with a blank separator line, got %q", out)
	}
}

func TestWriteEmptySection(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf, langs)

	if err := w.Write(&Section{Package: "dde-calendar"}); err != nil {
		t.Fatal(err)
	}

	want := "## dde-calendar:\n" +
		"\n" +
		"no translation statistics for zh_CN, zh_TW\n" +
		"\n"
	if buf.String() != want {
		t.Errorf("section = %q, want %q", buf.String(), want)
	}
}

func TestRowOrderPreserved(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf, langs)

	rows := []string{"| c |", "| a |", "| b |"}
	if err := w.Write(&Section{Package: "p-kg", Rows: rows}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Index(out, "| c |") > strings.Index(out, "| a |") ||
		strings.Index(out, "| a |") > strings.Index(out, "| b |") {
		t.Errorf("rows reordered: %q", out)
	}
}
