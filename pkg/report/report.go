// Package report renders per-package translation-stats report sections.
//
// Output is deliberately plain text so reports stay pipe- and diff-friendly;
// any terminal styling happens in the CLI layer around this package.
package report

import (
	"fmt"
	"io"

	"github.com/deepin-community/transtats/pkg/locale"
)

// Section is one package's slot in a report. Exactly one of Failure or Rows
// is meaningful: a non-empty Failure describes a fetch or stats error, and
// otherwise Rows holds the filtered table (possibly empty).
type Section struct {
	Package string
	Rows    []string
	Failure string
}

// Writer emits report sections in input order.
type Writer struct {
	out   io.Writer
	langs []locale.Token
}

// NewWriter creates a Writer that reports on the given language selection.
func NewWriter(out io.Writer, langs []locale.Token) *Writer {
	return &Writer{out: out, langs: langs}
}

// Write renders one section: a "## <name>:" header, a blank line, the body
// and a trailing blank separator line. A section never comes out empty; when
// no table rows qualified, a fixed not-found message names the requested
// languages instead.
func (w *Writer) Write(s *Section) error {
	if _, err := fmt.Fprintf(w.out, "## %s:\n\n", s.Package); err != nil {
		return err
	}

	switch {
	case s.Failure != "":
		if _, err := fmt.Fprintln(w.out, s.Failure); err != nil {
			return err
		}
	case len(s.Rows) > 0:
		for _, row := range s.Rows {
			if _, err := fmt.Fprintln(w.out, row); err != nil {
				return err
			}
		}
	default:
		if _, err := fmt.Fprintf(w.out, "no translation statistics for %s\n", locale.Display(w.langs)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w.out)
	return err
}
