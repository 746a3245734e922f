// Package transutils wraps the deepin-translation-utils binary, the external
// analysis tool that computes translation completion statistics for a source
// tree.
//
// Language filtering is delegated to the tool through its -l argument (the
// contract introduced in 0.4.0, which CheckVersion gates on); the wrapper
// itself only post-filters the output down to table rows. The statistics
// themselves are never computed here.
package transutils

import (
	"context"
	"strings"

	"github.com/deepin-community/transtats/pkg/errors"
	"github.com/deepin-community/transtats/pkg/extcmd"
	"github.com/deepin-community/transtats/pkg/locale"
)

// DefaultCommand is the stats utility invocation used unless overridden via
// configuration.
const DefaultCommand = "deepin-translation-utils"

// tableDelimiter starts every row of the tool's Markdown-style stats table.
const tableDelimiter = "|"

// Tool wraps the stats utility.
type Tool struct {
	argv   []string
	runner extcmd.Runner
}

// Option configures a Tool.
type Option func(*Tool)

// WithCommand overrides the stats utility argv.
func WithCommand(argv []string) Option {
	return func(t *Tool) {
		if len(argv) > 0 {
			t.argv = argv
		}
	}
}

// WithRunner overrides command execution, for tests.
func WithRunner(r extcmd.Runner) Option {
	return func(t *Tool) { t.runner = r }
}

// New creates a Tool.
func New(opts ...Option) *Tool {
	t := &Tool{
		argv:   []string{DefaultCommand},
		runner: extcmd.NewRunner(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CheckVersion invokes the tool's -V flag, parses the reported version and
// verifies it is at least MinVersion. The parsed version is returned for
// display.
func (t *Tool) CheckVersion(ctx context.Context) (Version, error) {
	argv := append(append([]string{}, t.argv...), "-V")
	stdout, _, err := t.runner.Run(ctx, "", argv)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeDependencyMissing, err,
			"%s not available", t.argv[0])
	}

	banner := extcmd.FirstLine(stdout)
	v, ok := ParseVersion(banner)
	if !ok {
		return Version{}, errors.New(errors.ErrCodeDependencyVersion,
			"cannot parse %s version from %q", t.argv[0], banner)
	}
	if v.Less(MinVersion) {
		return v, errors.New(errors.ErrCodeDependencyVersion,
			"%s %s is too old, need >= %s", t.argv[0], v, MinVersion)
	}
	return v, nil
}

// Stats runs "stats <sourcePath> -l <langs>" and returns the tool's raw
// stdout. Failures carry the tool's stderr as a STATS_FAILED error.
func (t *Tool) Stats(ctx context.Context, sourcePath string, langs []locale.Token) (string, error) {
	argv := append(append([]string{}, t.argv...), "stats", sourcePath)
	if len(langs) > 0 {
		argv = append(argv, "-l", locale.Join(langs))
	}

	stdout, stderr, err := t.runner.Run(ctx, "", argv)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Wrap(errors.ErrCodeStatsFailed, err,
			"%s stats %s: %s", t.argv[0], sourcePath, msg)
	}
	return stdout, nil
}

// FilterTable keeps only the table rows of a stats report, preserving their
// order. Everything else the tool prints (headings, progress notes) is
// dropped so report sections stay machine-friendly.
func FilterTable(output string) []string {
	var rows []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, tableDelimiter) {
			rows = append(rows, line)
		}
	}
	return rows
}
