// Package aptsrc fetches Debian source trees through the system package
// manager.
//
// The fetcher never reimplements any apt behavior: it shells out to
// "apt source <name>" with the destination directory as the working
// directory and lets apt create the versioned source tree. Existing trees
// are detected by directory name and reused as-is; no freshness or
// completeness check is attempted.
package aptsrc

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/deepin-community/transtats/pkg/errors"
	"github.com/deepin-community/transtats/pkg/extcmd"
)

// DefaultCommand is the package manager invocation used unless overridden
// via configuration.
const DefaultCommand = "apt"

// DefaultSourceDir is the destination directory used unless overridden.
const DefaultSourceDir = "pkg-sources"

// Result describes the outcome of a fetch.
type Result struct {
	// Dir is the resolved source tree path, empty when the fetch failed or
	// apt produced no directory.
	Dir string

	// Reused is true when an existing tree was found and apt was not invoked.
	Reused bool
}

// Fetcher downloads source packages into a destination directory.
type Fetcher struct {
	dir    string
	argv   []string
	runner extcmd.Runner
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithCommand overrides the package manager argv (e.g. ["sudo", "apt"]).
func WithCommand(argv []string) Option {
	return func(f *Fetcher) {
		if len(argv) > 0 {
			f.argv = argv
		}
	}
}

// WithRunner overrides command execution, for tests.
func WithRunner(r extcmd.Runner) Option {
	return func(f *Fetcher) { f.runner = r }
}

// New creates a Fetcher for the given destination directory, creating the
// directory if needed.
func New(dir string, opts ...Option) (*Fetcher, error) {
	if dir == "" {
		dir = DefaultSourceDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "create source directory %s", dir)
	}

	f := &Fetcher{
		dir:    dir,
		argv:   []string{DefaultCommand},
		runner: extcmd.NewRunner(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Dir returns the destination directory.
func (f *Fetcher) Dir() string { return f.dir }

// CheckAvailable verifies the package manager can be invoked at all.
func (f *Fetcher) CheckAvailable(ctx context.Context) error {
	_, err := f.VersionBanner(ctx)
	return err
}

// VersionBanner returns the first line of the package manager's --version
// output, e.g. "apt 2.6.1 (amd64)".
func (f *Fetcher) VersionBanner(ctx context.Context) (string, error) {
	argv := append(append([]string{}, f.argv...), "--version")
	stdout, _, err := f.runner.Run(ctx, "", argv)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDependencyMissing, err,
			"%s not available (is this an apt-based system?)", f.argv[0])
	}
	return extcmd.FirstLine(stdout), nil
}

// SourceTree resolves the source tree for pkg under the destination
// directory. A directory qualifies when it is named exactly pkg or starts
// with pkg followed by "-" or "_" (apt names trees "<package>-<version>").
// Among multiple matches the lexicographically smallest wins, so resolution
// is stable across runs regardless of filesystem enumeration order.
func (f *Fetcher) SourceTree(pkg string) (string, bool) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return "", false
	}

	var matches []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if matchesPackage(e.Name(), pkg) {
			matches = append(matches, e.Name())
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return filepath.Join(f.dir, matches[0]), true
}

// matchesPackage reports whether a directory name belongs to pkg.
// A bare prefix test would let "dde-dock" claim "dde-dock-plugins" trees.
func matchesPackage(dirName, pkg string) bool {
	if dirName == pkg {
		return true
	}
	if !strings.HasPrefix(dirName, pkg) {
		return false
	}
	sep := dirName[len(pkg)]
	return sep == '-' || sep == '_'
}

// Fetch ensures a source tree for pkg exists, downloading it when absent.
// Per-package download failures are returned as FETCH_FAILED errors carrying
// apt's stderr; the caller decides whether to continue with other packages.
func (f *Fetcher) Fetch(ctx context.Context, pkg string) (Result, error) {
	if dir, ok := f.SourceTree(pkg); ok {
		return Result{Dir: dir, Reused: true}, nil
	}

	argv := append(append([]string{}, f.argv...), "source", pkg)
	_, stderr, err := f.runner.Run(ctx, f.dir, argv)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return Result{}, errors.Wrap(errors.ErrCodeFetchFailed, err, "apt source %s: %s", pkg, msg)
	}

	dir, ok := f.SourceTree(pkg)
	if !ok {
		return Result{}, errors.New(errors.ErrCodeSourceNotFound,
			"apt source %s succeeded but no source tree appeared under %s", pkg, f.dir)
	}
	return Result{Dir: dir}, nil
}
