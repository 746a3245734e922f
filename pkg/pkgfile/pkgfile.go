// Package pkgfile reads the newline-delimited package list that drives a
// transtats run.
//
// The file format is UTF-8 text with one Debian source package name per line.
// Blank lines and lines starting with "#" are ignored. A missing file or a
// list that ends up empty is a startup-fatal error.
package pkgfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepin-community/transtats/pkg/errors"
)

// CommentPrefix marks lines that are skipped when reading a package list.
const CommentPrefix = "#"

// Read loads the package list from path.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "package list %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read package list %s", path)
	}
	defer f.Close()

	names, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("package list %s: %w", path, err)
	}
	return names, nil
}

// Parse reads package names from r, skipping blank lines and comments and
// validating every remaining name. The returned slice preserves input order;
// an empty result is an error.
func Parse(r io.Reader) ([]string, error) {
	var names []string

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, CommentPrefix) {
			continue
		}
		if err := errors.ValidatePackageName(name); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "scan package list")
	}

	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyList, "no package names found")
	}
	return names, nil
}
