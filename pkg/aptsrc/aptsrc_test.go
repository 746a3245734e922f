package aptsrc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	tserrors "github.com/deepin-community/transtats/pkg/errors"
)

// fakeRunner records invocations and plays back scripted results.
type fakeRunner struct {
	calls  [][]string
	dirs   []string
	stdout string
	stderr string
	err    error

	// onRun, when set, runs before returning; used to simulate apt creating
	// the source tree.
	onRun func(dir string, argv []string)
}

func (r *fakeRunner) Run(ctx context.Context, dir string, argv []string) (string, string, error) {
	r.calls = append(r.calls, argv)
	r.dirs = append(r.dirs, dir)
	if r.onRun != nil {
		r.onRun(dir, argv)
	}
	return r.stdout, r.stderr, r.err
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func TestFetchReusesExistingTree(t *testing.T) {
	dir := t.TempDir()
	mkdir(t, filepath.Join(dir, "dde-dock-5.4.11"))

	runner := &fakeRunner{}
	f, err := New(dir, WithRunner(runner))
	if err != nil {
		t.Fatal(err)
	}

	res, err := f.Fetch(context.Background(), "dde-dock")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if !res.Reused {
		t.Error("Fetch should report the existing tree as reused")
	}
	if want := filepath.Join(dir, "dde-dock-5.4.11"); res.Dir != want {
		t.Errorf("Dir = %q, want %q", res.Dir, want)
	}
	if len(runner.calls) != 0 {
		t.Errorf("apt should not be invoked when a tree exists, got %d calls", len(runner.calls))
	}
}

func TestFetchDownloads(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		onRun: func(cwd string, argv []string) {
			mkdir(t, filepath.Join(cwd, "dde-dock-5.4.11"))
		},
	}
	f, err := New(dir, WithRunner(runner))
	if err != nil {
		t.Fatal(err)
	}

	res, err := f.Fetch(context.Background(), "dde-dock")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if res.Reused {
		t.Error("fresh download should not be reported as reused")
	}
	if want := filepath.Join(dir, "dde-dock-5.4.11"); res.Dir != want {
		t.Errorf("Dir = %q, want %q", res.Dir, want)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 apt call, got %d", len(runner.calls))
	}
	if want := []string{"apt", "source", "dde-dock"}; !reflect.DeepEqual(runner.calls[0], want) {
		t.Errorf("argv = %v, want %v", runner.calls[0], want)
	}
	if runner.dirs[0] != dir {
		t.Errorf("apt should run inside %q, ran in %q", dir, runner.dirs[0])
	}
}

func TestFetchFailure(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		stderr: "E: Unable to find a source package for no-such-pkg",
		err:    errors.New("exit status 100"),
	}
	f, err := New(dir, WithRunner(runner))
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.Fetch(context.Background(), "no-such-pkg")
	if err == nil {
		t.Fatal("Fetch should fail when apt fails")
	}
	if !tserrors.HasCode(err, tserrors.ErrCodeFetchFailed) {
		t.Errorf("code = %v, want FETCH_FAILED", tserrors.CodeOf(err))
	}
}

func TestFetchNoTreeAfterDownload(t *testing.T) {
	dir := t.TempDir()
	f, err := New(dir, WithRunner(&fakeRunner{}))
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.Fetch(context.Background(), "dde-dock")
	if err == nil {
		t.Fatal("Fetch should fail when apt creates no directory")
	}
	if !tserrors.HasCode(err, tserrors.ErrCodeSourceNotFound) {
		t.Errorf("code = %v, want SOURCE_NOT_FOUND", tserrors.CodeOf(err))
	}
}

func TestSourceTreeSelection(t *testing.T) {
	tests := []struct {
		name    string
		dirs    []string
		files   []string
		pkg     string
		want    string
		wantHit bool
	}{
		{
			name:    "exact name",
			dirs:    []string{"dde-dock"},
			pkg:     "dde-dock",
			want:    "dde-dock",
			wantHit: true,
		},
		{
			name:    "versioned name",
			dirs:    []string{"dde-dock-5.4.11"},
			pkg:     "dde-dock",
			want:    "dde-dock-5.4.11",
			wantHit: true,
		},
		{
			name:    "lexicographically smallest of several versions",
			dirs:    []string{"dde-dock-5.4.9", "dde-dock-5.4.11", "dde-dock-5.4.2"},
			pkg:     "dde-dock",
			want:    "dde-dock-5.4.11",
			wantHit: true,
		},
		{
			name: "unrelated prefix does not match",
			dirs: []string{"dde-dock-plugins-1.0"},
			pkg:  "dde-dock",
		},
		{
			name:    "sibling package does not shadow",
			dirs:    []string{"dde-dockbar-1.0", "dde-dock-5.4.11"},
			pkg:     "dde-dock",
			want:    "dde-dock-5.4.11",
			wantHit: true,
		},
		{
			name:  "plain file ignored",
			files: []string{"dde-dock_5.4.11.dsc"},
			pkg:   "dde-dock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, d := range tt.dirs {
				mkdir(t, filepath.Join(dir, d))
			}
			for _, name := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
					t.Fatal(err)
				}
			}

			f, err := New(dir, WithRunner(&fakeRunner{}))
			if err != nil {
				t.Fatal(err)
			}

			got, ok := f.SourceTree(tt.pkg)
			if ok != tt.wantHit {
				t.Fatalf("SourceTree hit = %v, want %v", ok, tt.wantHit)
			}
			if tt.wantHit && got != filepath.Join(dir, tt.want) {
				t.Errorf("SourceTree = %q, want %q", got, filepath.Join(dir, tt.want))
			}
		})
	}
}

func TestCheckAvailable(t *testing.T) {
	f, err := New(t.TempDir(), WithRunner(&fakeRunner{stdout: "apt 2.6.1 (amd64)"}))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.CheckAvailable(context.Background()); err != nil {
		t.Errorf("CheckAvailable error: %v", err)
	}

	broken, err := New(t.TempDir(), WithRunner(&fakeRunner{err: errors.New("executable file not found")}))
	if err != nil {
		t.Fatal(err)
	}
	err = broken.CheckAvailable(context.Background())
	if err == nil {
		t.Fatal("CheckAvailable should fail when apt is missing")
	}
	if !tserrors.HasCode(err, tserrors.ErrCodeDependencyMissing) {
		t.Errorf("code = %v, want DEPENDENCY_MISSING", tserrors.CodeOf(err))
	}
}

func TestWithCommand(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		onRun: func(cwd string, argv []string) {
			mkdir(t, filepath.Join(cwd, "dde-dock-5.4.11"))
		},
	}
	f, err := New(dir, WithRunner(runner), WithCommand([]string{"sudo", "apt"}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.Fetch(context.Background(), "dde-dock"); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if want := []string{"sudo", "apt", "source", "dde-dock"}; !reflect.DeepEqual(runner.calls[0], want) {
		t.Errorf("argv = %v, want %v", runner.calls[0], want)
	}
}
