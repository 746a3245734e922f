package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepin-community/transtats/pkg/aptsrc"
	"github.com/deepin-community/transtats/pkg/cache"
	"github.com/deepin-community/transtats/pkg/locale"
	"github.com/deepin-community/transtats/pkg/transutils"
)

var testLangs = []locale.Token{"zh_CN", "zh_TW"}

// scriptedRunner dispatches each command on its argv; used as the fake
// extcmd.Runner behind both the fetcher and the stats tool.
type scriptedRunner struct {
	t     *testing.T
	calls [][]string

	// aptFail lists packages whose "apt source" should fail.
	aptFail map[string]bool

	// statsOut is returned for stats invocations; statsErr fails them.
	statsOut string
	statsErr error
}

func (r *scriptedRunner) Run(ctx context.Context, dir string, argv []string) (string, string, error) {
	r.calls = append(r.calls, argv)

	switch {
	case len(argv) >= 3 && argv[1] == "source":
		pkg := argv[2]
		if r.aptFail[pkg] {
			return "", "E: Unable to find a source package for " + pkg, errors.New("exit status 100")
		}
		if err := os.MkdirAll(filepath.Join(dir, pkg+"-1.0.0"), 0755); err != nil {
			r.t.Fatal(err)
		}
		return "", "", nil
	case len(argv) >= 2 && argv[1] == "stats":
		return r.statsOut, "", r.statsErr
	}
	return "", "", nil
}

func (r *scriptedRunner) statsCalls() int {
	n := 0
	for _, argv := range r.calls {
		if len(argv) >= 2 && argv[1] == "stats" {
			n++
		}
	}
	return n
}

func newTestRunner(t *testing.T, sr *scriptedRunner, c cache.Cache, opts ...Option) *Runner {
	t.Helper()
	fetcher, err := aptsrc.New(t.TempDir(), aptsrc.WithRunner(sr))
	if err != nil {
		t.Fatal(err)
	}
	tool := transutils.New(transutils.WithRunner(sr))
	return NewRunner(fetcher, tool, c, testLangs, nil, opts...)
}

func TestRunProducesTaskPerPackage(t *testing.T) {
	sr := &scriptedRunner{
		t:        t,
		aptFail:  map[string]bool{"broken-pkg": true},
		statsOut: "header\n| a | 100% |\n| b | 50% |\n",
	}
	r := newTestRunner(t, sr, nil)

	packages := []string{"broken-pkg", "good-pkg", "other-pkg"}
	tasks := r.Run(context.Background(), packages)

	if len(tasks) != len(packages) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(packages))
	}
	for i, task := range tasks {
		if task.Package != packages[i] {
			t.Errorf("task %d is %q, want %q (order must be preserved)", i, task.Package, packages[i])
		}
		if !task.Status.Terminal() {
			t.Errorf("task %q left in non-terminal state %s", task.Package, task.Status)
		}
	}

	if tasks[0].Status != StatusFetchFailed {
		t.Errorf("broken-pkg status = %s, want FETCH_FAILED", tasks[0].Status)
	}
	if !strings.Contains(tasks[0].Message, "Unable to find a source package") {
		t.Errorf("failure message should carry apt stderr, got %q", tasks[0].Message)
	}

	if tasks[1].Status != StatusReported {
		t.Errorf("good-pkg status = %s, want REPORTED", tasks[1].Status)
	}
	if len(tasks[1].Rows) != 2 {
		t.Errorf("good-pkg rows = %v, want the 2 table rows", tasks[1].Rows)
	}
}

func TestRunReusesExistingTree(t *testing.T) {
	sr := &scriptedRunner{t: t, statsOut: "| a | 100% |\n"}
	fetchDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(fetchDir, "dde-dock-5.4.11"), 0755); err != nil {
		t.Fatal(err)
	}
	fetcher, err := aptsrc.New(fetchDir, aptsrc.WithRunner(sr))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fetcher, transutils.New(transutils.WithRunner(sr)), nil, testLangs, nil)

	tasks := r.Run(context.Background(), []string{"dde-dock"})
	if !tasks[0].Reused {
		t.Error("task should report the tree as reused")
	}
	for _, argv := range sr.calls {
		if len(argv) >= 2 && argv[1] == "source" {
			t.Error("apt source must not run when the tree exists")
		}
	}
}

func TestStatsFailureIsLocal(t *testing.T) {
	sr := &scriptedRunner{t: t, statsErr: errors.New("exit status 2")}
	r := newTestRunner(t, sr, nil)

	tasks := r.Run(context.Background(), []string{"one-pkg", "two-pkg"})
	if tasks[0].Status != StatusStatsFailed {
		t.Errorf("status = %s, want STATS_FAILED", tasks[0].Status)
	}
	if len(tasks) != 2 {
		t.Error("a stats failure must not stop the loop")
	}
}

func TestStatsCaching(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sr := &scriptedRunner{t: t, statsOut: "| a | 100% |\n"}
	fetchDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(fetchDir, "dde-dock-5.4.11"), 0755); err != nil {
		t.Fatal(err)
	}

	newRun := func(opts ...Option) *Runner {
		fetcher, err := aptsrc.New(fetchDir, aptsrc.WithRunner(sr))
		if err != nil {
			t.Fatal(err)
		}
		return NewRunner(fetcher, transutils.New(transutils.WithRunner(sr)), fileCache, testLangs, nil, opts...)
	}

	tasks := newRun().Run(context.Background(), []string{"dde-dock"})
	if tasks[0].Cached {
		t.Error("first run should not be served from cache")
	}
	if sr.statsCalls() != 1 {
		t.Fatalf("stats calls = %d, want 1", sr.statsCalls())
	}

	tasks = newRun().Run(context.Background(), []string{"dde-dock"})
	if !tasks[0].Cached {
		t.Error("second run should be served from cache")
	}
	if sr.statsCalls() != 1 {
		t.Errorf("stats calls = %d, cache should have prevented a second run", sr.statsCalls())
	}
	if len(tasks[0].Rows) != 1 {
		t.Errorf("cached rows = %v, want the filtered table row", tasks[0].Rows)
	}

	tasks = newRun(WithRefresh(true)).Run(context.Background(), []string{"dde-dock"})
	if tasks[0].Cached {
		t.Error("--refresh run must bypass cache reads")
	}
	if sr.statsCalls() != 2 {
		t.Errorf("stats calls = %d, refresh should rerun the tool", sr.statsCalls())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sr := &scriptedRunner{t: t, statsOut: "| a | 100% |\n"}
	r := newTestRunner(t, sr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := r.Run(ctx, []string{"one-pkg", "two-pkg"})
	if len(tasks) != 0 {
		t.Errorf("cancelled run produced %d tasks, want 0", len(tasks))
	}
}

func TestTaskSection(t *testing.T) {
	task := newTask("dde-dock")
	task.Rows = []string{"| a | 100% |"}
	task.Status = StatusReported

	s := task.Section()
	if s.Package != "dde-dock" || len(s.Rows) != 1 || s.Failure != "" {
		t.Errorf("unexpected section %+v", s)
	}

	task.fail(StatusStatsFailed, errors.New("boom"))
	s = task.Section()
	if s.Failure == "" || s.Rows != nil {
		t.Errorf("failed task section should carry only the failure, got %+v", s)
	}

	if task.ID == "" || !strings.HasPrefix(task.ID, "task-") {
		t.Errorf("task ID = %q, want task-<uuid>", task.ID)
	}
}
