package pipeline

import (
	"github.com/google/uuid"

	"github.com/deepin-community/transtats/pkg/report"
)

// Task is one package's journey through the pipeline.
type Task struct {
	ID      string
	Package string
	Status  Status

	// Dir is the resolved source tree, set once fetched.
	Dir string

	// Reused is true when an existing source tree was found; Cached is true
	// when the stats rows came from the cache instead of a tool run.
	Reused bool
	Cached bool

	// Rows holds the filtered table rows on success; Message holds the
	// failure text otherwise.
	Rows    []string
	Message string
}

func newTask(pkg string) *Task {
	return &Task{
		ID:      "task-" + uuid.NewString(),
		Package: pkg,
		Status:  StatusPending,
	}
}

// Section converts the task into its report section.
func (t *Task) Section() *report.Section {
	s := &report.Section{Package: t.Package, Rows: t.Rows}
	if t.Status.Failed() {
		s.Failure = t.Message
		s.Rows = nil
	}
	return s
}

func (t *Task) fail(status Status, err error) {
	t.Status = status
	t.Message = err.Error()
}
