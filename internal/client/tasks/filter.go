package tasks

import (
	"strings"
	"taskManager/internal/client/api"
	"taskManager/internal/models/task"

	"golang.org/x/text/cases"
)

// Visible returns the tasks matching a status tab and a search term.
// An unknown status shows everything.
func Visible(tasks []api.Task, status, search string) []api.Task {
	want, err := task.ParseStatusFilter(status)
	if err != nil {
		want = nil
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(search))

	out := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		if want != nil && t.Status != string(*want) {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(t.Title), needle) {
			continue
		}
		out = append(out, copyTask(t))
	}
	return out
}

// Remaining counts active tasks regardless of any filter.
func Remaining(tasks []api.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == api.StatusActive {
			n++
		}
	}
	return n
}
