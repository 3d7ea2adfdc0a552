package tasks

import (
	"taskManager/internal/client/api"
	"time"
)

// Action is a state transition applied by Reduce.
type Action interface {
	action()
}

// Loaded replaces the list.
type Loaded struct{ Tasks []api.Task }

// Inserted puts a task at the head of the list.
type Inserted struct{ Task api.Task }

type Toggled struct{ ID string }

type Removed struct{ ID string }

type Renamed struct {
	ID    string
	Title string
}

// DeadlineSet sets or, with a nil Deadline, clears a deadline.
type DeadlineSet struct {
	ID       string
	Deadline *time.Time
}

// Replaced swaps in the server's version of a task.
type Replaced struct{ Task api.Task }

// Restored rolls the list back to a snapshot.
type Restored struct{ Tasks []api.Task }

func (Loaded) action()      {}
func (Inserted) action()    {}
func (Toggled) action()     {}
func (Removed) action()     {}
func (Renamed) action()     {}
func (DeadlineSet) action() {}
func (Replaced) action()    {}
func (Restored) action()    {}

// Reduce returns the list after applying a. It never modifies tasks.
func Reduce(tasks []api.Task, a Action) []api.Task {
	switch a := a.(type) {
	case Loaded:
		return clone(a.Tasks)
	case Restored:
		return clone(a.Tasks)
	case Inserted:
		out := make([]api.Task, 0, len(tasks)+1)
		out = append(out, copyTask(a.Task))
		return append(out, clone(tasks)...)
	case Removed:
		out := make([]api.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != a.ID {
				out = append(out, copyTask(t))
			}
		}
		return out
	case Toggled:
		return mapTask(tasks, a.ID, func(t *api.Task) {
			if t.Status == api.StatusDone {
				t.Status = api.StatusActive
			} else {
				t.Status = api.StatusDone
			}
			t.Completed = t.Status == api.StatusDone
		})
	case Renamed:
		return mapTask(tasks, a.ID, func(t *api.Task) {
			t.Title = a.Title
		})
	case DeadlineSet:
		return mapTask(tasks, a.ID, func(t *api.Task) {
			t.Deadline = copyTime(a.Deadline)
		})
	case Replaced:
		return mapTask(tasks, a.Task.ID, func(t *api.Task) {
			*t = copyTask(a.Task)
		})
	default:
		return clone(tasks)
	}
}

func mapTask(tasks []api.Task, id string, fn func(*api.Task)) []api.Task {
	out := clone(tasks)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

func clone(tasks []api.Task) []api.Task {
	out := make([]api.Task, len(tasks))
	for i, t := range tasks {
		out[i] = copyTask(t)
	}
	return out
}

func copyTask(t api.Task) api.Task {
	t.Deadline = copyTime(t.Deadline)
	return t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
