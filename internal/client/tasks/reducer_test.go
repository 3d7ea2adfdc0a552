package tasks_test

import (
	"taskManager/internal/client/api"
	"taskManager/internal/client/tasks"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []api.Task {
	return []api.Task{
		{ID: "3", Title: "Buy bread", Status: api.StatusDone, Completed: true},
		{ID: "2", Title: "Pay RENT", Status: api.StatusActive},
		{ID: "1", Title: "Buy milk", Status: api.StatusActive},
	}
}

func TestReduce(t *testing.T) {
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		action tasks.Action
		check  func(t *testing.T, got []api.Task)
	}{
		{
			name:   "inserted goes first",
			action: tasks.Inserted{Task: api.Task{ID: "4", Title: "new", Status: api.StatusActive}},
			check: func(t *testing.T, got []api.Task) {
				require.Len(t, got, 4)
				assert.Equal(t, "4", got[0].ID)
			},
		},
		{
			name:   "toggled flips status and completed",
			action: tasks.Toggled{ID: "2"},
			check: func(t *testing.T, got []api.Task) {
				assert.Equal(t, api.StatusDone, got[1].Status)
				assert.True(t, got[1].Completed)
			},
		},
		{
			name:   "removed",
			action: tasks.Removed{ID: "2"},
			check: func(t *testing.T, got []api.Task) {
				require.Len(t, got, 2)
				assert.Equal(t, "3", got[0].ID)
				assert.Equal(t, "1", got[1].ID)
			},
		},
		{
			name:   "renamed",
			action: tasks.Renamed{ID: "1", Title: "Buy oat milk"},
			check: func(t *testing.T, got []api.Task) {
				assert.Equal(t, "Buy oat milk", got[2].Title)
			},
		},
		{
			name:   "deadline set",
			action: tasks.DeadlineSet{ID: "1", Deadline: &deadline},
			check: func(t *testing.T, got []api.Task) {
				require.NotNil(t, got[2].Deadline)
				assert.True(t, deadline.Equal(*got[2].Deadline))
			},
		},
		{
			name:   "unknown id is a no-op",
			action: tasks.Toggled{ID: "missing"},
			check: func(t *testing.T, got []api.Task) {
				assert.Equal(t, sample(), got)
			},
		},
		{
			name:   "loaded replaces everything",
			action: tasks.Loaded{Tasks: []api.Task{{ID: "9"}}},
			check: func(t *testing.T, got []api.Task) {
				require.Len(t, got, 1)
				assert.Equal(t, "9", got[0].ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sample()
			got := tasks.Reduce(before, tt.action)
			tt.check(t, got)
			assert.Equal(t, sample(), before, "input must not change")
		})
	}
}

func TestReduce_ToggleTwiceRestores(t *testing.T) {
	start := sample()
	got := tasks.Reduce(tasks.Reduce(start, tasks.Toggled{ID: "1"}), tasks.Toggled{ID: "1"})
	assert.Equal(t, start, got)
}

func TestVisible(t *testing.T) {
	all := sample()

	assert.Len(t, tasks.Visible(all, "all", ""), 3)
	assert.Len(t, tasks.Visible(all, "bogus", ""), 3)

	active := tasks.Visible(all, "active", "")
	require.Len(t, active, 2)
	assert.Equal(t, "2", active[0].ID)

	done := tasks.Visible(all, "completed", "")
	require.Len(t, done, 1)
	assert.Equal(t, "3", done[0].ID)

	search := tasks.Visible(all, "", "  BUY ")
	require.Len(t, search, 2)
	assert.Equal(t, []string{"3", "1"}, []string{search[0].ID, search[1].ID})

	assert.Empty(t, tasks.Visible(all, "done", "rent"))
	assert.Equal(t, 2, tasks.Remaining(all))
}
