// Package tasklist derives the two-section list shown to a user from the
// flat task collection returned by the server.
package tasklist

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/deadline"
)

// Task is the client-side view of a stored task.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Deadline  *time.Time
	CreatedAt time.Time
}

// Item is a task together with its deadline state at the time the view was
// built.
type Item struct {
	Task
	Class     deadline.Class
	Remaining deadline.Duration
}

// View holds the active tasks ordered by deadline and the completed tasks in
// the order they were received.
type View struct {
	Active    []Item
	Completed []Item
}

// Build partitions tasks by completion. Active items are stably sorted by
// deadline with deadline-less ones last; completed items keep input order.
// The view is derived entirely from its arguments and is meant to be rebuilt
// after every change.
func Build(tasks []Task, now time.Time) View {
	v := View{
		Active:    make([]Item, 0, len(tasks)),
		Completed: make([]Item, 0),
	}

	for _, t := range tasks {
		it := Item{Task: t, Class: deadline.Classify(now, t.Deadline)}
		if t.Deadline != nil {
			it.Remaining = deadline.Remaining(now, *t.Deadline)
		}
		if t.Completed {
			v.Completed = append(v.Completed, it)
		} else {
			v.Active = append(v.Active, it)
		}
	}

	slices.SortStableFunc(v.Active, func(a, b Item) int {
		return deadline.Compare(a.Deadline, b.Deadline)
	})

	return v
}

// Find returns the item with the given id from either section.
func (v View) Find(id string) (Item, bool) {
	for _, section := range [][]Item{v.Active, v.Completed} {
		for _, it := range section {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Len is the total number of tasks in the view.
func (v View) Len() int {
	return len(v.Active) + len(v.Completed)
}
