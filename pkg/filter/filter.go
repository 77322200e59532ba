package filter

import (
	"time"

	"github.com/mklimuk/marktask/pkg/tasks"
)

// Filter narrows a list of tasks. Implementations keep the relative order
// of the tasks they retain.
type Filter interface {
	Apply(ts []*tasks.Task) []*tasks.Task
}

// FilterFunc keeps the tasks for which the function returns true.
type FilterFunc func(t *tasks.Task) bool

// Apply implements Filter.
func (f FilterFunc) Apply(ts []*tasks.Task) []*tasks.Task {
	out := make([]*tasks.Task, 0, len(ts))
	for _, t := range ts {
		if f(t) {
			out = append(out, t)
		}
	}
	return out
}

// OverdueFilter hides overdue tasks unless ShowOverdue is set.
type OverdueFilter struct {
	ShowOverdue bool
}

// Apply implements Filter.
func (f OverdueFilter) Apply(ts []*tasks.Task) []*tasks.Task {
	if f.ShowOverdue {
		return ts
	}
	return FilterFunc(func(t *tasks.Task) bool { return !t.Overdue }).Apply(ts)
}

// DateRangeFilter keeps tasks whose due date lies within [From, To].
// A nil bound is open. With either bound set, tasks without a due date
// are dropped.
type DateRangeFilter struct {
	From *time.Time
	To   *time.Time
}

// Apply implements Filter.
func (f DateRangeFilter) Apply(ts []*tasks.Task) []*tasks.Task {
	if f.From == nil && f.To == nil {
		return ts
	}
	return FilterFunc(f.includes).Apply(ts)
}

func (f DateRangeFilter) includes(t *tasks.Task) bool {
	if t.Due == nil {
		return false
	}
	if f.From != nil && t.Due.Before(*f.From) {
		return false
	}
	if f.To != nil && t.Due.After(*f.To) {
		return false
	}
	return true
}

// Status selects tasks by completion.
type Status string

const (
	StatusAll  Status = "all"
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// ParseStatus maps a flag value to a Status. Unknown values mean all.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusOpen, StatusDone:
		return Status(s)
	default:
		return StatusAll
	}
}

// StatusFilter keeps open tasks, done tasks, or both.
type StatusFilter struct {
	Status Status
}

// Apply implements Filter.
func (f StatusFilter) Apply(ts []*tasks.Task) []*tasks.Task {
	switch f.Status {
	case StatusOpen:
		return FilterFunc(func(t *tasks.Task) bool { return !t.Completed }).Apply(ts)
	case StatusDone:
		return FilterFunc(func(t *tasks.Task) bool { return t.Completed }).Apply(ts)
	default:
		return ts
	}
}
