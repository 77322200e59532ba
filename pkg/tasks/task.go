package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mklimuk/marktask/pkg/dates"
)

// Priority is the importance signalled by an inline signifier.
// Lower values are more important.
type Priority int

const (
	Highest Priority = iota
	High
	Medium
	Low
	Lowest
	None
)

var priorityNames = [...]string{"Highest", "High", "Medium", "Low", "Lowest", "None"}

func (p Priority) String() string {
	if p < Highest || p > None {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// MarshalText renders the variant name.
func (p Priority) MarshalText() ([]byte, error) {
	if p < Highest || p > None {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(priorityNames[p]), nil
}

// UnmarshalText accepts the variant names produced by MarshalText.
func (p *Priority) UnmarshalText(b []byte) error {
	for i, name := range priorityNames {
		if name == string(b) {
			*p = Priority(i)
			return nil
		}
	}
	return fmt.Errorf("unknown priority %q", string(b))
}

// Task is a single checklist item. Dates are calendar days at UTC midnight.
type Task struct {
	Name      string
	Completed bool
	Due       *time.Time
	Scheduled *time.Time
	Start     *time.Time
	Overdue   bool
	Priority  Priority
}

type taskJSON struct {
	Name      string   `json:"name"`
	Completed bool     `json:"completed"`
	Due       string   `json:"due,omitempty"`
	Scheduled string   `json:"scheduled,omitempty"`
	Start     string   `json:"start,omitempty"`
	Overdue   bool     `json:"overdue"`
	Priority  Priority `json:"priority"`
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(dates.Layout)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, ok := dates.ParseAbsolute(s)
	if !ok {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return &d, nil
}

// MarshalJSON writes dates as YYYY-MM-DD and omits absent ones.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		Name:      t.Name,
		Completed: t.Completed,
		Due:       formatDate(t.Due),
		Scheduled: formatDate(t.Scheduled),
		Start:     formatDate(t.Start),
		Overdue:   t.Overdue,
		Priority:  t.Priority,
	})
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (t *Task) UnmarshalJSON(b []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	due, err := parseDate(raw.Due)
	if err != nil {
		return fmt.Errorf("due: %w", err)
	}
	scheduled, err := parseDate(raw.Scheduled)
	if err != nil {
		return fmt.Errorf("scheduled: %w", err)
	}
	start, err := parseDate(raw.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	*t = Task{
		Name:      raw.Name,
		Completed: raw.Completed,
		Due:       due,
		Scheduled: scheduled,
		Start:     start,
		Overdue:   raw.Overdue,
		Priority:  raw.Priority,
	}
	return nil
}

// Refs returns pointers into ts, in order, for use with filters.
func Refs(ts []Task) []*Task {
	refs := make([]*Task, len(ts))
	for i := range ts {
		refs[i] = &ts[i]
	}
	return refs
}
