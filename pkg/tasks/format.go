package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// WriteText prints one "[x] - name" or "[ ] - name" line per task.
func WriteText(w io.Writer, ts []*Task) error {
	for _, t := range ts {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		if _, err := fmt.Fprintf(w, "%s - %s\n", box, t.Name); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints ts as a single JSON array. An empty list prints [].
func WriteJSON(w io.Writer, ts []*Task) error {
	if ts == nil {
		ts = []*Task{}
	}
	data, err := json.Marshal(ts)
	if err != nil {
		return fmt.Errorf("failed to serialize tasks: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Source yields tasks from somewhere: stdin, a vault, a git revision.
type Source interface {
	Tasks(ctx context.Context) ([]Task, error)
}

// TextSource parses a fixed block of checklist text.
type TextSource struct {
	Text   string
	Parser *Parser
}

// Tasks parses the text.
func (s TextSource) Tasks(ctx context.Context) ([]Task, error) {
	p := s.Parser
	if p == nil {
		p = NewParser(nil)
	}
	return p.Parse(s.Text), nil
}
