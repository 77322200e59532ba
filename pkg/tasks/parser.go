package tasks

import (
	"regexp"
	"strings"

	"github.com/mklimuk/marktask/pkg/dates"
)

var taskLineRe = regexp.MustCompile(`^\s*-\s*\[(\s|x)\]\s*(.*)`)

// Parser turns checklist text into tasks. The clock decides which due
// dates count as overdue.
type Parser struct {
	clock dates.Clock
}

// NewParser creates a Parser. A nil clock uses the system clock.
func NewParser(clock dates.Clock) *Parser {
	if clock == nil {
		clock = dates.SystemClock{}
	}
	return &Parser{clock: clock}
}

// Parse returns one task per checklist line, in input order.
// Lines that are not checklist items are skipped.
func (p *Parser) Parse(input string) []Task {
	today := dates.Today(p.clock)

	var out []Task
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSuffix(line, "\r")
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		a := Extract(m[2])
		out = append(out, Task{
			Name:      a.Name,
			Completed: m[1] == "x",
			Due:       a.Due,
			Scheduled: a.Scheduled,
			Start:     a.Start,
			Overdue:   a.Due != nil && a.Due.Before(today),
			Priority:  a.Priority,
		})
	}
	return out
}

// Parse parses input against the system clock.
func Parse(input string) []Task {
	return NewParser(nil).Parse(input)
}
