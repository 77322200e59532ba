// Package chat answers task queries for the chat integrations. It knows
// nothing about transports: text goes in, text comes out.
package chat

import (
	"bytes"
	"context"
	"log"
	"strings"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/filter"
	"github.com/mklimuk/marktask/pkg/tasks"
)

// Responder turns commands into replies.
type Responder struct {
	Source   tasks.Source
	Resolver *dates.Resolver
	// MaxLen caps a reply in bytes. Zero means no limit.
	MaxLen int
}

// NewResponder creates a Responder. A nil resolver uses the system clock.
func NewResponder(source tasks.Source, resolver *dates.Resolver, maxLen int) *Responder {
	if resolver == nil {
		resolver = dates.NewResolver(nil)
	}
	return &Responder{Source: source, Resolver: resolver, MaxLen: maxLen}
}

// Reply computes the answer to a message. Unknown input yields "".
func (r *Responder) Reply(ctx context.Context, text string) string {
	cmd, args := ParseCommand(text)
	switch cmd {
	case "/status":
		return "marktask is online."
	case "/tasks":
		opts := filter.Options{Status: filter.StatusOpen}
		if len(args) > 0 {
			opts.From = &args[0]
		}
		if len(args) > 1 {
			opts.To = &args[1]
		}
		return r.list(ctx, filter.Build(opts, r.Resolver), "No open tasks.")
	case "/overdue":
		p := filter.NewPipeline(
			filter.StatusFilter{Status: filter.StatusOpen},
			filter.FilterFunc(func(t *tasks.Task) bool { return t.Overdue }),
		)
		return r.list(ctx, p, "Nothing overdue.")
	}
	return ""
}

func (r *Responder) list(ctx context.Context, p *filter.Pipeline, empty string) string {
	all, err := r.Source.Tasks(ctx)
	if err != nil {
		log.Printf("chat: failed to load tasks: %v", err)
		return "Error loading tasks."
	}
	selected := p.Apply(tasks.Refs(all))
	if len(selected) == 0 {
		return empty
	}

	var buf bytes.Buffer
	for _, t := range selected {
		line := "• " + t.Name
		if t.Due != nil {
			line += " (due " + t.Due.Format(dates.Layout) + ")"
		}
		if r.MaxLen > 0 && buf.Len()+len(line)+1 > r.MaxLen {
			break
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// ParseCommand extracts the command and its arguments from a message text.
// Commands may start with "/" or "!" and are returned in their "/" form.
// A "@botname" suffix on the command is ignored. Unknown commands and plain
// text yield an empty command.
func ParseCommand(text string) (command string, args []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	if strings.HasPrefix(cmd, "!") {
		cmd = "/" + cmd[1:]
	}
	switch cmd {
	case "/tasks", "/overdue", "/status":
		return cmd, fields[1:]
	}
	return "", nil
}
