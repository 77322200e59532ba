package filter

import (
	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/tasks"
)

// Pipeline applies filters in the order they were added, each one
// receiving the output of the previous. An empty pipeline returns its
// input unchanged.
type Pipeline struct {
	filters []Filter
}

// NewPipeline creates a pipeline with the given filters.
func NewPipeline(filters ...Filter) *Pipeline {
	p := &Pipeline{}
	for _, f := range filters {
		p.Add(f)
	}
	return p
}

// Add appends f and returns the pipeline for chaining.
func (p *Pipeline) Add(f Filter) *Pipeline {
	p.filters = append(p.filters, f)
	return p
}

// Len returns the number of filters.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// Apply runs ts through every filter.
func (p *Pipeline) Apply(ts []*tasks.Task) []*tasks.Task {
	for _, f := range p.filters {
		ts = f.Apply(ts)
	}
	return ts
}

// Options are the user-facing filter settings shared by the CLI, the
// HTTP API and the bot. From and To are raw date arguments; nil or
// unresolvable values leave that bound open.
type Options struct {
	ShowOverdue bool
	From        *string
	To          *string
	Status      Status
}

// Build assembles the standard pipeline: overdue, date range, status.
func Build(opts Options, resolver *dates.Resolver) *Pipeline {
	if resolver == nil {
		resolver = dates.NewResolver(nil)
	}
	return NewPipeline(
		OverdueFilter{ShowOverdue: opts.ShowOverdue},
		DateRangeFilter{From: resolver.ResolveArg(opts.From), To: resolver.ResolveArg(opts.To)},
		StatusFilter{Status: opts.Status},
	)
}
