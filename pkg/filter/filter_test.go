package filter

import (
	"testing"
	"time"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/tasks"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func names(ts []*tasks.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOverdueFilter(t *testing.T) {
	ts := []tasks.Task{
		{Name: "Task due today", Due: date(2024, 6, 1)},
		{Name: "Overdue task", Due: date(2024, 5, 31), Overdue: true},
		{Name: "No due date task"},
		{Name: "Another overdue", Due: date(2024, 1, 1), Overdue: true},
	}

	hidden := NewPipeline().Add(OverdueFilter{ShowOverdue: false}).Apply(tasks.Refs(ts))
	if want := []string{"Task due today", "No due date task"}; !equalNames(names(hidden), want) {
		t.Errorf("show_overdue=false kept %v, want %v", names(hidden), want)
	}

	shown := OverdueFilter{ShowOverdue: true}.Apply(tasks.Refs(ts))
	if len(shown) != len(ts) {
		t.Errorf("show_overdue=true kept %d tasks, want %d", len(shown), len(ts))
	}
}

func TestDateRangeFilter(t *testing.T) {
	ts := []tasks.Task{
		{Name: "Task 1", Due: date(2024, 1, 1), Overdue: true},
		{Name: "Task 2", Due: date(2024, 1, 6), Overdue: true},
		{Name: "Task 3", Due: date(2024, 1, 11), Overdue: true},
		{Name: "Task without date"},
	}

	tests := []struct {
		name     string
		from, to *time.Time
		want     []string
	}{
		{"both bounds", date(2024, 1, 1), date(2024, 1, 11), []string{"Task 1", "Task 2", "Task 3"}},
		{"from only", date(2024, 1, 6), nil, []string{"Task 2", "Task 3"}},
		{"to only", nil, date(2024, 1, 6), []string{"Task 1", "Task 2"}},
		{"no bounds", nil, nil, []string{"Task 1", "Task 2", "Task 3", "Task without date"}},
		{"single day", date(2024, 1, 6), date(2024, 1, 6), []string{"Task 2"}},
		{"empty range", date(2024, 2, 1), date(2024, 1, 1), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(DateRangeFilter{From: tt.from, To: tt.to})
			got := names(p.Apply(tasks.Refs(ts)))
			if !equalNames(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRelativeDateRange(t *testing.T) {
	clock := dates.FixedClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local))
	today := dates.Today(clock)
	in := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}
	ts := []tasks.Task{
		{Name: "Task due today", Due: in(0)},
		{Name: "Task due in 5 days", Due: in(5)},
		{Name: "Task due in 10 days", Due: in(10)},
		{Name: "Task without date"},
	}
	r := dates.NewResolver(clock)
	arg := func(s string) *string { return &s }

	tests := []struct {
		name     string
		from, to *string
		want     int
	}{
		{"last day to two weeks", arg("-1d"), arg("+2w"), 3},
		{"up to one week", nil, arg("+1w"), 2},
		{"from yesterday", arg("-1d"), nil, 3},
		{"no filtering", nil, nil, 4},
		{"unparsable bound is open", arg("+1x"), nil, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DateRangeFilter{From: r.ResolveArg(tt.from), To: r.ResolveArg(tt.to)}
			if got := len(NewPipeline(f).Apply(tasks.Refs(ts))); got != tt.want {
				t.Errorf("kept %d tasks, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusFilter(t *testing.T) {
	ts := []tasks.Task{{Name: "a", Completed: true}, {Name: "b"}, {Name: "c", Completed: true}}

	tests := []struct {
		status Status
		want   []string
	}{
		{StatusAll, []string{"a", "b", "c"}},
		{StatusOpen, []string{"b"}},
		{StatusDone, []string{"a", "c"}},
		{ParseStatus("bogus"), []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := names(StatusFilter{Status: tt.status}.Apply(tasks.Refs(ts)))
			if !equalNames(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type recordingFilter struct {
	seen *[]int
	drop string
}

func (f recordingFilter) Apply(ts []*tasks.Task) []*tasks.Task {
	*f.seen = append(*f.seen, len(ts))
	return FilterFunc(func(t *tasks.Task) bool { return t.Name != f.drop }).Apply(ts)
}

func TestPipelineSequential(t *testing.T) {
	ts := []tasks.Task{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	var seen []int
	p := NewPipeline().
		Add(recordingFilter{seen: &seen, drop: "a"}).
		Add(recordingFilter{seen: &seen, drop: "c"})

	got := names(p.Apply(tasks.Refs(ts)))
	if !equalNames(got, []string{"b"}) {
		t.Errorf("got %v, want [b]", got)
	}
	if len(seen) != 2 || seen[0] != 3 || seen[1] != 2 {
		t.Errorf("filters saw %v, want [3 2]", seen)
	}
}

func TestEmptyPipelineIsIdentity(t *testing.T) {
	ts := []tasks.Task{{Name: "a", Overdue: true}, {Name: "b"}}
	p := NewPipeline()
	if p.Len() != 0 {
		t.Fatalf("Len = %d, want 0", p.Len())
	}
	if got := names(p.Apply(tasks.Refs(ts))); !equalNames(got, []string{"a", "b"}) {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestBuild(t *testing.T) {
	clock := dates.FixedClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local))
	parsed := tasks.NewParser(clock).Parse(
		"- [ ] late 📅 2024-05-01\n" +
			"- [ ] soon 📅 2024-06-03\n" +
			"- [x] soon done 📅 2024-06-04\n" +
			"- [ ] later 📅 2024-09-01\n" +
			"- [ ] undated")

	from, to := "2024-01-01", "+1w"
	p := Build(Options{From: &from, To: &to, Status: StatusOpen}, dates.NewResolver(clock))
	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}
	got := names(p.Apply(tasks.Refs(parsed)))
	if !equalNames(got, []string{"soon"}) {
		t.Errorf("got %v, want [soon]", got)
	}

	all := Build(Options{ShowOverdue: true}, dates.NewResolver(clock)).Apply(tasks.Refs(parsed))
	if len(all) != len(parsed) {
		t.Errorf("default options kept %d tasks, want %d", len(all), len(parsed))
	}
}
