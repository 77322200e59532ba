package tasks

import (
	"regexp"
	"strings"
	"time"

	"github.com/mklimuk/marktask/pkg/dates"
)

var (
	dueRe       = regexp.MustCompile(`📅 (\d{4}-\d{2}-\d{2})`)
	scheduledRe = regexp.MustCompile(`⏳ (\d{4}-\d{2}-\d{2})`)
	startRe     = regexp.MustCompile(`🛫 (\d{4}-\d{2}-\d{2})`)

	dateMarkers = []*regexp.Regexp{dueRe, scheduledRe, startRe}
)

// Signifiers in precedence order. The first one present wins.
var signifiers = []struct {
	symbol   string
	priority Priority
}{
	{"🔺", Highest},
	{"⏫", High},
	{"🔼", Medium},
	{"🔽", Low},
	{"⏬", Lowest},
}

// Annotations are the values found in the free text after a checkbox.
type Annotations struct {
	Due       *time.Time
	Scheduled *time.Time
	Start     *time.Time
	Priority  Priority
	Name      string
}

// Extract reads date annotations and the priority signifier from text and
// returns them with the cleaned description.
func Extract(text string) Annotations {
	a := Annotations{
		Due:       markerDate(dueRe, text),
		Scheduled: markerDate(scheduledRe, text),
		Start:     markerDate(startRe, text),
	}

	// Date markers go first, even ones whose date did not validate.
	for _, re := range dateMarkers {
		text = re.ReplaceAllString(text, "")
	}
	text, a.Priority = ParsePriority(text)
	a.Name = strings.Join(strings.Fields(text), " ")
	return a
}

// ParsePriority finds the highest-precedence signifier in text and returns
// text with that symbol removed. Other signifiers are left in place.
func ParsePriority(text string) (string, Priority) {
	for _, s := range signifiers {
		if strings.Contains(text, s.symbol) {
			return strings.ReplaceAll(text, s.symbol, ""), s.priority
		}
	}
	return text, None
}

func markerDate(re *regexp.Regexp, text string) *time.Time {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	d, ok := dates.ParseAbsolute(m[1])
	if !ok {
		return nil
	}
	return &d
}
