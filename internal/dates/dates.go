// Package dates resolves human date and month expressions ("last month",
// "march 3rd") into half-open time intervals for order filtering.
package dates

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"nop-gateway/internal/model"
)

// Interval is a half-open time range [From, To).
type Interval struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.From) && t.Before(iv.To)
}

// Resolver turns a natural-language expression into an interval relative to
// a reference time.
type Resolver interface {
	Resolve(text string, ref time.Time) (Interval, error)
}

// NaturalResolver resolves date expressions. Month wording without an
// explicit day widens to the whole calendar month; everything else resolves
// through a natural-language parser to the single day it lands on.
type NaturalResolver struct {
	parser *when.Parser
}

func NewNaturalResolver() *NaturalResolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &NaturalResolver{parser: w}
}

// Resolve parses text relative to ref. Unparseable input is a validation
// failure, not an upstream one: the caller typed something the gateway
// cannot interpret.
func (r *NaturalResolver) Resolve(text string, ref time.Time) (Interval, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Interval{}, model.NewValidationError("when", "empty date expression")
	}

	if iv, ok := resolveMonthPhrase(text, ref); ok {
		return iv, nil
	}

	result, err := r.parser.Parse(text, ref)
	if err != nil || result == nil {
		return Interval{}, model.NewValidationError("when", "unrecognized date expression")
	}
	return dayInterval(result.Time), nil
}

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// resolveMonthPhrase handles month-granularity wording directly: relative
// phrases around the word "month" and bare month names without a day. An
// expression carrying digits ("march 3rd") stays at day granularity and is
// left to the parser.
func resolveMonthPhrase(text string, ref time.Time) (Interval, bool) {
	if strings.ContainsAny(text, "0123456789") {
		return Interval{}, false
	}
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r < 'a' || r > 'z'
	})

	for i, tok := range tokens {
		if tok == "month" {
			offset := 0
			if i > 0 {
				switch tokens[i-1] {
				case "last", "past", "previous":
					offset = -1
				case "next", "coming":
					offset = 1
				}
			}
			return monthInterval(ref.AddDate(0, offset, 0)), true
		}
	}

	for _, tok := range tokens {
		if m, ok := monthsByName[tok]; ok {
			// A bare month name means the most recent occurrence: order
			// lookups ask about the past.
			year := ref.Year()
			if m > ref.Month() {
				year--
			}
			return monthInterval(time.Date(year, m, 1, 0, 0, 0, 0, ref.Location())), true
		}
	}
	return Interval{}, false
}

func monthInterval(t time.Time) Interval {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Interval{From: from, To: from.AddDate(0, 1, 0)}
}

func dayInterval(t time.Time) Interval {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Interval{From: from, To: from.AddDate(0, 0, 1)}
}
