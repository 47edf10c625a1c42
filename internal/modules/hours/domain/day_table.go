package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DayRange is a combined phrase such as "pon. do pet." standing for first..last.
type DayRange struct {
	Phrase string
	First  Weekday
	Last   Weekday
}

// DayTable translates locale day vocabulary into weekdays.
type DayTable struct {
	tokens []dayToken
	ranges map[string][]Weekday
}

type dayToken struct {
	key string
	day Weekday
}

// NewDayTable folds and indexes the vocabulary. Tokens are matched longest first so
// that a short token cannot claim part of a longer one.
func NewDayTable(tokens map[string]Weekday, ranges ...DayRange) (*DayTable, error) {
	if len(tokens) == 0 && len(ranges) == 0 {
		return nil, fmt.Errorf("%w: empty day table", ErrInvalidLocale)
	}

	seen := make(map[string]Weekday, len(tokens))
	table := &DayTable{
		tokens: make([]dayToken, 0, len(tokens)),
		ranges: make(map[string][]Weekday, len(ranges)),
	}
	for raw, day := range tokens {
		key := foldDayText(raw)
		if key == "" {
			return nil, fmt.Errorf("%w: empty day token", ErrInvalidLocale)
		}
		if !day.Valid() {
			return nil, fmt.Errorf("%w: token %q maps to invalid weekday %d", ErrInvalidLocale, raw, day)
		}
		if prev, ok := seen[key]; ok && prev != day {
			return nil, fmt.Errorf("%w: token %q maps to both %s and %s", ErrInvalidLocale, raw, prev, day)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = day
		table.tokens = append(table.tokens, dayToken{key: key, day: day})
	}
	sort.Slice(table.tokens, func(i, j int) bool {
		a, b := table.tokens[i], table.tokens[j]
		if len(a.key) != len(b.key) {
			return len(a.key) > len(b.key)
		}
		return a.key < b.key
	})

	for _, r := range ranges {
		key := foldDayText(r.Phrase)
		if key == "" {
			return nil, fmt.Errorf("%w: empty range phrase", ErrInvalidLocale)
		}
		if _, ok := table.ranges[key]; ok {
			return nil, fmt.Errorf("%w: duplicate range phrase %q", ErrInvalidLocale, r.Phrase)
		}
		days := DayRun(r.First, r.Last)
		if len(days) == 0 {
			return nil, fmt.Errorf("%w: range phrase %q has invalid bounds", ErrInvalidLocale, r.Phrase)
		}
		table.ranges[key] = days
	}
	return table, nil
}

// Resolve returns the weekdays named in phrase, ordered Monday first. Unknown
// vocabulary yields an empty result.
func (t *DayTable) Resolve(phrase string) []Weekday {
	if t == nil {
		return nil
	}
	text := foldDayText(phrase)
	if text == "" {
		return nil
	}
	if days, ok := t.ranges[text]; ok {
		return sortedDays(days)
	}

	consumed := make([]bool, len(text))
	var found []Weekday
	for _, token := range t.tokens {
		for offset := 0; offset+len(token.key) <= len(text); {
			idx := strings.Index(text[offset:], token.key)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(token.key)
			if !anyConsumed(consumed[start:end]) {
				for i := start; i < end; i++ {
					consumed[i] = true
				}
				found = append(found, token.day)
			}
			offset = start + 1
		}
	}
	return sortedDays(found)
}

// Casers carry state, so each call folds with its own.
func foldDayText(value string) string {
	return strings.TrimSpace(cases.Fold().String(norm.NFC.String(value)))
}

func anyConsumed(span []bool) bool {
	for _, c := range span {
		if c {
			return true
		}
	}
	return false
}

func sortedDays(days []Weekday) []Weekday {
	if len(days) == 0 {
		return nil
	}
	var present [daysInWeek]bool
	for _, d := range days {
		if d.Valid() {
			present[d] = true
		}
	}
	out := make([]Weekday, 0, len(days))
	for d, ok := range present {
		if ok {
			out = append(out, Weekday(d))
		}
	}
	return out
}
