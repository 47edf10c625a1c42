package domain

import (
	"fmt"
	"strings"
)

// FullDayPrefix introduces the round-the-clock shorthand ("24h", "24 ur").
const FullDayPrefix = "24"

// Interval is one open period within a day.
type Interval struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// FullDay spans 00:00-24:00.
var FullDay = Interval{Open: StartOfDay, Close: EndOfDay}

// NewInterval validates open and close. A close of 00:00 after a later open means
// closing at midnight and is stored as 24:00; any other close before open is rejected.
func NewInterval(open, close TimeOfDay) (Interval, error) {
	if open < StartOfDay || open >= EndOfDay || close < StartOfDay || close > EndOfDay {
		return Interval{}, fmt.Errorf("%w: %s-%s out of range", ErrMalformedTimeLiteral, open, close)
	}
	if close == StartOfDay && open > StartOfDay {
		close = EndOfDay
	}
	if close <= open {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrOvernightInterval, open, close)
	}
	return Interval{Open: open, Close: close}, nil
}

// String renders HH:MM-HH:MM.
func (i Interval) String() string {
	return i.Open.String() + "-" + i.Close.String()
}

// ParseInterval parses open and close literals with the same layout.
func ParseInterval(open, close string, layout TimeLayout) (Interval, error) {
	openAt, err := layout.Parse(open)
	if err != nil {
		return Interval{}, err
	}
	closeAt, err := layout.Parse(close)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(openAt, closeAt)
}

// SplitTimeRange splits "08:00 - 20:00" into its trimmed halves.
func SplitTimeRange(literal, delimiter string) (string, string, error) {
	if delimiter == "" {
		delimiter = "-"
	}
	parts := strings.Split(strings.TrimSpace(literal), delimiter)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: range %q needs exactly one %q", ErrMalformedTimeLiteral, literal, delimiter)
	}
	open, close := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if open == "" || close == "" {
		return "", "", fmt.Errorf("%w: range %q has an empty half", ErrMalformedTimeLiteral, literal)
	}
	return open, close, nil
}

// ParseTimeRange reads "HH:MM-HH:MM" into an Interval. A literal starting with the
// full-day prefix is FullDay regardless of what follows.
func ParseTimeRange(literal string, layout TimeLayout) (Interval, error) {
	return parseDelimitedRange(literal, "-", layout)
}

func parseDelimitedRange(literal, delimiter string, layout TimeLayout) (Interval, error) {
	s := strings.TrimSpace(literal)
	if strings.HasPrefix(s, FullDayPrefix) {
		return FullDay, nil
	}
	open, close, err := SplitTimeRange(s, delimiter)
	if err != nil {
		return Interval{}, err
	}
	return ParseInterval(open, close, layout)
}

// SplitRanges breaks a multi-segment day such as "7:00-12:00 in 13:00-19:00" into
// ranges. Conjunctions only split when they stand as whole words.
func SplitRanges(value string, separators, conjunctions []string) []string {
	if len(separators) == 0 {
		separators = []string{","}
	}
	fields := []string{value}
	for _, sep := range separators {
		if sep == "" {
			continue
		}
		var next []string
		for _, f := range fields {
			next = append(next, strings.Split(f, sep)...)
		}
		fields = next
	}

	var ranges []string
	for _, f := range fields {
		for _, segment := range splitOnWords(f, conjunctions) {
			if trimmed := strings.TrimSpace(segment); trimmed != "" {
				ranges = append(ranges, trimmed)
			}
		}
	}
	return ranges
}

func splitOnWords(value string, words []string) []string {
	if len(words) == 0 {
		return []string{value}
	}
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stop[w] = struct{}{}
		}
	}
	var (
		segments []string
		current  []string
	)
	for _, token := range strings.Fields(value) {
		if _, ok := stop[strings.ToLower(token)]; ok {
			segments = append(segments, strings.Join(current, " "))
			current = nil
			continue
		}
		current = append(current, token)
	}
	return append(segments, strings.Join(current, " "))
}
