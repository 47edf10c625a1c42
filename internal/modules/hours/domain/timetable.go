package domain

import "strings"

// TimeTable accumulates opening intervals per weekday for a single location and renders
// them into the "Mo-Fr 08:00-20:00; Sa 08:00-13:00" notation.
//
// A table is owned by one caller. It accepts additions until the first Render; from then
// on additions return ErrTimeTableRendered and Render keeps returning the same string.
type TimeTable struct {
	days        [daysInWeek][]Interval
	diagnostics []Diagnostic
	rendered    bool
}

// NewTimeTable returns an empty table in the building state.
func NewTimeTable() *TimeTable {
	return &TimeTable{}
}

// AddDaysRange parses open and close once with layout and appends the interval to each
// day. An empty day set is a no-op. On a parse failure nothing is appended and the
// returned *ParseError is also kept in Diagnostics.
func (t *TimeTable) AddDaysRange(days []Weekday, open, close string, layout TimeLayout) error {
	if t.rendered {
		return ErrTimeTableRendered
	}
	if len(days) == 0 {
		return nil
	}
	interval, err := ParseInterval(open, close, layout)
	if err != nil {
		perr := &ParseError{Days: append([]Weekday(nil), days...), Open: open, Close: close, Err: err}
		t.diagnostics = append(t.diagnostics, Diagnostic{Days: formatDays(days), Hours: open + "-" + close, Err: perr})
		return perr
	}
	return t.AddInterval(days, interval)
}

// AddRange is AddDaysRange for a single day.
func (t *TimeTable) AddRange(day Weekday, open, close string, layout TimeLayout) error {
	return t.AddDaysRange([]Weekday{day}, open, close, layout)
}

// AddTimeRange accepts a single "open-close" literal, including the full-day shorthand.
func (t *TimeTable) AddTimeRange(days []Weekday, literal string, layout TimeLayout) error {
	return t.addDelimitedRange(days, "", literal, "-", layout)
}

// addDelimitedRange reports failures under label, the raw day phrase when the caller has one.
func (t *TimeTable) addDelimitedRange(days []Weekday, label, literal, delimiter string, layout TimeLayout) error {
	if t.rendered {
		return ErrTimeTableRendered
	}
	if len(days) == 0 {
		return nil
	}
	interval, err := parseDelimitedRange(literal, delimiter, layout)
	if err != nil {
		perr := &ParseError{Days: append([]Weekday(nil), days...), Open: literal, Err: err}
		if label == "" {
			label = formatDays(days)
		}
		t.diagnostics = append(t.diagnostics, Diagnostic{Days: label, Hours: literal, Err: perr})
		return perr
	}
	return t.AddInterval(days, interval)
}

// AddInterval appends interval once to each distinct day. The interval is checked like
// NewInterval; a rejected one is kept in Diagnostics and returned. Overlap is not checked.
func (t *TimeTable) AddInterval(days []Weekday, interval Interval) error {
	if t.rendered {
		return ErrTimeTableRendered
	}
	days = sortedDays(days)
	if len(days) == 0 {
		return nil
	}
	checked, err := NewInterval(interval.Open, interval.Close)
	if err != nil {
		t.diagnostics = append(t.diagnostics, Diagnostic{Days: formatDays(days), Hours: interval.String(), Err: err})
		return err
	}
	for _, d := range days {
		t.days[d] = append(t.days[d], checked)
	}
	return nil
}

// Note records a diagnostic produced outside the table, e.g. an unresolved day phrase.
func (t *TimeTable) Note(d Diagnostic) {
	t.diagnostics = append(t.diagnostics, d)
}

// Intervals returns a copy of the intervals recorded for day in insertion order.
func (t *TimeTable) Intervals(day Weekday) []Interval {
	if !day.Valid() || len(t.days[day]) == 0 {
		return nil
	}
	return append([]Interval(nil), t.days[day]...)
}

// Days returns the weekdays that have at least one interval.
func (t *TimeTable) Days() []Weekday {
	var open []Weekday
	for _, d := range AllWeekdays() {
		if len(t.days[d]) > 0 {
			open = append(open, d)
		}
	}
	return open
}

// IsEmpty reports whether no day has an interval.
func (t *TimeTable) IsEmpty() bool {
	return len(t.Days()) == 0
}

// Diagnostics returns the entries skipped so far.
func (t *TimeTable) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), t.diagnostics...)
}

// Rendered reports whether Render has been called.
func (t *TimeTable) Rendered() bool {
	return t.rendered
}

// Render groups consecutive days with identical intervals. Closed days are left out and an
// empty table renders as "", meaning the schedule is unknown.
func (t *TimeTable) Render() string {
	t.rendered = true

	var entries []string
	for start := 0; start < daysInWeek; {
		if len(t.days[start]) == 0 {
			start++
			continue
		}
		end := start
		for end+1 < daysInWeek && sameIntervals(t.days[start], t.days[end+1]) {
			end++
		}

		label := Weekday(start).String()
		if end > start {
			label += "-" + Weekday(end).String()
		}
		entries = append(entries, label+" "+formatIntervals(t.days[start]))
		start = end + 1
	}
	return strings.Join(entries, "; ")
}

func sameIntervals(a, b []Interval) bool {
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

func formatIntervals(intervals []Interval) string {
	parts := make([]string, len(intervals))
	for i, interval := range intervals {
		parts[i] = interval.String()
	}
	return strings.Join(parts, ",")
}
