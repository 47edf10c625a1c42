package domain

import (
	"fmt"
	"strings"
)

// Entry is one raw schedule row as published by a source: a day phrase and the hours
// for those days, e.g. {"tor., sre.", "7:00-12:00 in 13:00-19:00"}.
type Entry struct {
	Days  string
	Hours string
}

// LocaleConfig describes how one source writes days and times.
type LocaleConfig struct {
	// DayTokens maps locale day names or abbreviations to weekdays.
	DayTokens map[string]Weekday
	// Ranges lists combined phrases such as "pon. do pet.".
	Ranges []DayRange
	// TimeFormat is a strptime pattern, LayoutColon when empty.
	TimeFormat string
	// RangeDelimiter separates open from close, "-" when empty.
	RangeDelimiter string
	// Separators split several ranges of one day, "," when empty.
	Separators []string
	// Conjunctions are whole words that also split ranges ("in", "and").
	Conjunctions []string
	// ClosedMarkers are hour values meaning the day is closed.
	ClosedMarkers []string
}

// Locale is a compiled LocaleConfig.
type Locale struct {
	days         *DayTable
	layout       TimeLayout
	delimiter    string
	separators   []string
	conjunctions []string
	closed       map[string]struct{}
}

// NewLocale validates cfg. Errors here are configuration mistakes, not data problems.
func NewLocale(cfg LocaleConfig) (*Locale, error) {
	days, err := NewDayTable(cfg.DayTokens, cfg.Ranges...)
	if err != nil {
		return nil, err
	}
	format := cfg.TimeFormat
	if format == "" {
		format = LayoutColon
	}
	layout, err := CompileTimeLayout(format)
	if err != nil {
		return nil, err
	}
	delimiter := cfg.RangeDelimiter
	if delimiter == "" {
		delimiter = "-"
	}
	for _, sep := range cfg.Separators {
		if sep == delimiter {
			return nil, fmt.Errorf("%w: separator %q equals range delimiter", ErrInvalidLocale, sep)
		}
	}
	closed := make(map[string]struct{}, len(cfg.ClosedMarkers))
	for _, marker := range cfg.ClosedMarkers {
		if key := foldDayText(marker); key != "" {
			closed[key] = struct{}{}
		}
	}
	return &Locale{
		days:         days,
		layout:       layout,
		delimiter:    delimiter,
		separators:   append([]string(nil), cfg.Separators...),
		conjunctions: append([]string(nil), cfg.Conjunctions...),
		closed:       closed,
	}, nil
}

// MustLocale is NewLocale for static adapter configuration.
func MustLocale(cfg LocaleConfig) *Locale {
	l, err := NewLocale(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

// Days resolves a day phrase with the locale's day table.
func (l *Locale) Days(phrase string) []Weekday {
	return l.days.Resolve(phrase)
}

// Layout returns the compiled time layout.
func (l *Locale) Layout() TimeLayout {
	return l.layout
}

// IsClosed reports whether hours is one of the locale's closed markers or blank.
func (l *Locale) IsClosed(hours string) bool {
	key := foldDayText(hours)
	if key == "" {
		return true
	}
	_, ok := l.closed[key]
	return ok
}

// Collect builds a time table from raw entries. Entries that cannot be used are skipped
// and reported through the table's Diagnostics; no entry can stop the others.
func (l *Locale) Collect(entries []Entry) *TimeTable {
	table := NewTimeTable()
	for _, entry := range entries {
		l.Add(table, entry)
	}
	return table
}

// Add feeds one entry into table. Closed entries are ignored.
func (l *Locale) Add(table *TimeTable, entry Entry) {
	if l.IsClosed(entry.Hours) {
		return
	}
	days := l.Days(entry.Days)
	if len(days) == 0 {
		table.Note(Diagnostic{Days: entry.Days, Hours: entry.Hours, Err: ErrUnrecognizedDayToken})
		return
	}
	for _, segment := range SplitRanges(entry.Hours, l.separators, l.conjunctions) {
		// failures land in table.Diagnostics
		_ = table.addDelimitedRange(days, entry.Days, segment, l.delimiter, l.layout)
	}
}

// Summary joins diagnostics for logging.
func Summary(diagnostics []Diagnostic) string {
	parts := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}
