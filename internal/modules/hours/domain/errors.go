package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedTimeLiteral marks a time string that does not match the configured layout.
	ErrMalformedTimeLiteral = errors.New("malformed time literal")
	// ErrOvernightInterval marks a range closing before it opens; callers split these across days.
	ErrOvernightInterval = errors.New("interval crosses midnight")
	// ErrUnrecognizedDayToken marks a day phrase that resolved to no weekday.
	ErrUnrecognizedDayToken = errors.New("unrecognized day token")
	// ErrTimeTableRendered is returned by mutations attempted after Render.
	ErrTimeTableRendered = errors.New("time table already rendered")
	// ErrInvalidLocale marks configuration that cannot be used to build a locale.
	ErrInvalidLocale = errors.New("invalid locale configuration")
)

// ParseError scopes a time parsing failure to a single schedule entry.
type ParseError struct {
	Days  []Weekday
	Open  string
	Close string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s open=%q close=%q: %v", formatDays(e.Days), e.Open, e.Close, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Diagnostic records an entry the collector could not use, keeping the raw source strings.
type Diagnostic struct {
	Days  string
	Hours string
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("days=%q hours=%q: %v", d.Days, d.Hours, d.Err)
}

func formatDays(days []Weekday) string {
	codes := make([]string, 0, len(days))
	for _, d := range days {
		codes = append(codes, d.String())
	}
	return "[" + strings.Join(codes, ",") + "]"
}
