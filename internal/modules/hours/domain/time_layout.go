package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay counts minutes since local midnight. EndOfDay is midnight at the end of the day.
type TimeOfDay int

const (
	StartOfDay TimeOfDay = 0
	EndOfDay   TimeOfDay = 24 * 60
)

// NewTimeOfDay builds a TimeOfDay from hour and minute, accepting 24:00 as EndOfDay.
func NewTimeOfDay(hour, minute int) (TimeOfDay, bool) {
	if hour == 24 && minute == 0 {
		return EndOfDay, true
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return TimeOfDay(hour*60 + minute), true
}

// String renders HH:MM; EndOfDay renders as 24:00.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

const (
	// LayoutColon matches "08:30".
	LayoutColon = "%H:%M"
	// LayoutDot matches "08.30".
	LayoutDot = "%H.%M"
)

// TimeLayout is a compiled strptime-style pattern. Supported directives are
// %H, %I, %M, %p and %%; everything else must be punctuation or spaces.
type TimeLayout struct {
	pattern string
	layout  string
}

// CompileTimeLayout translates a strptime pattern into a Go reference layout.
func CompileTimeLayout(pattern string) (TimeLayout, error) {
	if strings.TrimSpace(pattern) == "" {
		return TimeLayout{}, fmt.Errorf("%w: empty time layout", ErrInvalidLocale)
	}
	var b strings.Builder
	hasHour := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			if !isLayoutLiteral(c) {
				return TimeLayout{}, fmt.Errorf("%w: unsupported literal %q in %q", ErrInvalidLocale, c, pattern)
			}
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(pattern) {
			return TimeLayout{}, fmt.Errorf("%w: dangling %% in %q", ErrInvalidLocale, pattern)
		}
		switch pattern[i] {
		case 'H':
			b.WriteString("15")
			hasHour = true
		case 'I':
			b.WriteString("3")
			hasHour = true
		case 'M':
			b.WriteString("04")
		case 'p':
			b.WriteString("PM")
		case '%':
			b.WriteByte('%')
		default:
			return TimeLayout{}, fmt.Errorf("%w: unsupported directive %%%c in %q", ErrInvalidLocale, pattern[i], pattern)
		}
	}
	if !hasHour {
		return TimeLayout{}, fmt.Errorf("%w: layout %q has no hour directive", ErrInvalidLocale, pattern)
	}
	return TimeLayout{pattern: pattern, layout: b.String()}, nil
}

// MustCompileTimeLayout is CompileTimeLayout for static configuration.
func MustCompileTimeLayout(pattern string) TimeLayout {
	layout, err := CompileTimeLayout(pattern)
	if err != nil {
		panic(err)
	}
	return layout
}

// Parse reads a single time literal. Hour 24 is only accepted as 24:00.
func (l TimeLayout) Parse(literal string) (TimeOfDay, error) {
	if l.layout == "" {
		return 0, fmt.Errorf("%w: layout not compiled", ErrInvalidLocale)
	}
	s := strings.TrimSpace(literal)
	parsed, err := time.Parse(l.layout, s)
	if err == nil {
		if tod, ok := NewTimeOfDay(parsed.Hour(), parsed.Minute()); ok {
			return tod, nil
		}
	}
	if strings.HasPrefix(s, "24") {
		if midnight, midErr := time.Parse(l.layout, "00"+s[2:]); midErr == nil && midnight.Hour() == 0 && midnight.Minute() == 0 {
			return EndOfDay, nil
		}
	}
	return 0, fmt.Errorf("%w: %q does not match %q", ErrMalformedTimeLiteral, literal, l.pattern)
}

func isLayoutLiteral(c byte) bool {
	switch c {
	case ':', '.', ' ', 'h', '\'':
		return true
	}
	return false
}
