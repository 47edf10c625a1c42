package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestTimeLayoutParse(t *testing.T) {
	dot := MustCompileTimeLayout(LayoutDot)
	twelve := MustCompileTimeLayout("%I:%M %p")

	tests := []struct {
		name     string
		layout   TimeLayout
		literal  string
		expected TimeOfDay
		wantErr  bool
	}{
		{name: "colon", layout: colon, literal: "08:30", expected: 8*60 + 30},
		{name: "single digit hour", layout: colon, literal: " 7:05 ", expected: 7*60 + 5},
		{name: "dot", layout: dot, literal: "19.45", expected: 19*60 + 45},
		{name: "end of day", layout: colon, literal: "24:00", expected: EndOfDay},
		{name: "end of day dot", layout: dot, literal: "24.00", expected: EndOfDay},
		{name: "twelve hour", layout: twelve, literal: "7:30 PM", expected: 19*60 + 30},
		{name: "wrong delimiter", layout: colon, literal: "08.30", wantErr: true},
		{name: "non numeric", layout: colon, literal: "ab:cd", wantErr: true},
		{name: "missing minutes", layout: colon, literal: "08", wantErr: true},
		{name: "past midnight", layout: colon, literal: "24:30", wantErr: true},
		{name: "minutes out of range", layout: colon, literal: "10:75", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.layout.Parse(test.literal)
			if test.wantErr {
				if !errors.Is(err, ErrMalformedTimeLiteral) {
					t.Fatalf("expected ErrMalformedTimeLiteral, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.expected {
				t.Fatalf("expected %s, got %s", test.expected, got)
			}
		})
	}
}

func TestCompileTimeLayoutRejectsUnknownDirectives(t *testing.T) {
	for _, pattern := range []string{"", "%H:%S", "%M", "%H:%M%", "%Hx%M"} {
		if _, err := CompileTimeLayout(pattern); !errors.Is(err, ErrInvalidLocale) {
			t.Fatalf("CompileTimeLayout(%q) expected ErrInvalidLocale, got %v", pattern, err)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	got, err := ParseTimeRange("24 ur", colon)
	if err != nil || got != FullDay {
		t.Fatalf("expected full day, got %v (%v)", got, err)
	}
	got, err = ParseTimeRange(" 7:00 - 15:30 ", colon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "07:00-15:30" {
		t.Fatalf("unexpected interval %s", got)
	}
	if _, err := ParseTimeRange("07:00", colon); !errors.Is(err, ErrMalformedTimeLiteral) {
		t.Fatalf("expected missing half to fail, got %v", err)
	}
}

func TestSplitRanges(t *testing.T) {
	tests := []struct {
		value    string
		expected []string
	}{
		{value: "7:00-12:00, 13:00-19:00", expected: []string{"7:00-12:00", "13:00-19:00"}},
		{value: "7:00-12:00 in 13:00-19:00", expected: []string{"7:00-12:00", "13:00-19:00"}},
		{value: "24 ur", expected: []string{"24 ur"}},
		{value: "", expected: nil},
	}
	for _, test := range tests {
		got := SplitRanges(test.value, []string{","}, []string{"in"})
		if !reflect.DeepEqual(got, test.expected) {
			t.Fatalf("SplitRanges(%q) expected %v, got %v", test.value, test.expected, got)
		}
	}
}

func TestNewTimeOfDay(t *testing.T) {
	if got, ok := NewTimeOfDay(8, 30); !ok || got != 510 {
		t.Fatalf("expected 510, got %d (%v)", got, ok)
	}
	if got, ok := NewTimeOfDay(24, 0); !ok || got != EndOfDay {
		t.Fatalf("expected EndOfDay, got %d (%v)", got, ok)
	}
	for _, hm := range [][2]int{{24, 1}, {-1, 0}, {12, 60}} {
		if _, ok := NewTimeOfDay(hm[0], hm[1]); ok {
			t.Fatalf("expected %02d:%02d to be rejected", hm[0], hm[1])
		}
	}
}
