package domain

import (
	"errors"
	"testing"
)

func newsagentLocale(t *testing.T) *Locale {
	t.Helper()
	locale, err := NewLocale(LocaleConfig{
		DayTokens:     slovenianTokens,
		Ranges:        []DayRange{{Phrase: "pon. do pet.", First: Monday, Last: Friday}},
		TimeFormat:    LayoutColon,
		Separators:    []string{","},
		Conjunctions:  []string{"in"},
		ClosedMarkers: []string{"zaprto"},
	})
	if err != nil {
		t.Fatalf("locale setup failed: %v", err)
	}
	return locale
}

func TestLocaleCollect(t *testing.T) {
	locale := newsagentLocale(t)

	table := locale.Collect([]Entry{
		{Days: "pon. do pet.", Hours: "6:00-12:00 in 13:00-19:00"},
		{Days: "Sobota", Hours: "7:00-13:00"},
		{Days: "Nedelja", Hours: "zaprto"},
	})

	expected := "Mo-Fr 06:00-12:00,13:00-19:00; Sa 07:00-13:00"
	if got := table.Render(); got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
	if len(table.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %s", Summary(table.Diagnostics()))
	}
}

func TestLocaleCollectFailSoft(t *testing.T) {
	locale := newsagentLocale(t)

	table := locale.Collect([]Entry{
		{Days: "pon.", Hours: "7:00/15:00"},
		{Days: "prazniki", Hours: "8:00-12:00"},
		{Days: "tor., sre.", Hours: "7:00-15:00"},
		{Days: "sob.", Hours: "24 ur"},
		{Days: "ned.", Hours: "24 ur"},
	})

	expected := "Tu-We 07:00-15:00; Sa-Su 00:00-24:00"
	if got := table.Render(); got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}

	diagnostics := table.Diagnostics()
	if len(diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %s", len(diagnostics), Summary(diagnostics))
	}
	if !errors.Is(diagnostics[0].Err, ErrMalformedTimeLiteral) {
		t.Fatalf("expected malformed literal first, got %v", diagnostics[0].Err)
	}
	if diagnostics[0].Days != "pon." || diagnostics[0].Hours != "7:00/15:00" {
		t.Fatalf("malformed entry should keep raw days and hours, got %s", diagnostics[0])
	}
	if !errors.Is(diagnostics[1].Err, ErrUnrecognizedDayToken) {
		t.Fatalf("expected unrecognized day second, got %v", diagnostics[1].Err)
	}
	if diagnostics[1].Days != "prazniki" {
		t.Fatalf("diagnostic should keep raw day phrase, got %q", diagnostics[1].Days)
	}
}

func TestLocaleCustomDelimiter(t *testing.T) {
	locale, err := NewLocale(LocaleConfig{
		DayTokens:      map[string]Weekday{"mo": Monday, "tu": Tuesday},
		TimeFormat:     LayoutDot,
		RangeDelimiter: " to ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table := locale.Collect([]Entry{{Days: "Mo", Hours: "8.00 to 16.30"}, {Days: "Tu", Hours: "8.00 to 16.30"}})
	if got := table.Render(); got != "Mo-Tu 08:00-16:30" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestNewLocaleRejectsBadConfig(t *testing.T) {
	_, err := NewLocale(LocaleConfig{DayTokens: slovenianTokens, TimeFormat: "%Q"})
	if !errors.Is(err, ErrInvalidLocale) {
		t.Fatalf("expected ErrInvalidLocale, got %v", err)
	}
	_, err = NewLocale(LocaleConfig{DayTokens: slovenianTokens, Separators: []string{"-"}})
	if !errors.Is(err, ErrInvalidLocale) {
		t.Fatalf("expected ErrInvalidLocale for separator clash, got %v", err)
	}
}
