package domain

// Weekday is a day of the week ordered Monday first, matching the rendered notation.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const daysInWeek = 7

var weekdayCodes = [daysInWeek]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// String returns the two-letter code used in opening-hours strings.
func (d Weekday) String() string {
	if !d.Valid() {
		return ""
	}
	return weekdayCodes[d]
}

// Valid reports whether d is one of the seven weekdays.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// AllWeekdays returns Monday through Sunday.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// DayRun expands first..last inclusively, wrapping past Sunday when last precedes first.
func DayRun(first, last Weekday) []Weekday {
	if !first.Valid() || !last.Valid() {
		return nil
	}
	days := make([]Weekday, 0, daysInWeek)
	for d := first; ; d = (d + 1) % daysInWeek {
		days = append(days, d)
		if d == last {
			break
		}
	}
	return days
}
