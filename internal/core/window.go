package core

import "time"

// WeekStart returns the Monday on or before d. Sunday is the seventh day of
// its week, so it maps back six days.
func WeekStart(d Date) Date {
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDays(-(wd - 1))
}

// IsSameWeek reports whether d falls in the Monday-to-Sunday week containing
// the calendar date of now.
func IsSameWeek(d Date, now time.Time) bool {
	if d.IsZero() {
		return false
	}
	return WeekStart(d).Equal(WeekStart(DateOf(now)))
}

// IsSameMonth reports whether d falls in the calendar month of now.
func IsSameMonth(d Date, now time.Time) bool {
	if d.IsZero() {
		return false
	}
	ref := DateOf(now)
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}
