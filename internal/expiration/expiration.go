// Package expiration derives expiration dates for storage entries from the
// entry date and the product shelf life in whole months.
package expiration

import "time"

// Expiration holds the derived shelf-life data for a single storage entry.
type Expiration struct {
	// Date is the calendar expiration date: date in advanced by the shelf
	// life in months, day-clamped to the last valid day of the target month.
	Date time.Time
	// DaysLeft is the signed number of whole days between today and Date.
	// Negative means the entry has already expired.
	DaysLeft int
}

// Compute derives the expiration data for an entry stored on dateIn with a
// shelf life of months. The reference date today must be the caller's
// current calendar date; it is a parameter so results stay reproducible.
func Compute(dateIn time.Time, months int, today time.Time) Expiration {
	date := AddMonths(dateIn, months)
	return Expiration{
		Date:     date,
		DaysLeft: daysBetween(today, date),
	}
}

// AddMonths advances d by the given number of calendar months, clamping the
// day to the last valid day of the target month (Jan 31 + 1 month is
// Feb 28/29). time.AddDate is unsuitable here: it normalizes overflowing
// days into the next month instead of clamping them.
func AddMonths(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	totalMonths := int(month) - 1 + months
	year += totalMonths / 12
	month = time.Month(totalMonths%12 + 1)
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date.
func Today() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween returns the signed number of whole days from a to b, comparing
// calendar dates only.
func daysBetween(a, b time.Time) int {
	a = midnightUTC(a)
	b = midnightUTC(b)
	return int(b.Sub(a).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
