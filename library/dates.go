package library

import "time"

// CalculateDueDate returns the current moment advanced by days calendar days.
func CalculateDueDate(days int) time.Time {
	return DueDateFrom(time.Now(), days)
}

// DueDateFrom advances start by days calendar days. Month and year rollover
// follow time.Time.AddDate.
func DueDateFrom(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days)
}
