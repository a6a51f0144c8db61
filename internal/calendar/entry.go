package calendar

import "time"

// Entry is one birthday of the address book, ready for listing.
type Entry struct {
	// ID is the contact identifier in the address book.
	ID string

	// UID is the stable base of the generated event UIDs.
	UID string

	Name        string
	DateOfBirth time.Time

	// YearKnown is false for dates stored without a year.
	YearKnown bool

	// NextOccurrence is the birthday in the current or next year, the sort key of listings.
	NextOccurrence time.Time

	// AgeNext is the age reached at NextOccurrence. Zero when the year is unknown.
	AgeNext int
}

// nextOccurrence returns the next birthday relative to now, today included.
func nextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	loc := now.Location()

	// time.Date normalizes Feb 29 to March 1st outside leap years.
	candidate := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	ageNext := 0
	if yearKnown {
		ageNext = candidate.Year() - birthDate.Year()
	}
	return candidate, ageNext
}
