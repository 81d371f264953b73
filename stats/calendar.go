package stats

import (
	"fmt"
	"time"
)

// DateFormat is the calendar day identifier layout used throughout.
const DateFormat = "2006-01-02"

// MinutesPerDay is the length of one calendar day in minutes.
const MinutesPerDay = 24 * 60

func parseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// DayBounds returns the first and last instant of the calendar day: local
// midnight and 23:59:59.999.
func DayBounds(date string, loc *time.Location) (start, end time.Time, err error) {
	start, err = parseDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end, nil
}

// WeekRange returns the Monday and Sunday dates of the week containing date.
func WeekRange(date string, loc *time.Location) (start, end string, err error) {
	t, err := parseDate(date, loc)
	if err != nil {
		return "", "", err
	}
	offset := int(time.Monday - t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}
	monday := t.AddDate(0, 0, offset)
	return monday.Format(DateFormat), monday.AddDate(0, 0, 6).Format(DateFormat), nil
}

// MonthRange returns the first and last dates of the month containing date.
func MonthRange(date string, loc *time.Location) (start, end string, err error) {
	t, err := parseDate(date, loc)
	if err != nil {
		return "", "", err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateFormat), last.Format(DateFormat), nil
}

// YearRange returns Jan 1 and Dec 31 of the year containing date.
func YearRange(date string, loc *time.Location) (start, end string, err error) {
	t, err := parseDate(date, loc)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%04d-01-01", t.Year()), fmt.Sprintf("%04d-12-31", t.Year()), nil
}

// DateRange enumerates dates from start to end inclusive, ascending. A start
// after end yields an empty slice, not an error.
func DateRange(start, end string, loc *time.Location) ([]string, error) {
	cur, err := parseDate(start, loc)
	if err != nil {
		return nil, err
	}
	last, err := parseDate(end, loc)
	if err != nil {
		return nil, err
	}
	var dates []string
	for !cur.After(last) {
		dates = append(dates, cur.Format(DateFormat))
		cur = cur.AddDate(0, 0, 1)
	}
	return dates, nil
}
