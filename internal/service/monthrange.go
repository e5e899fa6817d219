package service

import (
	"regexp"
	"strconv"
	"time"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// resolveMonthRange returns the inclusive first and last day of the
// requested "YYYY-MM" month as ISO dates. Anything that does not match the
// pattern falls back to the month of the reference time; a matching month
// outside 01-12 is clamped.
func resolveMonthRange(month string, reference time.Time) (string, string) {
	year, currentMonth, _ := reference.Date()
	monthIndex := int(currentMonth)

	if monthPattern.MatchString(month) {
		parsedYear, _ := strconv.Atoi(month[:4])
		parsedMonth, _ := strconv.Atoi(month[5:])
		if parsedMonth < 1 {
			parsedMonth = 1
		}
		if parsedMonth > 12 {
			parsedMonth = 12
		}
		year = parsedYear
		monthIndex = parsedMonth
	}

	first := time.Date(year, time.Month(monthIndex), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(monthIndex)+1, 0, 0, 0, 0, 0, time.UTC)

	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
