package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// parseClockMinutes converts a 12-hour clock string ("H:MM AM|PM") into
// minutes since midnight. 12 AM maps to 0, 12 PM stays at 720, and other PM
// hours are shifted by 12 hours.
func parseClockMinutes(s string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected \"H:MM AM|PM\"", s)
	}

	meridiem := strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, fmt.Errorf("invalid time %q: unknown meridiem %q", s, fields[1])
	}

	parts := strings.Split(fields[0], ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: missing minutes", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("invalid time %q: bad hour", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: bad minute", s)
	}

	if hour == 12 {
		if meridiem == "AM" {
			hour = 0
		}
	} else if meridiem == "PM" {
		hour += 12
	}

	return hour*60 + minute, nil
}

// midnight truncates t to its calendar date in t's location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil returns ceil((date - now) / 24h) with both instants normalized to
// midnight, so the time of day never skews the advance-booking count. The
// engine uses ceil throughout; a floor variant exists in other booking
// validation code paths, and the discrepancy is documented rather than
// reconciled here.
func daysUntil(now, date time.Time) int {
	diff := midnight(date).Sub(midnight(now))
	return int(math.Ceil(diff.Hours() / 24))
}
