package timeutil

import "time"

// CDMX is the store's local time zone (central Mexico).
var CDMX *time.Location

func init() {
	var err error
	CDMX, err = time.LoadLocation("America/Mexico_City")
	if err != nil {
		// Fallback: fixed UTC-6 if the tz database is unavailable
		CDMX = time.FixedZone("CST", -6*60*60)
	}
}

// Now returns the current time in store-local time.
func Now() time.Time {
	return time.Now().In(CDMX)
}

// ToLocal converts any time to store-local time.
func ToLocal(t time.Time) time.Time {
	return t.In(CDMX)
}

// StartOfDay returns 00:00:00 store-local for the given time.
func StartOfDay(t time.Time) time.Time {
	lt := t.In(CDMX)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, CDMX)
}

// EndOfDay returns the last nanosecond of the store-local day.
func EndOfDay(t time.Time) time.Time {
	lt := t.In(CDMX)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, 999999999, CDMX)
}

// Common layouts for store-local formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
