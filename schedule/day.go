package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linesmerrill/medication-reminder-api/validation"
)

// Day is one calendar day in the schedule's time zone
type Day struct {
	Start   time.Time // 00:00:00.000
	End     time.Time // 23:59:59.999
	Weekday int       // 0=Sunday
}

// DayOf returns the calendar day containing t as seen from loc
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Day{
		Start:   start,
		End:     start.AddDate(0, 0, 1).Add(-time.Millisecond),
		Weekday: int(local.Weekday()),
	}
}

// At returns the instant hour:minute falls on during the day
func (d Day) At(hour, minute int) time.Time {
	return time.Date(d.Start.Year(), d.Start.Month(), d.Start.Day(), hour, minute, 0, 0, d.Start.Location())
}

// Contains reports whether t falls within the day
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

func (d Day) String() string {
	return d.Start.Format("2006-01-02")
}

// ParseTimeOfDay splits an HH:MM string into its hour and minute
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	if !validation.TimeOfDayPattern.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, m, _ := strings.Cut(s, ":")
	hour, _ = strconv.Atoi(h)
	minute, _ = strconv.Atoi(m)
	return hour, minute, nil
}
