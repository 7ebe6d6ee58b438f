// Package dates computes the report windows in the store's local time.
package dates

import (
	"fmt"
	"time"
)

// Ranges holds every date window the reporting binaries query.
// All bounds are inclusive; *End values are the last second of the window.
type Ranges struct {
	YesterdayStart time.Time
	YesterdayEnd   time.Time

	QTDStart time.Time
	QTDEnd   time.Time

	PriorQTDStart time.Time
	PriorQTDEnd   time.Time

	PriorYesterdayStart time.Time
	PriorYesterdayEnd   time.Time

	SevenDaysStart  time.Time
	ThirtyDaysStart time.Time
	WindowEnd       time.Time
}

// Compute derives all windows from a reference instant. The instant's
// location determines the day boundaries, so callers pass time.Now() in
// the configured report timezone.
func Compute(now time.Time) Ranges {
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	yesterdayStart := today.AddDate(0, 0, -1)
	yesterdayEnd := today.Add(-time.Second)

	qtdStart := time.Date(year, quarterStart(month), 1, 0, 0, 0, 0, now.Location())

	return Ranges{
		YesterdayStart: yesterdayStart,
		YesterdayEnd:   yesterdayEnd,

		QTDStart: qtdStart,
		QTDEnd:   yesterdayEnd,

		PriorQTDStart: PriorYear(qtdStart),
		PriorQTDEnd:   PriorYear(yesterdayEnd),

		PriorYesterdayStart: PriorYear(yesterdayStart),
		PriorYesterdayEnd:   PriorYear(yesterdayEnd),

		SevenDaysStart:  today.AddDate(0, 0, -7),
		ThirtyDaysStart: today.AddDate(0, 0, -30),
		WindowEnd:       yesterdayEnd,
	}
}

// PriorYear returns the same wall-clock instant one year earlier. Feb 29
// maps to Feb 28 so the window never normalizes into March; the naive
// year substitution this replaces produced an invalid date on leap days.
func PriorYear(t time.Time) time.Time {
	year, month, day := t.Date()
	if month == time.February && day == 29 {
		day = 28
	}
	return time.Date(year-1, month, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// YesterdayLabel formats the report headline date, e.g. "Friday, August 28".
func (r Ranges) YesterdayLabel() string {
	return fmt.Sprintf("%s, %s %d",
		r.YesterdayStart.Weekday(), r.YesterdayStart.Month(), r.YesterdayStart.Day())
}

// YesterdayDate returns yesterday as YYYY-MM-DD, the key used by the
// daily revenue tab's duplicate guard.
func (r Ranges) YesterdayDate() string {
	return r.YesterdayStart.Format("2006-01-02")
}

func quarterStart(m time.Month) time.Month {
	switch {
	case m <= time.March:
		return time.January
	case m <= time.June:
		return time.April
	case m <= time.September:
		return time.July
	default:
		return time.October
	}
}
