package core

import (
	"fmt"
	"time"
)

// Period is a (month, year) window; wallets and budgets are scoped to one.
type Period struct {
	Month int
	Year  int
}

// PeriodOf returns the period the given instant falls in, in UTC.
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Month: int(t.Month()), Year: t.Year()}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return Validationf("month", "invalid month %d: must be between 1 and 12", p.Month)
	}
	if p.Year < 1970 || p.Year > 9999 {
		return Validationf("year", "invalid year %d", p.Year)
	}
	return nil
}

// Bounds returns day 1 00:00:00.000 and the last day 23:59:59.999 of the month.
func (p Period) Bounds() (start, end time.Time) {
	start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// Contains reports whether t falls inside the period window.
func (p Period) Contains(t time.Time) bool {
	return PeriodOf(t) == p
}

func (p Period) String() string {
	return fmt.Sprintf("%02d/%d", p.Month, p.Year)
}
