// Package period resolves calendar periods and submission windows for the
// initiative lifecycle. All functions are pure; time is passed in explicitly
// and interpreted in UTC.
package period

import (
	"time"

	"github.com/greenpulse/sustainability-api/internal/constants"
)

// Period identifies one initiative period: a calendar month of a year.
type Period struct {
	Month int
	Year  int
}

// Resolution holds the current and next periods for a point in time.
type Resolution struct {
	Current Period
	Next    Period
}

// Resolve maps now to its current and next periods, rolling December over
// into January of the following year.
func Resolve(now time.Time) Resolution {
	now = now.UTC()

	current := Period{Month: int(now.Month()), Year: now.Year()}
	next := Period{Month: current.Month + 1, Year: current.Year}
	if next.Month > 12 {
		next.Month = 1
		next.Year++
	}

	return Resolution{Current: current, Next: next}
}

// DaysUntilNextMonth counts the days from now until the first day of the next
// month, using the real length of the current month. time.Date normalizes
// month arithmetic, so leap Februaries need no special casing.
func DaysUntilNextMonth(now time.Time) int {
	now = now.UTC()

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	firstOfNext := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)

	return int(firstOfNext.Sub(startOfDay).Hours() / 24)
}

// SubmissionWindowOpen reports whether the regular-user submission window is
// open: the last SubmissionWindowDays days of the month.
func SubmissionWindowOpen(now time.Time) bool {
	return DaysUntilNextMonth(now) <= constants.SubmissionWindowDays
}

// SubmissionTarget resolves which periods a creator may submit for.
//
// Admins may submit for the current or next period at any time. Regular users
// may submit for the next period while the submission window is open; when the
// company has no active initiative for the current period they may submit for
// the current period instead, without the window gate.
func SubmissionTarget(now time.Time, isAdmin, hasActiveCurrent bool) []Period {
	res := Resolve(now)

	if isAdmin {
		return []Period{res.Current, res.Next}
	}

	var targets []Period
	if !hasActiveCurrent {
		targets = append(targets, res.Current)
	}
	if SubmissionWindowOpen(now) {
		targets = append(targets, res.Next)
	}

	return targets
}

// Contains reports whether p is one of the given periods.
func Contains(periods []Period, p Period) bool {
	for _, candidate := range periods {
		if candidate == p {
			return true
		}
	}
	return false
}

// MidMonth returns the cleanup date for a period: the 15th at midnight UTC.
func MidMonth(p Period) time.Time {
	return time.Date(p.Year, time.Month(p.Month), constants.FailedCleanupDay, 0, 0, 0, 0, time.UTC)
}

// IsFirstOfMonth reports whether now falls on the first calendar day of a
// month, the day the monthly auto-activation sweep runs.
func IsFirstOfMonth(now time.Time) bool {
	return now.UTC().Day() == 1
}
