package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		wantCurrent Period
		wantNext    Period
	}{
		{"mid year", date(2025, time.June, 10), Period{6, 2025}, Period{7, 2025}},
		{"december rolls into next year", date(2025, time.December, 28), Period{12, 2025}, Period{1, 2026}},
		{"january", date(2026, time.January, 1), Period{1, 2026}, Period{2, 2026}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.now)
			assert.Equal(t, tt.wantCurrent, res.Current)
			assert.Equal(t, tt.wantNext, res.Next)
		})
	}
}

func TestDaysUntilNextMonth(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"first of a 30 day month", date(2025, time.June, 1), 30},
		{"last day of month", date(2025, time.June, 30), 1},
		{"31 day month", date(2025, time.July, 1), 31},
		{"february non leap", date(2025, time.February, 1), 28},
		{"february leap year", date(2024, time.February, 1), 29},
		{"leap day itself", date(2024, time.February, 29), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilNextMonth(tt.now))
		})
	}
}

func TestSubmissionWindowOpen(t *testing.T) {
	// June has 30 days, so the window opens on the 24th.
	assert.False(t, SubmissionWindowOpen(date(2025, time.June, 23)))
	assert.True(t, SubmissionWindowOpen(date(2025, time.June, 24)))
	assert.True(t, SubmissionWindowOpen(date(2025, time.June, 30)))

	// July has 31 days, so the window opens on the 25th.
	assert.False(t, SubmissionWindowOpen(date(2025, time.July, 24)))
	assert.True(t, SubmissionWindowOpen(date(2025, time.July, 25)))
}

func TestSubmissionTarget(t *testing.T) {
	midMonth := date(2025, time.June, 10)
	endOfMonth := date(2025, time.June, 27)

	t.Run("admin may target current and next at any time", func(t *testing.T) {
		targets := SubmissionTarget(midMonth, true, true)
		assert.Equal(t, []Period{{6, 2025}, {7, 2025}}, targets)
	})

	t.Run("member outside window with an active initiative has no target", func(t *testing.T) {
		assert.Empty(t, SubmissionTarget(midMonth, false, true))
	})

	t.Run("member inside window targets the next period", func(t *testing.T) {
		targets := SubmissionTarget(endOfMonth, false, true)
		assert.Equal(t, []Period{{7, 2025}}, targets)
	})

	t.Run("member may target the current period when none is active", func(t *testing.T) {
		targets := SubmissionTarget(midMonth, false, false)
		assert.Equal(t, []Period{{6, 2025}}, targets)
	})

	t.Run("member inside window without an active initiative targets both", func(t *testing.T) {
		targets := SubmissionTarget(endOfMonth, false, false)
		assert.Equal(t, []Period{{6, 2025}, {7, 2025}}, targets)
	})
}

func TestMidMonth(t *testing.T) {
	got := MidMonth(Period{Month: 6, Year: 2025})
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestIsFirstOfMonth(t *testing.T) {
	assert.True(t, IsFirstOfMonth(date(2025, time.June, 1)))
	assert.False(t, IsFirstOfMonth(date(2025, time.June, 2)))
}
