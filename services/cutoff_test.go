package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

func perShiftSettings(days, hours int) *models.Settings {
	s := models.DefaultSettings()
	s.CutoffMode = models.CutoffModePerShift
	s.CutoffDays = days
	s.CutoffHours = hours
	return &s
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := utils.ParseLocalDate(value, testLoc)
	require.NoError(t, err)
	return date
}

func TestPerShiftCutoffAt(t *testing.T) {
	shift := &models.Shift{StartTime: "08:00", EndTime: "16:00"}
	policy := NewCutoffPolicy(perShiftSettings(0, 6), clockAt(t, "2025-01-09T09:00"))

	cutoff, err := policy.CutoffAt(mustDate(t, "2025-01-10"), shift)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 2, 0, 0, 0, testLoc), cutoff)

	policy.Settings = perShiftSettings(1, 6)
	cutoff, err = policy.CutoffAt(mustDate(t, "2025-01-10"), shift)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 9, 2, 0, 0, 0, testLoc), cutoff)
}

func TestPerShiftCutoffDecision(t *testing.T) {
	shift := &models.Shift{StartTime: "08:00", EndTime: "16:00"}

	tests := []struct {
		name string
		now  string
		date string
		kind ErrorKind // "" = boleh
	}{
		{"after cutoff same day", "2025-01-10T09:00", "2025-01-10", KindCutoffPassed},
		{"evening before", "2025-01-09T20:00", "2025-01-10", ""},
		{"one minute before cutoff", "2025-01-10T01:59", "2025-01-10", ""},
		{"exactly at cutoff", "2025-01-10T02:00", "2025-01-10", KindCutoffPassed},
		{"just past cutoff", "2025-01-10T02:01", "2025-01-10", KindCutoffPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewCutoffPolicy(perShiftSettings(0, 6), clockAt(t, tt.now))
			err := policy.CheckCutoff(mustDate(t, tt.date), shift)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			oe, ok := AsOrderError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, oe.Kind)
			require.NotNil(t, oe.Boundary)
			assert.Equal(t, time.Date(2025, 1, 10, 2, 0, 0, 0, testLoc), *oe.Boundary)
		})
	}
}

func TestPerShiftCutoffOvernightShift(t *testing.T) {
	// Cutoff dihitung dari start shift, jadi shift malam tanggal D tutup
	// pemesanannya di hari D juga, bukan D+1.
	shift := &models.Shift{StartTime: "22:00", EndTime: "06:00"}
	policy := NewCutoffPolicy(perShiftSettings(0, 6), clockAt(t, "2025-01-10T12:00"))

	cutoff, err := policy.CutoffAt(mustDate(t, "2025-01-10"), shift)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 16, 0, 0, 0, testLoc), cutoff)

	assert.NoError(t, policy.CheckCutoff(mustDate(t, "2025-01-10"), shift))
}

func TestPerShiftWindow(t *testing.T) {
	settings := perShiftSettings(0, 6)
	settings.MaxOrderDaysAhead = 7
	policy := NewCutoffPolicy(settings, clockAt(t, "2025-01-09T09:00"))

	assert.NoError(t, policy.CheckWindow(mustDate(t, "2025-01-16")))

	err := policy.CheckWindow(mustDate(t, "2025-01-17"))
	oe, ok := AsOrderError(err)
	require.True(t, ok)
	assert.Equal(t, KindWindowExceeded, oe.Kind)
}

func TestCutoffMonotonicity(t *testing.T) {
	// Sekali lewat, tetap lewat: tidak ada instant setelah cutoff yang
	// mengizinkan order lagi.
	shift := &models.Shift{StartTime: "08:00", EndTime: "16:00"}
	date := mustDate(t, "2025-01-10")

	for _, now := range []string{
		"2025-01-10T02:00", "2025-01-10T05:00", "2025-01-10T08:00",
		"2025-01-10T23:59", "2025-01-11T09:00",
	} {
		policy := NewCutoffPolicy(perShiftSettings(0, 6), clockAt(t, now))
		err := policy.CheckCutoff(date, shift)
		assert.Equal(t, KindCutoffPassed, KindOf(err), "now=%s", now)
	}
}

func weeklySettings() *models.Settings {
	s := models.DefaultSettings()
	s.CutoffMode = models.CutoffModeWeekly
	s.WeeklyCutoffDay = 5 // Jumat
	s.WeeklyCutoffHour = 17
	s.WeeklyCutoffMinute = 0
	s.OrderableDays = "1,2,3,4,5"
	s.MaxWeeksAhead = 2
	return &s
}

func TestWeeklyBoundary(t *testing.T) {
	policy := NewCutoffPolicy(weeklySettings(), clockAt(t, "2025-01-09T09:00"))

	// 2025-01-15 itu Rabu; minggu tersebut dimulai Senin 13 Jan, jadi
	// boundary-nya Jumat sebelumnya, 10 Jan 17:00.
	cutoff, err := policy.CutoffAt(mustDate(t, "2025-01-15"), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 17, 0, 0, 0, testLoc), cutoff)

	// Semua hari dalam minggu yang sama berbagi boundary yang sama.
	monday, err := policy.CutoffAt(mustDate(t, "2025-01-13"), nil)
	require.NoError(t, err)
	friday, err := policy.CutoffAt(mustDate(t, "2025-01-17"), nil)
	require.NoError(t, err)
	assert.Equal(t, cutoff, monday)
	assert.Equal(t, cutoff, friday)
}

func TestWeeklyCutoffDecision(t *testing.T) {
	date := mustDate(t, "2025-01-15")

	before := NewCutoffPolicy(weeklySettings(), clockAt(t, "2025-01-10T16:59"))
	assert.NoError(t, before.CheckCutoff(date, nil))

	at := NewCutoffPolicy(weeklySettings(), clockAt(t, "2025-01-10T17:00"))
	assert.Equal(t, KindCutoffPassed, KindOf(at.CheckCutoff(date, nil)))
}

func TestWeeklyWindow(t *testing.T) {
	policy := NewCutoffPolicy(weeklySettings(), clockAt(t, "2025-01-09T09:00"))

	// Sabtu bukan hari yang boleh dipesan
	err := policy.CheckWindow(mustDate(t, "2025-01-18"))
	assert.Equal(t, KindWindowExceeded, KindOf(err))

	// Dua minggu ke depan masih boleh, tiga minggu tidak
	assert.NoError(t, policy.CheckWindow(mustDate(t, "2025-01-22")))
	err = policy.CheckWindow(mustDate(t, "2025-01-29"))
	assert.Equal(t, KindWindowExceeded, KindOf(err))
}
