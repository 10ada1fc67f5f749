package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// CutoffPolicy memutuskan apakah order masih boleh dibuat/dibatalkan untuk
// sebuah (tanggal, shift). Settings dioper eksplisit, tidak ada state global.
//
// Pembatalan memakai instant cutoff yang sama dengan pembuatan. Kalau nanti
// butuh cutoff pembatalan yang terpisah, tambahkan field Settings baru dan
// cabangkan di CheckCutoff.
type CutoffPolicy struct {
	Settings *models.Settings
	Clock    utils.Clock
}

func NewCutoffPolicy(settings *models.Settings, clock utils.Clock) *CutoffPolicy {
	return &CutoffPolicy{Settings: settings, Clock: clock}
}

// CutoffAt menghitung instant cutoff untuk tanggal (dan shift, di mode
// per-shift) tertentu.
func (p *CutoffPolicy) CutoffAt(date time.Time, shift *models.Shift) (time.Time, error) {
	if p.Settings.CutoffMode == models.CutoffModeWeekly {
		return p.weeklyBoundary(date), nil
	}

	window, err := ComputeShiftWindow(shift, date)
	if err != nil {
		return time.Time{}, err
	}
	offset := time.Duration(p.Settings.CutoffDays)*24*time.Hour +
		time.Duration(p.Settings.CutoffHours)*time.Hour
	return window.Start.Add(-offset), nil
}

// CheckWindow memeriksa apakah tanggal masih di dalam jendela yang boleh
// dipesan (langkah 3 pipeline), terlepas dari jam cutoff-nya.
func (p *CutoffPolicy) CheckWindow(date time.Time) error {
	today := p.Clock.Today()

	if p.Settings.CutoffMode == models.CutoffModeWeekly {
		if !p.Settings.OrderableWeekdays()[date.Weekday()] {
			return NewOrderError(KindWindowExceeded,
				fmt.Sprintf("%s (%s) is not an orderable weekday", date.Format(utils.DateFormat), date.Weekday()))
		}
		limit := weekStartOf(today).AddDate(0, 0, 7*p.Settings.MaxWeeksAhead)
		if weekStartOf(date).After(limit) {
			return NewBoundaryError(KindWindowExceeded,
				fmt.Sprintf("%s is beyond the %d-week ordering horizon", date.Format(utils.DateFormat), p.Settings.MaxWeeksAhead),
				limit)
		}
		return nil
	}

	limit := today.AddDate(0, 0, p.Settings.MaxOrderDaysAhead)
	if date.After(limit) {
		return NewBoundaryError(KindWindowExceeded,
			fmt.Sprintf("%s is more than %d days ahead", date.Format(utils.DateFormat), p.Settings.MaxOrderDaysAhead),
			limit)
	}
	return nil
}

// CheckCutoff memeriksa apakah cutoff untuk (tanggal, shift) sudah lewat.
// Tepat di instant cutoff dihitung sudah lewat: order butuh now < cutoff.
func (p *CutoffPolicy) CheckCutoff(date time.Time, shift *models.Shift) error {
	cutoff, err := p.CutoffAt(date, shift)
	if err != nil {
		return NewOrderError(KindInvalidDate, err.Error())
	}
	now := p.Clock.Now()
	if !now.Before(cutoff) {
		return NewBoundaryError(KindCutoffPassed,
			fmt.Sprintf("ordering for %s closed at %s", date.Format(utils.DateFormat), cutoff.Format("2006-01-02 15:04")),
			cutoff)
	}
	return nil
}

// CanOrder menggabungkan pemeriksaan jendela dan cutoff.
func (p *CutoffPolicy) CanOrder(date time.Time, shift *models.Shift) error {
	if err := p.CheckWindow(date); err != nil {
		return err
	}
	return p.CheckCutoff(date, shift)
}

// weeklyBoundary mencari boundary cutoff terakhir yang mendahului awal minggu
// dari tanggal target: hari WeeklyCutoffDay paling akhir yang jatuh sebelum
// Senin 00:00 minggu tersebut, pada jam/menit yang dikonfigurasi.
func (p *CutoffPolicy) weeklyBoundary(date time.Time) time.Time {
	weekStart := weekStartOf(date)
	cutoffDay := time.Weekday(p.Settings.WeeklyCutoffDay)

	day := weekStart.AddDate(0, 0, -1)
	for day.Weekday() != cutoffDay {
		day = day.AddDate(0, 0, -1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		p.Settings.WeeklyCutoffHour, p.Settings.WeeklyCutoffMinute, 0, 0, date.Location())
}

// weekStartOf returns Monday 00:00 of t's week.
func weekStartOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}
