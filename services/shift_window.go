package services

import (
	"time"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// ShiftWindow adalah jendela absolut sebuah shift pada satu tanggal.
type ShiftWindow struct {
	Start      time.Time
	End        time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
}

// IsOvernightTimes reports whether an HH:mm pair describes an overnight shift.
// End yang sama persis dengan start juga dihitung overnight (shift 24 jam
// tidak didukung, jadi end == start berarti berakhir besok).
func IsOvernightTimes(startTime, endTime string) (bool, error) {
	sh, sm, err := utils.ParseClockTime(startTime)
	if err != nil {
		return false, err
	}
	eh, em, err := utils.ParseClockTime(endTime)
	if err != nil {
		return false, err
	}
	if eh != sh {
		return eh < sh, nil
	}
	return em <= sm, nil
}

// ComputeShiftWindow menghitung instant absolut start/end (plus jendela break
// bila ada) untuk sebuah shift yang di-anchor ke tanggal tertentu.
//
// Break di-resolve relatif terhadap start shift, bukan berdiri sendiri:
// break yang jatuh "sebelum" start pada shift overnight digeser satu hari,
// begitu juga break end yang <= break start. Dengan begitu shift 22:00-06:00
// bisa punya break 00:30-01:30 tanpa caller mengurus tanggal sendiri.
func ComputeShiftWindow(shift *models.Shift, date time.Time) (ShiftWindow, error) {
	loc := date.Location()

	sh, sm, err := utils.ParseClockTime(shift.StartTime)
	if err != nil {
		return ShiftWindow{}, err
	}
	eh, em, err := utils.ParseClockTime(shift.EndTime)
	if err != nil {
		return ShiftWindow{}, err
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), sh, sm, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day(), eh, em, 0, 0, loc)

	overnight, err := IsOvernightTimes(shift.StartTime, shift.EndTime)
	if err != nil {
		return ShiftWindow{}, err
	}
	if overnight {
		end = end.AddDate(0, 0, 1)
	}

	window := ShiftWindow{Start: start, End: end}

	if shift.HasBreak() {
		bh, bm, err := utils.ParseClockTime(*shift.BreakStartTime)
		if err != nil {
			return ShiftWindow{}, err
		}
		ch, cm, err := utils.ParseClockTime(*shift.BreakEndTime)
		if err != nil {
			return ShiftWindow{}, err
		}

		breakStart := time.Date(date.Year(), date.Month(), date.Day(), bh, bm, 0, 0, loc)
		if breakStart.Before(start) {
			breakStart = breakStart.AddDate(0, 0, 1)
		}
		breakEnd := time.Date(date.Year(), date.Month(), date.Day(), ch, cm, 0, 0, loc)
		if !breakEnd.After(breakStart) {
			breakEnd = breakEnd.AddDate(0, 0, 1)
		}

		window.BreakStart = &breakStart
		window.BreakEnd = &breakEnd
	}

	return window, nil
}
