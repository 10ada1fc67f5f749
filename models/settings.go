package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	CutoffModePerShift = "PER_SHIFT"
	CutoffModeWeekly   = "WEEKLY"
)

// Settings adalah konfigurasi operasional, tabel ini diharapkan berisi tepat
// satu baris (ID = 1). Field per-shift dan weekly sama-sama ada di baris yang
// sama; yang berlaku ditentukan oleh CutoffMode.
type Settings struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CutoffMode string `gorm:"type:varchar(20);not null;default:'PER_SHIFT'" json:"cutoff_mode"`

	// Mode PER_SHIFT: order tutup (CutoffDays hari + CutoffHours jam)
	// sebelum shift mulai.
	CutoffDays  int `gorm:"not null;default:0" json:"cutoff_days"`
	CutoffHours int `gorm:"not null;default:6" json:"cutoff_hours"`

	// Mode WEEKLY: batas mingguan di hari/jam/menit tertentu.
	WeeklyCutoffDay    int    `gorm:"not null;default:5" json:"weekly_cutoff_day"` // 0=Minggu .. 6=Sabtu
	WeeklyCutoffHour   int    `gorm:"not null;default:17" json:"weekly_cutoff_hour"`
	WeeklyCutoffMinute int    `gorm:"not null;default:0" json:"weekly_cutoff_minute"`
	OrderableDays      string `gorm:"type:varchar(20);not null;default:'1,2,3,4,5'" json:"orderable_days"`
	MaxWeeksAhead      int    `gorm:"not null;default:2" json:"max_weeks_ahead"`

	MaxOrderDaysAhead int `gorm:"not null;default:14" json:"max_order_days_ahead"`

	BlacklistStrikes      int `gorm:"not null;default:3" json:"blacklist_strikes"`
	BlacklistDurationDays int `gorm:"not null;default:14" json:"blacklist_duration_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderableWeekdays parses the comma-separated weekday list (0=Sunday).
func (s *Settings) OrderableWeekdays() map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s.OrderableDays, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if d, err := strconv.Atoi(part); err == nil && d >= 0 && d <= 6 {
			days[time.Weekday(d)] = true
		}
	}
	return days
}

// DefaultSettings holds the values a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		CutoffMode:            CutoffModePerShift,
		CutoffDays:            0,
		CutoffHours:           6,
		WeeklyCutoffDay:       5, // Jumat
		WeeklyCutoffHour:      17,
		WeeklyCutoffMinute:    0,
		OrderableDays:         "1,2,3,4,5",
		MaxWeeksAhead:         2,
		MaxOrderDaysAhead:     14,
		BlacklistStrikes:      3,
		BlacklistDurationDays: 14,
	}
}

// GetSettings mengambil baris singleton, membuatnya dengan default bila belum ada.
func GetSettings(db *gorm.DB) (*Settings, error) {
	var settings Settings
	err := db.Where(Settings{ID: 1}).Attrs(DefaultSettings()).FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
