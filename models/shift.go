package models

import (
	"strconv"
	"strings"
	"time"
)

// Shift adalah jendela layanan harian, jam disimpan sebagai wall-clock "HH:mm".
// End boleh lebih kecil dari Start yang berarti shift lewat tengah malam.
type Shift struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	StartTime      string    `gorm:"type:char(5);not null" json:"start_time"`
	EndTime        string    `gorm:"type:char(5);not null" json:"end_time"`
	BreakStartTime *string   `gorm:"type:char(5)" json:"break_start_time,omitempty"`
	BreakEndTime   *string   `gorm:"type:char(5)" json:"break_end_time,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	MealPrice      float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"meal_price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsOvernight diturunkan dari jam start/end setiap kali dipanggil, tidak
// pernah disimpan, supaya tidak bisa basi setelah shift diedit.
func (s *Shift) IsOvernight() bool {
	sh, sm := splitClock(s.StartTime)
	eh, em := splitClock(s.EndTime)
	if eh != sh {
		return eh < sh
	}
	return em <= sm
}

// HasBreak reports whether a narrower pickup window is configured.
func (s *Shift) HasBreak() bool {
	return s.BreakStartTime != nil && s.BreakEndTime != nil &&
		*s.BreakStartTime != "" && *s.BreakEndTime != ""
}

func splitClock(value string) (hour, minute int) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute
}
