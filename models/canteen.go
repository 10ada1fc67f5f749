package models

import "time"

// Canteen adalah lokasi dapur tempat order diambil. Capacity 0 berarti tanpa
// batas porsi per shift.
type Canteen struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Location  string    `gorm:"type:varchar(255)" json:"location"`
	Capacity  int       `gorm:"not null;default:0" json:"capacity"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
