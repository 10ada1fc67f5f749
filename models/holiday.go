package models

import "time"

// Holiday menutup pemesanan untuk satu tanggal. ShiftID nil berarti libur
// penuh untuk semua shift, selain itu hanya shift tersebut yang tutup.
type Holiday struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	ShiftID   *uint     `gorm:"index" json:"shift_id,omitempty"`
	Shift     *Shift    `gorm:"foreignKey:ShiftID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"shift,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlocksShift reports whether the holiday applies to the given shift.
func (h *Holiday) BlocksShift(shiftID uint) bool {
	return h.ShiftID == nil || *h.ShiftID == shiftID
}
