package models

import (
	"fmt"
	"time"
)

// Order status lifecycle. ORDERED adalah satu-satunya state non-terminal.
const (
	OrderStatusOrdered   = "ORDERED"
	OrderStatusPickedUp  = "PICKED_UP"
	OrderStatusNoShow    = "NO_SHOW"
	OrderStatusCancelled = "CANCELLED"
)

type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShiftID   uint      `gorm:"not null;index" json:"shift_id"`
	Shift     Shift     `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
	CanteenID *uint     `gorm:"index" json:"canteen_id,omitempty"`
	Canteen   *Canteen  `gorm:"foreignKey:CanteenID" json:"canteen,omitempty"`
	OrderDate time.Time `gorm:"type:date;not null;index" json:"order_date"`
	OrderedAt time.Time `gorm:"not null" json:"ordered_at"`
	Status    string    `gorm:"type:varchar(20);not null;default:'ORDERED'" json:"status"`
	QRToken   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"qr_token"`

	// ActiveKey berisi "userID:tanggal" selama order belum CANCELLED dan
	// di-NULL-kan saat cancel. Unique index di kolom ini yang menjamin
	// maksimal satu order non-cancelled per (user, tanggal) di level storage;
	// pengecekan duplikat di pipeline hanyalah pre-check yang bisa kalah race.
	ActiveKey *string `gorm:"type:varchar(32);uniqueIndex" json:"-"`

	CheckInAt    *time.Time `json:"check_in_at,omitempty"`
	CheckedInBy  *uint      `json:"checked_in_by,omitempty"`
	CancelledBy  *uint      `json:"cancelled_by,omitempty"`
	CancelReason *string    `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveOrderKey builds the uniqueness key for a non-cancelled order.
func ActiveOrderKey(userID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", userID, date.Format("2006-01-02"))
}
