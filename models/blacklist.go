package models

import (
	"strconv"
	"time"
)

// Blacklist adalah satu masa penangguhan hak pesan. EndDate nil berarti
// penangguhan tanpa batas (hanya lewat jalur admin manual).
type Blacklist struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Reason    string     `gorm:"type:varchar(255);not null" json:"reason"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `gorm:"not null;default:true;index" json:"is_active"`

	// ActiveKey berisi userID selama penangguhan masih berjalan dan di-NULL-kan
	// saat dicabut atau disapu kadaluarsa. Unique index di kolom ini yang
	// menjamin maksimal satu blacklist aktif per user di level storage; dua
	// sweep yang balapan membuka blacklist hanya menang satu.
	ActiveKey *string `gorm:"type:varchar(32);uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveBlacklistKey builds the uniqueness key for a live suspension.
func ActiveBlacklistKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// ActiveAt adalah predikat expiry yang malas: flag IsActive saja tidak pernah
// dipercaya, EndDate selalu dicek ulang terhadap waktu sekarang. Sweep yang
// membalik IsActive hanyalah optimasi ukuran tabel.
func (b *Blacklist) ActiveAt(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	return b.EndDate == nil || b.EndDate.After(now)
}
