package models

import "time"

// Role constants
const (
	RoleAdmin    = "admin"
	RoleKitchen  = "kitchen"
	RoleEmployee = "employee"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Email       string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"`
	Role        string `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	// NoShowCount hanya bertambah lewat sweep; reset cuma lewat aksi admin.
	NoShowCount int       `gorm:"not null;default:0" json:"no_show_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
