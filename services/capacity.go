package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
)

// CapacityChecker adalah kolaborator opsional untuk membatasi porsi per
// (kantin, shift, tanggal). Nil berarti tidak ada pembatasan kapasitas.
type CapacityChecker interface {
	Check(canteenID, shiftID uint, date time.Time) error
}

// CanteenCapacityChecker menghitung order non-cancelled yang sudah ada dan
// membandingkannya dengan kapasitas kantin.
type CanteenCapacityChecker struct {
	DB *gorm.DB
}

func NewCanteenCapacityChecker(db *gorm.DB) *CanteenCapacityChecker {
	return &CanteenCapacityChecker{DB: db}
}

func (cc *CanteenCapacityChecker) Check(canteenID, shiftID uint, date time.Time) error {
	var canteen models.Canteen
	if err := cc.DB.First(&canteen, canteenID).Error; err != nil {
		return NewOrderError(KindCapacityExceeded, fmt.Sprintf("canteen %d not found", canteenID))
	}
	if canteen.Capacity <= 0 {
		return nil // tanpa batas
	}

	var count int64
	err := cc.DB.Model(&models.Order{}).
		Where("canteen_id = ? AND shift_id = ? AND order_date = ? AND status != ?",
			canteenID, shiftID, date, models.OrderStatusCancelled).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count >= int64(canteen.Capacity) {
		return NewOrderError(KindCapacityExceeded,
			fmt.Sprintf("%s is fully booked for this shift (%d seats)", canteen.Name, canteen.Capacity))
	}
	return nil
}
