package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/events"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// EarlyArrivalGrace adalah toleransi datang lebih awal sebelum shift mulai.
// Tidak ada toleransi di sisi akhir, dan jendela break tidak punya toleransi
// sama sekali.
const EarlyArrivalGrace = 30 * time.Minute

// CheckinService memvalidasi dan mengeksekusi pengambilan makan via QR token.
type CheckinService struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewCheckinService(db *gorm.DB, clock utils.Clock) *CheckinService {
	return &CheckinService{DB: db, Clock: clock}
}

// PickupWindow menghitung interval pengambilan yang diizinkan untuk sebuah
// order: jendela break bila shift punya, selain itu shift window dengan grace
// 30 menit di depan.
func PickupWindow(shift *models.Shift, date time.Time) (start, end time.Time, err error) {
	window, err := ComputeShiftWindow(shift, date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if window.BreakStart != nil && window.BreakEnd != nil {
		return *window.BreakStart, *window.BreakEnd, nil
	}
	return window.Start.Add(-EarlyArrivalGrace), window.End, nil
}

// CheckIn memproses scan QR dari dapur. Transisi ORDERED -> PICKED_UP ditulis
// kondisional terhadap status saat ini, jadi check-in yang balapan dengan
// sweep no-show (atau pembatalan) untuk order yang sama hanya menang satu.
func (s *CheckinService) CheckIn(qrToken string, actorID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Shift").Preload("User").
		Where("qr_token = ?", qrToken).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOrderError(KindOrderNotFound, "no order matches this code")
		}
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusPickedUp:
		return nil, NewOrderError(KindAlreadyCheckedIn, "order has already been picked up")
	case models.OrderStatusCancelled:
		return nil, NewOrderError(KindAlreadyCancelled, "order was cancelled")
	}

	start, end, err := PickupWindow(&order.Shift, order.OrderDate)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if now.Before(start) {
		return nil, NewBoundaryError(KindCheckinTooEarly,
			fmt.Sprintf("pickup opens at %s", start.Format("2006-01-02 15:04")), start)
	}
	if now.After(end) {
		return nil, NewBoundaryError(KindCheckinTooLate,
			fmt.Sprintf("pickup closed at %s", end.Format("2006-01-02 15:04")), end)
	}

	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusOrdered).
		Updates(map[string]interface{}{
			"status":        models.OrderStatusPickedUp,
			"check_in_at":   now,
			"checked_in_by": actorID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Kalah race: baca ulang untuk melaporkan state yang menang.
		var current models.Order
		if err := s.DB.First(&current, order.ID).Error; err != nil {
			return nil, err
		}
		switch current.Status {
		case models.OrderStatusPickedUp:
			return nil, NewOrderError(KindAlreadyCheckedIn, "order has already been picked up")
		case models.OrderStatusCancelled:
			return nil, NewOrderError(KindAlreadyCancelled, "order was cancelled")
		default:
			return nil, NewBoundaryError(KindCheckinTooLate,
				fmt.Sprintf("pickup closed at %s", end.Format("2006-01-02 15:04")), end)
		}
	}

	if err := s.DB.Preload("Shift").Preload("User").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	events.BroadcastOrderCheckin(order)
	return &order, nil
}
