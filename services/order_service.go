package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/events"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// OrderService menjalankan pipeline pembuatan dan pembatalan order.
type OrderService struct {
	DB       *gorm.DB
	Clock    utils.Clock
	Capacity CapacityChecker // nil = tanpa cek kapasitas
	Codec    QRCodec
}

func NewOrderService(db *gorm.DB, clock utils.Clock) *OrderService {
	return &OrderService{
		DB:    db,
		Clock: clock,
		Codec: LinkQRCodec{},
	}
}

type CreateOrderInput struct {
	UserID    uint
	ShiftID   uint
	Date      string // "YYYY-MM-DD"
	CanteenID *uint
}

// CreateOrder menjalankan cek berurutan: parse tanggal, tanggal lampau,
// blacklist, jendela pemesanan, duplikat, libur, shift aktif, cutoff,
// kapasitas. Cek pertama yang gagal menghentikan pipeline.
//
// Cek duplikat di sini hanyalah pre-check. Jaminan sesungguhnya adalah unique
// index di orders.active_key; race yang kalah diterjemahkan jadi
// KindDuplicateOrder, bukan double booking diam-diam.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*models.Order, string, error) {
	date, err := utils.ParseLocalDate(in.Date, s.Clock.Location())
	if err != nil {
		return nil, "", NewOrderError(KindInvalidDate, err.Error())
	}

	today := s.Clock.Today()
	if date.Before(today) {
		return nil, "", NewOrderError(KindPastDate,
			fmt.Sprintf("%s is in the past", date.Format(utils.DateFormat)))
	}

	if entry, err := ActiveBlacklist(s.DB, in.UserID, s.Clock.Now()); err != nil {
		return nil, "", err
	} else if entry != nil {
		msg := "ordering is suspended indefinitely"
		if entry.EndDate != nil {
			msg = fmt.Sprintf("ordering is suspended until %s", entry.EndDate.Format(utils.DateFormat))
		}
		oe := NewOrderError(KindForbidden, msg)
		oe.Boundary = entry.EndDate
		return nil, "", oe
	}

	settings, err := models.GetSettings(s.DB)
	if err != nil {
		return nil, "", err
	}
	policy := NewCutoffPolicy(settings, s.Clock)

	if err := policy.CheckWindow(date); err != nil {
		return nil, "", err
	}

	var dupes int64
	err = s.DB.Model(&models.Order{}).
		Where("user_id = ? AND order_date = ? AND status != ?",
			in.UserID, date, models.OrderStatusCancelled).
		Count(&dupes).Error
	if err != nil {
		return nil, "", err
	}
	if dupes > 0 {
		return nil, "", NewOrderError(KindDuplicateOrder,
			fmt.Sprintf("an order for %s already exists", date.Format(utils.DateFormat)))
	}

	var holidays []models.Holiday
	err = s.DB.Where("date = ? AND is_active = ?", date, true).Find(&holidays).Error
	if err != nil {
		return nil, "", err
	}
	for i := range holidays {
		if holidays[i].BlocksShift(in.ShiftID) {
			return nil, "", NewOrderError(KindHolidayBlocked,
				fmt.Sprintf("the canteen is closed on %s (%s)", date.Format(utils.DateFormat), holidays[i].Name))
		}
	}

	var shift models.Shift
	if err := s.DB.First(&shift, in.ShiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", NewOrderError(KindShiftNotFound, fmt.Sprintf("shift %d not found", in.ShiftID))
		}
		return nil, "", err
	}
	if !shift.IsActive {
		return nil, "", NewOrderError(KindShiftInactive, fmt.Sprintf("shift %q is not active", shift.Name))
	}

	if err := policy.CheckCutoff(date, &shift); err != nil {
		return nil, "", err
	}

	if in.CanteenID != nil && s.Capacity != nil {
		if err := s.Capacity.Check(*in.CanteenID, in.ShiftID, date); err != nil {
			return nil, "", err
		}
	}

	activeKey := models.ActiveOrderKey(in.UserID, date)
	order := models.Order{
		UserID:    in.UserID,
		ShiftID:   in.ShiftID,
		CanteenID: in.CanteenID,
		OrderDate: date,
		OrderedAt: s.Clock.Now(),
		Status:    models.OrderStatusOrdered,
		QRToken:   uuid.NewString(),
		ActiveKey: &activeKey,
	}

	if err := s.DB.Create(&order).Error; err != nil {
		// Race yang kalah melawan pembuatan order paralel untuk (user, tanggal)
		// yang sama muncul sebagai pelanggaran unique key di active_key.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", NewOrderError(KindDuplicateOrder,
				fmt.Sprintf("an order for %s already exists", date.Format(utils.DateFormat)))
		}
		return nil, "", err
	}

	order.Shift = shift
	events.BroadcastOrderCreated(order)

	return &order, s.Codec.Render(order.QRToken), nil
}

// CancelOrder membatalkan order milik actor (atau siapa pun bila actor
// privileged) selama statusnya masih ORDERED dan cutoff-nya belum lewat.
func (s *OrderService) CancelOrder(orderID, actorID uint, privileged bool, reason string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Shift").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOrderError(KindOrderNotFound, fmt.Sprintf("order %d not found", orderID))
		}
		return nil, err
	}

	if order.UserID != actorID && !privileged {
		return nil, NewOrderError(KindForbidden, "you may only cancel your own orders")
	}

	switch order.Status {
	case models.OrderStatusCancelled:
		return nil, NewOrderError(KindAlreadyCancelled, "order is already cancelled")
	case models.OrderStatusOrdered:
		// lanjut
	default:
		return nil, NewOrderError(KindNotCancellable,
			fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
	}

	settings, err := models.GetSettings(s.DB)
	if err != nil {
		return nil, err
	}
	policy := NewCutoffPolicy(settings, s.Clock)
	if err := policy.CheckCutoff(order.OrderDate, &order.Shift); err != nil {
		if oe, ok := AsOrderError(err); ok && oe.Kind == KindCutoffPassed {
			cancelErr := NewOrderError(KindCancelCutoffPassed,
				fmt.Sprintf("cancellation for %s closed, %s", order.OrderDate.Format(utils.DateFormat), oe.Message))
			cancelErr.Boundary = oe.Boundary
			return nil, cancelErr
		}
		return nil, err
	}

	// Update kondisional: hanya menang bila status masih ORDERED, jadi race
	// melawan check-in atau sweep no-show tidak pernah menimpa state terminal.
	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusOrdered).
		Updates(map[string]interface{}{
			"status":        models.OrderStatusCancelled,
			"cancelled_by":  actorID,
			"cancel_reason": reason,
			"active_key":    nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, NewOrderError(KindNotCancellable, "order is no longer ORDERED")
	}

	if err := s.DB.Preload("Shift").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	events.BroadcastOrderCancelled(order)
	return &order, nil
}
