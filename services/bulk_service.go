package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/events"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// MaxBulkCandidates membatasi jumlah kandidat dalam satu request bulk.
const MaxBulkCandidates = 30

type BulkCandidate struct {
	Date    string `json:"date" binding:"required"`
	ShiftID uint   `json:"shift_id" binding:"required"`
}

type BulkFailure struct {
	Date    string    `json:"date"`
	ShiftID uint      `json:"shift_id"`
	Kind    ErrorKind `json:"kind"`
	Reason  string    `json:"reason"`
}

type BulkResult struct {
	Created      []models.Order `json:"created"`
	Failed       []BulkFailure  `json:"failed"`
	SuccessCount int            `json:"success_count"`
	FailedCount  int            `json:"failed_count"`
}

type parsedCandidate struct {
	BulkCandidate
	date time.Time
}

// bulkLookups menampung hasil pre-fetch fase 1: semua data yang dibutuhkan
// untuk memvalidasi N kandidat tanpa query tambahan per kandidat.
type bulkLookups struct {
	ordered  map[string]bool             // tanggal ISO -> sudah ada order non-cancelled
	holidays map[string][]models.Holiday // tanggal ISO -> libur aktif
	shifts   map[uint]*models.Shift      // shiftID -> shift
}

// CreateBulkOrders memvalidasi dan membuat banyak kandidat (tanggal, shift)
// untuk satu user. Fase 1 menarik semua data dengan tiga query range; fase 2
// menjalankan cek per kandidat murni dari lookup in-memory. Hanya insert per
// kandidat yang menyentuh storage lagi, masing-masing commit sendiri, jadi
// sebagian kandidat boleh gagal tanpa menggagalkan sisanya.
func (s *OrderService) CreateBulkOrders(userID uint, candidates []BulkCandidate, canteenID *uint) (*BulkResult, error) {
	if len(candidates) == 0 {
		return nil, NewOrderError(KindInvalidDate, "no candidates in bulk request")
	}
	if len(candidates) > MaxBulkCandidates {
		return nil, NewOrderError(KindInvalidDate,
			fmt.Sprintf("bulk request exceeds the %d candidate limit", MaxBulkCandidates))
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOrderError(KindOrderNotFound, fmt.Sprintf("user %d not found", userID))
		}
		return nil, err
	}

	now := s.Clock.Now()
	if entry, err := ActiveBlacklist(s.DB, userID, now); err != nil {
		return nil, err
	} else if entry != nil {
		msg := "ordering is suspended indefinitely"
		if entry.EndDate != nil {
			msg = fmt.Sprintf("ordering is suspended until %s", entry.EndDate.Format(utils.DateFormat))
		}
		return nil, NewOrderError(KindForbidden, msg)
	}

	settings, err := models.GetSettings(s.DB)
	if err != nil {
		return nil, err
	}
	policy := NewCutoffPolicy(settings, s.Clock)

	// Parse semua tanggal lebih dulu; yang gagal parse jadi kegagalan per
	// kandidat, bukan pembatalan seluruh batch.
	result := &BulkResult{}
	parsed := make([]parsedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		date, err := utils.ParseLocalDate(cand.Date, s.Clock.Location())
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{
				Date: cand.Date, ShiftID: cand.ShiftID,
				Kind: KindInvalidDate, Reason: err.Error(),
			})
			continue
		}
		parsed = append(parsed, parsedCandidate{BulkCandidate: cand, date: date})
	}

	if len(parsed) > 0 {
		lookups, err := s.prefetchBulk(userID, parsed[0].date, parsed)
		if err != nil {
			return nil, err
		}

		today := s.Clock.Today()
		for _, cand := range parsed {
			if err := s.validateBulkCandidate(cand.date, cand.ShiftID, today, policy, lookups); err != nil {
				result.Failed = append(result.Failed, bulkFailureFor(cand.BulkCandidate, err))
				continue
			}

			activeKey := models.ActiveOrderKey(userID, cand.date)
			order := models.Order{
				UserID:    userID,
				ShiftID:   cand.ShiftID,
				CanteenID: canteenID,
				OrderDate: cand.date,
				OrderedAt: now,
				Status:    models.OrderStatusOrdered,
				QRToken:   uuid.NewString(),
				ActiveKey: &activeKey,
			}
			if err := s.DB.Create(&order).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					err = NewOrderError(KindDuplicateOrder,
						fmt.Sprintf("an order for %s already exists", cand.Date))
				}
				result.Failed = append(result.Failed, bulkFailureFor(cand.BulkCandidate, err))
				continue
			}

			// Tandai tanggal terpakai supaya kandidat berikutnya di batch yang
			// menunjuk tanggal sama gagal sebagai duplikat, bukan insert kedua.
			lookups.ordered[cand.date.Format(utils.DateFormat)] = true
			result.Created = append(result.Created, order)
			events.BroadcastOrderCreated(order)
		}
	}

	result.SuccessCount = len(result.Created)
	result.FailedCount = len(result.Failed)
	if result.SuccessCount > 0 {
		events.BroadcastBulkCreated(result.SuccessCount, userID)
	}
	return result, nil
}

// prefetchBulk menjalankan tepat tiga query untuk seluruh batch: order user
// yang masih hidup di rentang tanggal, libur aktif di rentang yang sama, dan
// shift untuk setiap shiftID yang dirujuk.
func (s *OrderService) prefetchBulk(userID uint, seed time.Time, parsed []parsedCandidate) (*bulkLookups, error) {
	minDate, maxDate := seed, seed
	shiftIDs := make(map[uint]bool)
	for _, cand := range parsed {
		if cand.date.Before(minDate) {
			minDate = cand.date
		}
		if cand.date.After(maxDate) {
			maxDate = cand.date
		}
		shiftIDs[cand.ShiftID] = true
	}
	ids := make([]uint, 0, len(shiftIDs))
	for id := range shiftIDs {
		ids = append(ids, id)
	}

	lookups := &bulkLookups{
		ordered:  make(map[string]bool),
		holidays: make(map[string][]models.Holiday),
		shifts:   make(map[uint]*models.Shift),
	}

	var existing []models.Order
	err := s.DB.Where("user_id = ? AND status != ? AND order_date BETWEEN ? AND ?",
		userID, models.OrderStatusCancelled, minDate, maxDate).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	for i := range existing {
		lookups.ordered[existing[i].OrderDate.Format(utils.DateFormat)] = true
	}

	var holidays []models.Holiday
	err = s.DB.Where("is_active = ? AND date BETWEEN ? AND ?", true, minDate, maxDate).
		Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	for i := range holidays {
		key := holidays[i].Date.Format(utils.DateFormat)
		lookups.holidays[key] = append(lookups.holidays[key], holidays[i])
	}

	var shifts []models.Shift
	if err := s.DB.Where("id IN ?", ids).Find(&shifts).Error; err != nil {
		return nil, err
	}
	for i := range shifts {
		lookups.shifts[shifts[i].ID] = &shifts[i]
	}

	return lookups, nil
}

// validateBulkCandidate menjalankan cek single-order terhadap lookup fase 1,
// tanpa menyentuh storage sama sekali.
func (s *OrderService) validateBulkCandidate(date time.Time, shiftID uint, today time.Time,
	policy *CutoffPolicy, lookups *bulkLookups) error {

	if date.Before(today) {
		return NewOrderError(KindPastDate,
			fmt.Sprintf("%s is in the past", date.Format(utils.DateFormat)))
	}
	if err := policy.CheckWindow(date); err != nil {
		return err
	}

	key := date.Format(utils.DateFormat)
	if lookups.ordered[key] {
		return NewOrderError(KindDuplicateOrder,
			fmt.Sprintf("an order for %s already exists", key))
	}

	for i := range lookups.holidays[key] {
		if lookups.holidays[key][i].BlocksShift(shiftID) {
			return NewOrderError(KindHolidayBlocked,
				fmt.Sprintf("the canteen is closed on %s (%s)", key, lookups.holidays[key][i].Name))
		}
	}

	shift, ok := lookups.shifts[shiftID]
	if !ok {
		return NewOrderError(KindShiftNotFound, fmt.Sprintf("shift %d not found", shiftID))
	}
	if !shift.IsActive {
		return NewOrderError(KindShiftInactive, fmt.Sprintf("shift %q is not active", shift.Name))
	}

	return policy.CheckCutoff(date, shift)
}

func bulkFailureFor(cand BulkCandidate, err error) BulkFailure {
	failure := BulkFailure{Date: cand.Date, ShiftID: cand.ShiftID, Reason: err.Error()}
	if oe, ok := AsOrderError(err); ok {
		failure.Kind = oe.Kind
	}
	return failure
}
