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

// NoShowService memindai order ORDERED yang shift-nya sudah berakhir,
// mengubahnya jadi NO_SHOW, menambah strike user, dan membuka blacklist
// begitu ambang strike terlampaui.
type NoShowService struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewNoShowService(db *gorm.DB, clock utils.Clock) *NoShowService {
	return &NoShowService{DB: db, Clock: clock}
}

type SweepResult struct {
	Scanned     int    `json:"scanned"`
	Processed   int    `json:"processed"`
	Failed      int    `json:"failed"`
	Blacklisted []uint `json:"blacklisted"` // user ID yang baru di-blacklist
}

// RunSweep memproses semua kandidat no-show. Lookback satu hari cukup karena
// tidak ada shift yang lebih panjang dari 24 jam: shift overnight kemarin pun
// sudah tercakup. Kegagalan satu order dicatat dan dilewati, tidak pernah
// menghentikan sisa batch.
func (s *NoShowService) RunSweep() (*SweepResult, error) {
	settings, err := models.GetSettings(s.DB)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	today := s.Clock.Today()
	lookback := today.AddDate(0, 0, -1)

	var candidates []models.Order
	err = s.DB.Preload("Shift").Preload("User").
		Where("status = ? AND order_date BETWEEN ? AND ?",
			models.OrderStatusOrdered, lookback, today).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(candidates)}
	for i := range candidates {
		order := &candidates[i]

		window, err := ComputeShiftWindow(&order.Shift, order.OrderDate)
		if err != nil {
			utils.ErrorLogger.Printf("noshow sweep: order %d has malformed shift times: %v", order.ID, err)
			result.Failed++
			continue
		}
		// Belum no-show selama shift-nya masih berjalan.
		if !now.After(window.End) {
			continue
		}

		count, ok := s.markNoShow(order)
		if !ok {
			result.Failed++
			continue
		}
		if count < 0 {
			// Kalah race (check-in atau sweep lain menang), bukan kegagalan.
			continue
		}
		result.Processed++

		events.BroadcastOrderNoShow(events.NoShowPayload{
			OrderID:     order.ID,
			UserID:      order.UserID,
			UserName:    order.User.Name,
			NoShowCount: count,
		})

		if count >= settings.BlacklistStrikes {
			if created := s.maybeBlacklist(order.UserID, order.User.Name, count, settings, now); created {
				result.Blacklisted = append(result.Blacklisted, order.UserID)
			}
		}
	}

	return result, nil
}

// markNoShow membalik status order dan menaikkan strike counter dalam satu
// transaksi. Update status yang kondisional terhadap ORDERED menjamin hanya
// satu sweep yang menghitung order ini, walau dua sweep jalan bersamaan, dan
// increment-nya ekspresi SQL atomik, bukan read-modify-write.
// Mengembalikan strike count baru, atau -1 bila kalah race.
func (s *NoShowService) markNoShow(order *models.Order) (int, bool) {
	count := -1
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusOrdered).
			Update("status", models.OrderStatusNoShow)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // order sudah diproses pihak lain
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", order.UserID).
			UpdateColumn("no_show_count", gorm.Expr("no_show_count + 1")).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, order.UserID).Error; err != nil {
			return err
		}
		count = user.NoShowCount
		return nil
	})
	if err != nil {
		utils.ErrorLogger.Printf("noshow sweep: failed to process order %d: %v", order.ID, err)
		return 0, false
	}
	return count, true
}

// maybeBlacklist membuka blacklist baru bila user belum punya yang aktif.
// Sengaja di luar transaksi markNoShow: gagal menulis blacklist tidak boleh
// membatalkan status NO_SHOW yang sudah tercatat.
//
// Cek existing di sini hanyalah pre-check. Jaminan sesungguhnya adalah unique
// index di blacklists.active_key: dua sweep yang balapan membuka blacklist
// untuk user yang sama hanya menang satu, yang kalah muncul sebagai
// gorm.ErrDuplicatedKey dan dianggap sudah ter-blacklist.
func (s *NoShowService) maybeBlacklist(userID uint, userName string, count int,
	settings *models.Settings, now time.Time) bool {

	created := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := ActiveBlacklist(tx, userID, now)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		// Baris kadaluarsa yang belum disapu masih memegang active_key;
		// lepaskan dulu supaya tidak menabrak unique index.
		if err := releaseExpiredBlacklistKeys(tx, userID, now); err != nil {
			return err
		}

		endDate := now.AddDate(0, 0, settings.BlacklistDurationDays)
		activeKey := models.ActiveBlacklistKey(userID)
		entry := models.Blacklist{
			UserID:    userID,
			Reason:    fmt.Sprintf("%d unclaimed meal reservations", count),
			StartDate: now,
			EndDate:   &endDate,
			IsActive:  true,
			ActiveKey: &activeKey,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		notif := models.Notification{
			UserID:  &userID,
			Message: fmt.Sprintf("Ordering suspended until %s after %d no-shows", endDate.Format(utils.DateFormat), count),
		}
		if err := tx.Create(&notif).Error; err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Kalah balapan dengan sweep lain; user sudah ter-blacklist.
			return false
		}
		utils.ErrorLogger.Printf("noshow sweep: failed to blacklist user %d: %v", userID, err)
		return false
	}

	if created {
		events.BroadcastUserBlacklisted(events.BlacklistedPayload{
			UserID:      userID,
			UserName:    userName,
			NoShowCount: count,
		})
	}
	return created
}

// NoShowSweeper menjalankan sweep secara periodik di background.
type NoShowSweeper struct {
	Service  *NoShowService
	Interval time.Duration
	StopChan chan struct{}
}

func NewNoShowSweeper(service *NoShowService) *NoShowSweeper {
	return &NoShowSweeper{
		Service:  service,
		Interval: 5 * time.Minute,
		StopChan: make(chan struct{}),
	}
}

func (ns *NoShowSweeper) Start() {
	go func() {
		ticker := time.NewTicker(ns.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				result, err := ns.Service.RunSweep()
				if err != nil {
					utils.ErrorLogger.Printf("noshow sweep failed: %v", err)
					continue
				}
				if result.Processed > 0 || result.Failed > 0 {
					utils.InfoLogger.Printf("noshow sweep: scanned=%d processed=%d failed=%d blacklisted=%d",
						result.Scanned, result.Processed, result.Failed, len(result.Blacklisted))
				}
				// Sekalian rapikan blacklist yang sudah kadaluarsa.
				if _, err := ExpireBlacklists(ns.Service.DB, ns.Service.Clock.Now()); err != nil {
					utils.ErrorLogger.Printf("blacklist expiry sweep failed: %v", err)
				}
			case <-ns.StopChan:
				return
			}
		}
	}()
}

func (ns *NoShowSweeper) Stop() {
	close(ns.StopChan)
}
