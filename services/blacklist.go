package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
)

// ActiveBlacklist mengembalikan blacklist user yang masih berlaku pada `now`,
// atau nil bila tidak ada. Predikat expiry diterapkan di query, bukan hanya
// membaca flag is_active, supaya hasilnya tidak tergantung kapan sweep jalan.
func ActiveBlacklist(db *gorm.DB, userID uint, now time.Time) (*models.Blacklist, error) {
	var entry models.Blacklist
	err := db.Where("user_id = ? AND is_active = ? AND (end_date IS NULL OR end_date > ?)",
		userID, true, now).
		Order("start_date DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ExpireBlacklists membalik is_active dan melepas active_key untuk baris yang
// sudah lewat masa berlakunya, sekadar menjaga tabel tetap ramping. Pembacaan
// tetap memakai predikat ActiveBlacklist terlepas dari kapan fungsi ini
// terakhir jalan.
func ExpireBlacklists(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&models.Blacklist{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date <= ?", true, now).
		Updates(map[string]interface{}{"is_active": false, "active_key": nil})
	return res.RowsAffected, res.Error
}

// releaseExpiredBlacklistKeys melepas active_key milik baris user yang sudah
// kadaluarsa tapi belum tersentuh sweep. Tanpa ini, unique index di active_key
// akan menghalangi blacklist baru padahal penangguhan lamanya sudah berakhir.
func releaseExpiredBlacklistKeys(db *gorm.DB, userID uint, now time.Time) error {
	return db.Model(&models.Blacklist{}).
		Where("user_id = ? AND active_key IS NOT NULL AND end_date IS NOT NULL AND end_date <= ?",
			userID, now).
		Updates(map[string]interface{}{"is_active": false, "active_key": nil}).Error
}
