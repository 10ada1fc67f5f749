package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	dbMu sync.RWMutex
	db   *gorm.DB
)

// InitDB menyimpan handle gorm hasil config.InitDB supaya sweeper dan
// controller yang berjalan di goroutine terpisah memakai koneksi yang sama.
func InitDB(database *gorm.DB) {
	dbMu.Lock()
	db = database
	dbMu.Unlock()
}

// GetDB mengembalikan handle yang disimpan InitDB; nil kalau belum dipanggil.
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}
