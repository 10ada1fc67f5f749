package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/utils"
)

// InitDB membuka koneksi database dari environment. DB_DRIVER=sqlite dipakai
// untuk development lokal, default-nya MySQL.
func InitDB() (*gorm.DB, error) {
	cfg := &gorm.Config{
		// Supaya pelanggaran unique key bisa dicek sebagai gorm.ErrDuplicatedKey
		// (pipeline order mengandalkan ini untuk menerjemahkan race duplikat).
		TranslateError: true,
	}

	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "canteen.db"
		}
		return gorm.Open(sqlite.Open(path), cfg)
	}

	host := envOr("DB_HOST", "127.0.0.1")
	port := envOr("DB_PORT", "3306")
	user := envOr("DB_USER", "root")
	pass := os.Getenv("DB_PASSWORD")
	name := envOr("DB_NAME", "canteen")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
	return gorm.Open(mysql.Open(dsn), cfg)
}

// NewClock membangun clock aplikasi dari environment: zona waktu tetap dari
// APP_TIMEZONE plus offset koreksi NTP opsional dari CLOCK_OFFSET_MS.
func NewClock() (utils.SystemClock, error) {
	tz := envOr("APP_TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return utils.SystemClock{}, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}

	clock := utils.NewSystemClock(loc)
	if raw := os.Getenv("CLOCK_OFFSET_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return utils.SystemClock{}, fmt.Errorf("invalid CLOCK_OFFSET_MS %q: %w", raw, err)
		}
		clock.Offset = time.Duration(ms) * time.Millisecond
	}
	return clock, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
