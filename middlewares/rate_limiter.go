package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/canteen-app/utils"
)

// RateLimiter membatasi request per IP dengan sliding window sederhana.
//
// Available memutuskan perilaku saat limiter sengaja dimatikan (mis. backend
// penyimpanan counter tidak tersedia di sebuah deployment): fail-open harus
// keputusan konfigurasi eksplisit, bukan default diam-diam.
type RateLimiter struct {
	rate      int
	interval  time.Duration
	ips       map[string][]time.Time
	mu        sync.Mutex
	Available bool
}

func NewRateLimiter(rate int, intervalSeconds int) *RateLimiter {
	return &RateLimiter{
		rate:      rate,
		interval:  time.Duration(intervalSeconds) * time.Second,
		ips:       make(map[string][]time.Time),
		Available: true,
	}
}

// NewStrictRateLimiter untuk endpoint login/register: 5 request per menit.
func NewStrictRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(1*time.Minute), 5)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many attempts, please wait a moment",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Available {
			// Fail-open yang disengaja; tercatat supaya tidak tak terlihat.
			utils.InfoLogger.Printf("rate limiter unavailable, letting %s through", c.ClientIP())
			c.Next()
			return
		}

		ip := c.ClientIP()

		rl.mu.Lock()
		defer rl.mu.Unlock()

		now := time.Now()
		if _, exists := rl.ips[ip]; !exists {
			rl.ips[ip] = []time.Time{now}
			c.Next()
			return
		}

		requests := rl.ips[ip]
		cutoff := now.Add(-rl.interval)
		valid := make([]time.Time, 0)

		for _, t := range requests {
			if t.After(cutoff) {
				valid = append(valid, t)
			}
		}

		if len(valid) >= rl.rate {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		rl.ips[ip] = append(valid, now)
		c.Next()
	}
}

// FailedLoginLimiter menghitung percobaan login gagal per identitas (email),
// terpisah dari limiter per-IP supaya penyerang tidak bisa berganti alamat.
type FailedLoginLimiter struct {
	window    time.Duration
	max       int
	attempts  map[string][]time.Time
	mu        sync.Mutex
	Available bool
}

func NewFailedLoginLimiter(max int, window time.Duration) *FailedLoginLimiter {
	return &FailedLoginLimiter{
		window:    window,
		max:       max,
		attempts:  make(map[string][]time.Time),
		Available: true,
	}
}

// Blocked reports whether the identity has exhausted its attempts.
func (fl *FailedLoginLimiter) Blocked(identity string) bool {
	if !fl.Available {
		return false
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	cutoff := time.Now().Add(-fl.window)
	valid := fl.attempts[identity][:0]
	for _, t := range fl.attempts[identity] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	fl.attempts[identity] = valid
	return len(valid) >= fl.max
}

// RecordFailure mencatat satu percobaan gagal untuk identitas tersebut.
func (fl *FailedLoginLimiter) RecordFailure(identity string) {
	if !fl.Available {
		return
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.attempts[identity] = append(fl.attempts[identity], time.Now())
}

// Reset menghapus catatan setelah login sukses.
func (fl *FailedLoginLimiter) Reset(identity string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	delete(fl.attempts, identity)
}
