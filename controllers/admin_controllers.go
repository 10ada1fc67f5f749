package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

type AdminController struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewAdminController(db *gorm.DB, clock utils.Clock) *AdminController {
	return &AdminController{DB: db, Clock: clock}
}

// GetDashboardStats -> ringkasan operasional untuk dashboard admin.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := ac.Clock.Today()

	var stats struct {
		TodayByStatus []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		} `json:"today_by_status"`
		TodayByShift []struct {
			ShiftID   uint   `json:"shift_id"`
			ShiftName string `json:"shift_name"`
			Count     int64  `json:"count"`
		} `json:"today_by_shift"`
		ActiveBlacklists int64 `json:"active_blacklists"`
		StrikeLeaders    []struct {
			UserID      uint   `json:"user_id"`
			Name        string `json:"name"`
			NoShowCount int    `json:"no_show_count"`
		} `json:"strike_leaders"`
	}

	ac.DB.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Where("order_date = ?", today).
		Group("status").
		Scan(&stats.TodayByStatus)

	ac.DB.Raw(`
		SELECT s.id as shift_id, s.name as shift_name, COUNT(o.id) as count
		FROM orders o
		JOIN shifts s ON o.shift_id = s.id
		WHERE o.order_date = ? AND o.status != ?
		GROUP BY s.id, s.name
		ORDER BY count DESC
	`, today, models.OrderStatusCancelled).Scan(&stats.TodayByShift)

	ac.DB.Model(&models.Blacklist{}).
		Where("is_active = ? AND (end_date IS NULL OR end_date > ?)", true, ac.Clock.Now()).
		Count(&stats.ActiveBlacklists)

	ac.DB.Model(&models.User{}).
		Select("id as user_id, name, no_show_count").
		Where("no_show_count > 0").
		Order("no_show_count DESC").
		Limit(10).
		Scan(&stats.StrikeLeaders)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
