package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := models.GetSettings(sc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

// UpdateSettings -> admin mengubah baris singleton. Field dua mode boleh
// dikirim bersamaan; yang berlaku tetap ditentukan cutoff_mode.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	settings, err := models.GetSettings(sc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type ReqBody struct {
		CutoffMode            *string `json:"cutoff_mode"`
		CutoffDays            *int    `json:"cutoff_days"`
		CutoffHours           *int    `json:"cutoff_hours"`
		WeeklyCutoffDay       *int    `json:"weekly_cutoff_day"`
		WeeklyCutoffHour      *int    `json:"weekly_cutoff_hour"`
		WeeklyCutoffMinute    *int    `json:"weekly_cutoff_minute"`
		OrderableDays         *string `json:"orderable_days"`
		MaxWeeksAhead         *int    `json:"max_weeks_ahead"`
		MaxOrderDaysAhead     *int    `json:"max_order_days_ahead"`
		BlacklistStrikes      *int    `json:"blacklist_strikes"`
		BlacklistDurationDays *int    `json:"blacklist_duration_days"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CutoffMode != nil {
		if *body.CutoffMode != models.CutoffModePerShift && *body.CutoffMode != models.CutoffModeWeekly {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"cutoff_mode must be PER_SHIFT or WEEKLY"})
			return
		}
		settings.CutoffMode = *body.CutoffMode
	}
	if body.CutoffDays != nil {
		settings.CutoffDays = *body.CutoffDays
	}
	if body.CutoffHours != nil {
		settings.CutoffHours = *body.CutoffHours
	}
	if body.WeeklyCutoffDay != nil {
		if *body.WeeklyCutoffDay < 0 || *body.WeeklyCutoffDay > 6 {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"weekly_cutoff_day must be 0-6"})
			return
		}
		settings.WeeklyCutoffDay = *body.WeeklyCutoffDay
	}
	if body.WeeklyCutoffHour != nil {
		settings.WeeklyCutoffHour = *body.WeeklyCutoffHour
	}
	if body.WeeklyCutoffMinute != nil {
		settings.WeeklyCutoffMinute = *body.WeeklyCutoffMinute
	}
	if body.OrderableDays != nil {
		settings.OrderableDays = *body.OrderableDays
	}
	if body.MaxWeeksAhead != nil {
		settings.MaxWeeksAhead = *body.MaxWeeksAhead
	}
	if body.MaxOrderDaysAhead != nil {
		settings.MaxOrderDaysAhead = *body.MaxOrderDaysAhead
	}
	if body.BlacklistStrikes != nil {
		settings.BlacklistStrikes = *body.BlacklistStrikes
	}
	if body.BlacklistDurationDays != nil {
		settings.BlacklistDurationDays = *body.BlacklistDurationDays
	}

	if err := sc.DB.Save(settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings updated", settings)
}
