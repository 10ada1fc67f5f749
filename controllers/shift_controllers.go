package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

type ShiftController struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewShiftController(db *gorm.DB, clock utils.Clock) *ShiftController {
	return &ShiftController{DB: db, Clock: clock}
}

type shiftRequest struct {
	Name           string  `json:"name" binding:"required"`
	StartTime      string  `json:"start_time" binding:"required"`
	EndTime        string  `json:"end_time" binding:"required"`
	BreakStartTime *string `json:"break_start_time"`
	BreakEndTime   *string `json:"break_end_time"`
	IsActive       *bool   `json:"is_active"`
	MealPrice      float64 `json:"meal_price"`
}

// validateShiftTimes menolak jam yang tidak bisa diparse di sini, bukan di
// kalkulator jendela: format jam adalah kontrak input.
func validateShiftTimes(req *shiftRequest) error {
	if _, _, err := utils.ParseClockTime(req.StartTime); err != nil {
		return err
	}
	if _, _, err := utils.ParseClockTime(req.EndTime); err != nil {
		return err
	}
	if (req.BreakStartTime == nil) != (req.BreakEndTime == nil) {
		return &CustomError{"break_start_time and break_end_time must be set together"}
	}
	if req.BreakStartTime != nil {
		if _, _, err := utils.ParseClockTime(*req.BreakStartTime); err != nil {
			return err
		}
		if _, _, err := utils.ParseClockTime(*req.BreakEndTime); err != nil {
			return err
		}
	}
	return nil
}

func (sc *ShiftController) GetAllShifts(c *gin.Context) {
	query := sc.DB.Order("start_time asc")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var shifts []models.Shift
	if err := query.Find(&shifts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of shifts", shifts)
}

func (sc *ShiftController) GetShiftByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("shift_id"))

	var shift models.Shift
	if err := sc.DB.First(&shift, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Shift detail", gin.H{
		"shift":        shift,
		"is_overnight": shift.IsOvernight(),
	})
}

func (sc *ShiftController) CreateShift(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validateShiftTimes(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	shift := models.Shift{
		Name:           req.Name,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakStartTime: req.BreakStartTime,
		BreakEndTime:   req.BreakEndTime,
		IsActive:       true,
		MealPrice:      req.MealPrice,
	}
	if req.IsActive != nil {
		shift.IsActive = *req.IsActive
	}

	if err := sc.DB.Create(&shift).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Shift created", shift)
}

func (sc *ShiftController) UpdateShift(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("shift_id"))

	var shift models.Shift
	if err := sc.DB.First(&shift, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validateShiftTimes(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	shift.Name = req.Name
	shift.StartTime = req.StartTime
	shift.EndTime = req.EndTime
	shift.BreakStartTime = req.BreakStartTime
	shift.BreakEndTime = req.BreakEndTime
	shift.MealPrice = req.MealPrice
	if req.IsActive != nil {
		shift.IsActive = *req.IsActive
	}

	if err := sc.DB.Save(&shift).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Shift updated", shift)
}

func (sc *ShiftController) DeleteShift(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("shift_id"))

	// Shift dengan order hidup tidak boleh hilang begitu saja; nonaktifkan.
	var count int64
	sc.DB.Model(&models.Order{}).
		Where("shift_id = ? AND status = ?", id, models.OrderStatusOrdered).
		Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict,
			&CustomError{"shift still has open orders, deactivate it instead"})
		return
	}

	if err := sc.DB.Delete(&models.Shift{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Shift deleted", gin.H{"shift_id": id})
}

// GetShiftWindow -> pratinjau jendela absolut sebuah shift pada satu tanggal,
// berguna buat admin mengecek shift overnight.
func (sc *ShiftController) GetShiftWindow(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("shift_id"))

	var shift models.Shift
	if err := sc.DB.First(&shift, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	date, err := utils.ParseLocalDate(c.Query("date"), sc.Clock.Location())
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	window, err := services.ComputeShiftWindow(&shift, date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Shift window", gin.H{
		"start":       window.Start,
		"end":         window.End,
		"break_start": window.BreakStart,
		"break_end":   window.BreakEnd,
	})
}
