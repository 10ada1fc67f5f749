package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

type HolidayController struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewHolidayController(db *gorm.DB, clock utils.Clock) *HolidayController {
	return &HolidayController{DB: db, Clock: clock}
}

func (hc *HolidayController) GetAllHolidays(c *gin.Context) {
	query := hc.DB.Preload("Shift").Order("date asc")

	if from := c.Query("from"); from != "" {
		date, err := utils.ParseLocalDate(from, hc.Clock.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		query = query.Where("date >= ?", date)
	}

	var holidays []models.Holiday
	if err := query.Find(&holidays).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of holidays", holidays)
}

func (hc *HolidayController) CreateHoliday(c *gin.Context) {
	type ReqBody struct {
		Name    string `json:"name" binding:"required"`
		Date    string `json:"date" binding:"required"`
		ShiftID *uint  `json:"shift_id"` // nil = libur semua shift
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date, err := utils.ParseLocalDate(body.Date, hc.Clock.Location())
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.ShiftID != nil {
		var shift models.Shift
		if err := hc.DB.First(&shift, *body.ShiftID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
	}

	holiday := models.Holiday{
		Name:     body.Name,
		Date:     date,
		ShiftID:  body.ShiftID,
		IsActive: true,
	}
	if err := hc.DB.Create(&holiday).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Holiday created", holiday)
}

func (hc *HolidayController) UpdateHoliday(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("holiday_id"))

	var holiday models.Holiday
	if err := hc.DB.First(&holiday, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type ReqBody struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		holiday.Name = *body.Name
	}
	if body.IsActive != nil {
		holiday.IsActive = *body.IsActive
	}

	if err := hc.DB.Save(&holiday).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Holiday updated", holiday)
}

func (hc *HolidayController) DeleteHoliday(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("holiday_id"))

	if err := hc.DB.Delete(&models.Holiday{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Holiday deleted", gin.H{"holiday_id": id})
}
