package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

type BlacklistController struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewBlacklistController(db *gorm.DB, clock utils.Clock) *BlacklistController {
	return &BlacklistController{DB: db, Clock: clock}
}

// GetAllBlacklists -> daftar blacklist; ?active=true memakai predikat lazy,
// bukan flag is_active mentah.
func (bc *BlacklistController) GetAllBlacklists(c *gin.Context) {
	query := bc.DB.Preload("User").Order("start_date DESC")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ? AND (end_date IS NULL OR end_date > ?)",
			true, bc.Clock.Now())
	}

	var entries []models.Blacklist
	if err := query.Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of blacklists", entries)
}

// CreateBlacklist -> jalur manual admin; end_date boleh kosong yang berarti
// penangguhan tanpa batas.
func (bc *BlacklistController) CreateBlacklist(c *gin.Context) {
	type ReqBody struct {
		UserID  uint   `json:"user_id" binding:"required"`
		Reason  string `json:"reason" binding:"required"`
		EndDate string `json:"end_date"` // "YYYY-MM-DD", kosong = indefinite
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := bc.DB.First(&user, body.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	now := bc.Clock.Now()
	if existing, err := services.ActiveBlacklist(bc.DB, body.UserID, now); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	} else if existing != nil {
		utils.RespondError(c, http.StatusConflict, &CustomError{"user already has an active blacklist"})
		return
	}

	activeKey := models.ActiveBlacklistKey(body.UserID)
	entry := models.Blacklist{
		UserID:    body.UserID,
		Reason:    body.Reason,
		StartDate: now,
		IsActive:  true,
		ActiveKey: &activeKey,
	}
	if body.EndDate != "" {
		endDate, err := utils.ParseLocalDate(body.EndDate, bc.Clock.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		entry.EndDate = &endDate
	}

	// Baris kadaluarsa yang belum disapu masih memegang active_key.
	if _, err := services.ExpireBlacklists(bc.DB, now); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := bc.DB.Create(&entry).Error; err != nil {
		// Unique index di active_key: kalah balapan dengan sweep no-show.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, &CustomError{"user already has an active blacklist"})
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Blacklist created", entry)
}

// LiftBlacklist -> admin mencabut penangguhan lebih awal.
func (bc *BlacklistController) LiftBlacklist(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("blacklist_id"))

	var entry models.Blacklist
	if err := bc.DB.First(&entry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	entry.IsActive = false
	entry.ActiveKey = nil
	if err := bc.DB.Save(&entry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Blacklist lifted", entry)
}

// ExpireBlacklists -> sweep manual untuk membalik is_active yang kadaluarsa.
func (bc *BlacklistController) ExpireBlacklists(c *gin.Context) {
	flipped, err := services.ExpireBlacklists(bc.DB, bc.Clock.Now())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Expired blacklists swept", gin.H{"flipped": flipped})
}
