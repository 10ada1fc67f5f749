package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

type CheckinController struct {
	DB       *gorm.DB
	Checkins *services.CheckinService
}

func NewCheckinController(db *gorm.DB, checkins *services.CheckinService) *CheckinController {
	return &CheckinController{DB: db, Checkins: checkins}
}

// CheckIn -> dapur scan QR karyawan; sukses menandai order PICKED_UP.
func (cc *CheckinController) CheckIn(c *gin.Context) {
	actorID := c.GetUint("user_id")

	type ReqBody struct {
		QRToken string `json:"qr_token" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.Checkins.CheckIn(body.QRToken, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meal picked up", order)
}
