package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

type CanteenController struct {
	DB *gorm.DB
}

func NewCanteenController(db *gorm.DB) *CanteenController {
	return &CanteenController{DB: db}
}

func (cc *CanteenController) GetAllCanteens(c *gin.Context) {
	var canteens []models.Canteen
	if err := cc.DB.Find(&canteens).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of canteens", canteens)
}

func (cc *CanteenController) CreateCanteen(c *gin.Context) {
	type ReqBody struct {
		Name     string `json:"name" binding:"required"`
		Location string `json:"location"`
		Capacity int    `json:"capacity"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	canteen := models.Canteen{
		Name:     body.Name,
		Location: body.Location,
		Capacity: body.Capacity,
		IsActive: true,
	}
	if err := cc.DB.Create(&canteen).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Canteen created", canteen)
}

func (cc *CanteenController) UpdateCanteen(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("canteen_id"))

	var canteen models.Canteen
	if err := cc.DB.First(&canteen, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type ReqBody struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
		Capacity *int    `json:"capacity"`
		IsActive *bool   `json:"is_active"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		canteen.Name = *body.Name
	}
	if body.Location != nil {
		canteen.Location = *body.Location
	}
	if body.Capacity != nil {
		canteen.Capacity = *body.Capacity
	}
	if body.IsActive != nil {
		canteen.IsActive = *body.IsActive
	}

	if err := cc.DB.Save(&canteen).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Canteen updated", canteen)
}
