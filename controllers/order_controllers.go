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

type OrderController struct {
	DB      *gorm.DB
	Orders  *services.OrderService
	NoShows *services.NoShowService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService, noShows *services.NoShowService) *OrderController {
	return &OrderController{DB: db, Orders: orders, NoShows: noShows}
}

// CreateOrder -> pesan satu makan untuk satu (tanggal, shift)
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	type ReqBody struct {
		ShiftID   uint   `json:"shift_id" binding:"required"`
		Date      string `json:"date" binding:"required"`
		CanteenID *uint  `json:"canteen_id"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, qr, err := oc.Orders.CreateOrder(services.CreateOrderInput{
		UserID:    userID,
		ShiftID:   body.ShiftID,
		Date:      body.Date,
		CanteenID: body.CanteenID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order": order,
		"qr":    qr,
	})
}

// CreateBulkOrders -> banyak kandidat (tanggal, shift) sekaligus, partial
// success: kandidat yang gagal dilaporkan satu per satu tanpa menggagalkan
// yang lain.
func (oc *OrderController) CreateBulkOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	type ReqBody struct {
		Candidates []services.BulkCandidate `json:"candidates" binding:"required"`
		CanteenID  *uint                    `json:"canteen_id"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.Orders.CreateBulkOrders(userID, body.Candidates, body.CanteenID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bulk order processed", result)
}

// CancelOrder -> batalkan order milik sendiri (admin boleh order siapa pun)
func (oc *OrderController) CancelOrder(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	type ReqBody struct {
		Reason string `json:"reason"`
	}
	var body ReqBody
	_ = c.ShouldBindJSON(&body)

	privileged := role == models.RoleAdmin
	order, err := oc.Orders.CancelOrder(uint(orderID), userID, privileged, body.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// GetMyOrders -> daftar order milik user yang login, opsional difilter rentang tanggal
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := oc.DB.Preload("Shift").Preload("Canteen").
		Where("user_id = ?", userID).
		Order("order_date DESC")

	if from := c.Query("from"); from != "" {
		date, err := utils.ParseLocalDate(from, oc.Orders.Clock.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		query = query.Where("order_date >= ?", date)
	}
	if to := c.Query("to"); to != "" {
		date, err := utils.ParseLocalDate(to, oc.Orders.Clock.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		query = query.Where("order_date <= ?", date)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

// GetAllOrders -> list order untuk admin/kitchen, filter status & tanggal
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("User").Preload("Shift").Preload("Canteen").
		Order("order_date DESC, id DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		parsed, err := utils.ParseLocalDate(date, oc.Orders.Clock.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		query = query.Where("order_date = ?", parsed)
	}
	if shiftID := c.Query("shift_id"); shiftID != "" {
		query = query.Where("shift_id = ?", shiftID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail 1 order. Employee hanya boleh melihat miliknya.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.Preload("User").Preload("Shift").Preload("Canteen").
		First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	role := c.GetString("role")
	if role == models.RoleEmployee && order.UserID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// RunNoShowSweep -> jalankan sweep no-show secara manual (admin)
func (oc *OrderController) RunNoShowSweep(c *gin.Context) {
	result, err := oc.NoShows.RunSweep()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "No-show sweep finished", result)
}
