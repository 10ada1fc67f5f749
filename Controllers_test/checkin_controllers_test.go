package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/controllers"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

func setupCheckinRouter(db *gorm.DB, clock utils.Clock, actorID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	checkinSvc := services.NewCheckinService(db, clock)
	checkinCtrl := controllers.NewCheckinController(db, checkinSvc)

	auth := router.Group("/", fakeAuth(actorID, role))
	auth.POST("/checkin", checkinCtrl.CheckIn)
	return router
}

func seedCheckinOrder(db *gorm.DB, date string) (models.User, models.Order) {
	user := models.User{Name: "Budi", Email: "budi-checkin@corp.example", Password: "x", Role: models.RoleEmployee}
	db.Create(&user)
	shift := models.Shift{Name: "Day", StartTime: "08:00", EndTime: "16:00", IsActive: true}
	db.Create(&shift)

	orderDate, _ := utils.ParseLocalDate(date, testLoc)
	activeKey := models.ActiveOrderKey(user.ID, orderDate)
	order := models.Order{
		UserID:    user.ID,
		ShiftID:   shift.ID,
		OrderDate: orderDate,
		OrderedAt: orderDate.Add(-24 * time.Hour),
		Status:    models.OrderStatusOrdered,
		QRToken:   "checkin-token-" + date,
		ActiveKey: &activeKey,
	}
	db.Create(&order)
	return user, order
}

func TestCheckinEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB("ctrl_checkin_ok")
	_, order := seedCheckinOrder(db, "2025-01-10")

	clock := fixedClock{now: time.Date(2025, 1, 10, 12, 0, 0, 0, testLoc)}
	router := setupCheckinRouter(db, clock, 50, models.RoleKitchen)

	w := doJSON(router, "POST", "/checkin", map[string]interface{}{
		"qr_token": order.QRToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Meal picked up", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "PICKED_UP", data["status"])
	assert.Equal(t, float64(50), data["checked_in_by"])

	// Scan kedua di QR yang sama ditolak
	w = doJSON(router, "POST", "/checkin", map[string]interface{}{
		"qr_token": order.QRToken,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	detail := resp["data"].(map[string]interface{})
	assert.Equal(t, "ALREADY_CHECKED_IN", detail["kind"])
}

func TestCheckinEndpointOutsideWindow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB("ctrl_checkin_window")
	_, order := seedCheckinOrder(db, "2025-01-10")

	// Jam 06:00, jauh sebelum grace 07:30
	clock := fixedClock{now: time.Date(2025, 1, 10, 6, 0, 0, 0, testLoc)}
	router := setupCheckinRouter(db, clock, 50, models.RoleKitchen)

	w := doJSON(router, "POST", "/checkin", map[string]interface{}{
		"qr_token": order.QRToken,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	detail := resp["data"].(map[string]interface{})
	assert.Equal(t, "CHECKIN_TOO_EARLY", detail["kind"])
	assert.NotEmpty(t, detail["boundary"])
}

func TestCheckinEndpointUnknownToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB("ctrl_checkin_unknown")

	clock := fixedClock{now: time.Date(2025, 1, 10, 12, 0, 0, 0, testLoc)}
	router := setupCheckinRouter(db, clock, 50, models.RoleKitchen)

	w := doJSON(router, "POST", "/checkin", map[string]interface{}{
		"qr_token": "no-such-token",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
