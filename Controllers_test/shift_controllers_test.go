package Controllers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/controllers"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

func setupShiftRouter(db *gorm.DB, clock utils.Clock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	shiftCtrl := controllers.NewShiftController(db, clock)
	router.GET("/shifts", shiftCtrl.GetAllShifts)
	router.GET("/shifts/:shift_id", shiftCtrl.GetShiftByID)

	admin := router.Group("/admin", fakeAuth(1, models.RoleAdmin))
	admin.POST("/shifts", shiftCtrl.CreateShift)
	admin.PUT("/shifts/:shift_id", shiftCtrl.UpdateShift)
	admin.DELETE("/shifts/:shift_id", shiftCtrl.DeleteShift)
	admin.GET("/shifts/:shift_id/window", shiftCtrl.GetShiftWindow)
	return router
}

func TestShiftCRUD(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB("ctrl_shift_crud")
	clock := fixedClock{now: time.Date(2025, 1, 9, 9, 0, 0, 0, testLoc)}
	router := setupShiftRouter(db, clock)

	w := doJSON(router, "POST", "/admin/shifts", map[string]interface{}{
		"name":       "Night",
		"start_time": "22:00",
		"end_time":   "06:00",
		"meal_price": 30000,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	shiftID := strconv.Itoa(int(resp["data"].(map[string]interface{})["id"].(float64)))

	// Detail melaporkan overnight yang diturunkan dari jam
	w = doJSON(router, "GET", "/shifts/"+shiftID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	detail := resp["data"].(map[string]interface{})
	assert.Equal(t, true, detail["is_overnight"])

	w = doJSON(router, "PUT", "/admin/shifts/"+shiftID, map[string]interface{}{
		"name":       "Night",
		"start_time": "21:00",
		"end_time":   "05:00",
		"meal_price": 30000,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", "/admin/shifts/"+shiftID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShiftCreateRejectsBadTimes(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB("ctrl_shift_bad_times")
	clock := fixedClock{now: time.Date(2025, 1, 9, 9, 0, 0, 0, testLoc)}
	router := setupShiftRouter(db, clock)

	w := doJSON(router, "POST", "/admin/shifts", map[string]interface{}{
		"name": "Broken", "start_time": "25:00", "end_time": "16:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Break harus lengkap sepasang
	w = doJSON(router, "POST", "/admin/shifts", map[string]interface{}{
		"name": "HalfBreak", "start_time": "08:00", "end_time": "16:00",
		"break_start_time": "12:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShiftDeleteBlockedByOpenOrders(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB("ctrl_shift_delete_block")
	clock := fixedClock{now: time.Date(2025, 1, 9, 9, 0, 0, 0, testLoc)}
	router := setupShiftRouter(db, clock)

	user := models.User{Name: "Budi", Email: "budi-shift@corp.example", Password: "x", Role: models.RoleEmployee}
	db.Create(&user)
	shift := models.Shift{Name: "Day", StartTime: "08:00", EndTime: "16:00", IsActive: true}
	db.Create(&shift)

	orderDate, _ := utils.ParseLocalDate("2025-01-10", testLoc)
	activeKey := models.ActiveOrderKey(user.ID, orderDate)
	db.Create(&models.Order{
		UserID: user.ID, ShiftID: shift.ID, OrderDate: orderDate,
		OrderedAt: clock.Now(), Status: models.OrderStatusOrdered,
		QRToken: "shift-delete-token", ActiveKey: &activeKey,
	})

	w := doJSON(router, "DELETE", "/admin/shifts/"+strconv.Itoa(int(shift.ID)), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestShiftWindowPreview(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB("ctrl_shift_window")
	clock := fixedClock{now: time.Date(2025, 1, 9, 9, 0, 0, 0, testLoc)}
	router := setupShiftRouter(db, clock)

	shift := models.Shift{Name: "Night", StartTime: "22:00", EndTime: "06:00", IsActive: true}
	db.Create(&shift)

	w := doJSON(router, "GET", "/admin/shifts/"+strconv.Itoa(int(shift.ID))+"/window?date=2025-01-10", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	start, err := time.Parse(time.RFC3339, data["start"].(string))
	assert.NoError(t, err)
	end, err := time.Parse(time.RFC3339, data["end"].(string))
	assert.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 1, 10, 22, 0, 0, 0, testLoc)))
	assert.True(t, end.Equal(time.Date(2025, 1, 11, 6, 0, 0, 0, testLoc)))
}
