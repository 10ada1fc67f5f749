package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/controllers"
	"github.com/yeremiapane/canteen-app/middlewares"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

func SetupRouter(db *gorm.DB, clock utils.Clock) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Service layer
	orderService := services.NewOrderService(db, clock)
	orderService.Capacity = services.NewCanteenCapacityChecker(db)
	checkinService := services.NewCheckinService(db, clock)
	noShowService := services.NewNoShowService(db, clock)

	loginLimiter := middlewares.NewFailedLoginLimiter(5, 15*time.Minute)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db, loginLimiter)
	orderCtrl := controllers.NewOrderController(db, orderService, noShowService)
	checkinCtrl := controllers.NewCheckinController(db, checkinService)
	shiftCtrl := controllers.NewShiftController(db, clock)
	holidayCtrl := controllers.NewHolidayController(db, clock)
	settingsCtrl := controllers.NewSettingsController(db)
	blacklistCtrl := controllers.NewBlacklistController(db, clock)
	canteenCtrl := controllers.NewCanteenController(db)
	adminCtrl := controllers.NewAdminController(db, clock)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Jadwal shift boleh dilihat tanpa login
	r.GET("/shifts", shiftCtrl.GetAllShifts)
	r.GET("/canteens", canteenCtrl.GetAllCanteens)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	// ORDERS (employee)
	auth.POST("/orders", orderCtrl.CreateOrder)
	auth.POST("/bulk-orders", orderCtrl.CreateBulkOrders)
	auth.GET("/me/orders", orderCtrl.GetMyOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

	// CHECK-IN (kitchen/admin scan QR)
	kitchen := auth.Group("/")
	kitchen.Use(middlewares.RequireRole(models.RoleKitchen))
	{
		kitchen.POST("/checkin", checkinCtrl.CheckIn)
		kitchen.GET("/kitchen/orders", orderCtrl.GetAllOrders)
	}

	// ADMIN
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.POST("/users/:user_id/reset-strikes", userCtrl.ResetNoShowCount)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.POST("/noshow/sweep", orderCtrl.RunNoShowSweep)

		admin.POST("/shifts", shiftCtrl.CreateShift)
		admin.GET("/shifts/:shift_id", shiftCtrl.GetShiftByID)
		admin.GET("/shifts/:shift_id/window", shiftCtrl.GetShiftWindow)
		admin.PATCH("/shifts/:shift_id", shiftCtrl.UpdateShift)
		admin.DELETE("/shifts/:shift_id", shiftCtrl.DeleteShift)

		admin.GET("/holidays", holidayCtrl.GetAllHolidays)
		admin.POST("/holidays", holidayCtrl.CreateHoliday)
		admin.PATCH("/holidays/:holiday_id", holidayCtrl.UpdateHoliday)
		admin.DELETE("/holidays/:holiday_id", holidayCtrl.DeleteHoliday)

		admin.GET("/settings", settingsCtrl.GetSettings)
		admin.PATCH("/settings", settingsCtrl.UpdateSettings)

		admin.GET("/blacklists", blacklistCtrl.GetAllBlacklists)
		admin.POST("/blacklists", blacklistCtrl.CreateBlacklist)
		admin.POST("/blacklists/:blacklist_id/lift", blacklistCtrl.LiftBlacklist)
		admin.POST("/blacklists/expire", blacklistCtrl.ExpireBlacklists)

		admin.POST("/canteens", canteenCtrl.CreateCanteen)
		admin.PATCH("/canteens/:canteen_id", canteenCtrl.UpdateCanteen)

		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	}

	// WebSocket endpoint untuk event broadcast
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/events", controllers.EventsHandler)
	}

	return r
}
