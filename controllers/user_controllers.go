package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/middlewares"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

type UserController struct {
	DB           *gorm.DB
	LoginLimiter *middlewares.FailedLoginLimiter
}

func NewUserController(db *gorm.DB, loginLimiter *middlewares.FailedLoginLimiter) *UserController {
	return &UserController{DB: db, LoginLimiter: loginLimiter}
}

// Register user baru
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"` // admin, kitchen, employee
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleEmployee
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	identity := strings.ToLower(input.Email)
	if uc.LoginLimiter != nil && uc.LoginLimiter.Blocked(identity) {
		utils.RespondError(c, http.StatusTooManyRequests, errors.New("too many failed attempts, try again later"))
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if uc.LoginLimiter != nil {
			uc.LoginLimiter.RecordFailure(identity)
		}
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		if uc.LoginLimiter != nil {
			uc.LoginLimiter.RecordFailure(identity)
		}
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if uc.LoginLimiter != nil {
		uc.LoginLimiter.Reset(identity)
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(user.Role),
	})
}

// Logout -> revoke token yang dipakai sekarang
func (uc *UserController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		utils.RevokeToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> data user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"role":          user.Role,
		"no_show_count": user.NoShowCount,
	})
}

// GetAllUsers -> khusus admin
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// ResetNoShowCount -> aksi admin eksplisit, satu-satunya jalur reset strike.
func (uc *UserController) ResetNoShowCount(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := uc.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("no_show_count", 0)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.InfoLogger.Printf("Strike counter reset for user %d by admin %d", userID, c.GetUint("user_id"))
	utils.RespondJSON(c, http.StatusOK, "No-show counter reset", gin.H{"user_id": userID})
}
