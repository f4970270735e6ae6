package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/services"
	"github.com/bistroboard/bistroboard/utils"
)

type UserController struct {
	DB    *gorm.DB
	Cache *services.QueryCache
}

func NewUserController(db *gorm.DB, cache *services.QueryCache) *UserController {
	return &UserController{DB: db, Cache: cache}
}

// Register a new user
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"` // admin, staff, chef, cleaner
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
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

// Login -> JWT token. Suspended users are rejected until their suspension
// is lifted.
func (uc *UserController) Login(c *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	if user.IsSuspended {
		utils.RespondError(c, http.StatusForbidden, errors.New("account is suspended"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login success", gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout revokes the presented token.
func (uc *UserController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> the authenticated user's own record.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

// GetAllUsers -> admin list with text filter and pagination.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	cached, err := uc.Cache.Fetch("users:all", func() (interface{}, error) {
		var users []models.User
		if err := uc.DB.Order("created_at desc").Find(&users).Error; err != nil {
			return nil, err
		}
		return users, nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	users := cached.([]models.User)

	search, page, perPage := listParams(c)
	filtered := utils.FilterRows(users, search, func(u models.User) []string {
		return []string{u.Name, u.Email, u.Role}
	})
	pageItems, total := utils.Paginate(filtered, page, perPage)

	utils.RespondJSON(c, http.StatusOK, "List of users", pageResponse(pageItems, total, page, perPage))
}

// SuspendUser sets is_suspended and stamps suspended_at, with an optional
// reason and until timestamp.
func (uc *UserController) SuspendUser(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}

	type ReqBody struct {
		Reason string     `json:"reason"`
		Until  *time.Time `json:"until"`
	}
	var body ReqBody
	_ = c.ShouldBindJSON(&body)

	now := time.Now()
	user.IsSuspended = true
	user.SuspendedAt = &now
	user.SuspendedUntil = body.Until
	if body.Reason != "" {
		user.SuspendedReason = &body.Reason
	} else {
		user.SuspendedReason = nil
	}

	if err := uc.saveSuspension(&user); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	uc.Cache.InvalidatePrefix("users:")
	utils.RespondJSON(c, http.StatusOK, "User suspended", user)
}

// UnsuspendUser clears all four suspension fields.
func (uc *UserController) UnsuspendUser(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}

	user.IsSuspended = false
	user.SuspendedAt = nil
	user.SuspendedReason = nil
	user.SuspendedUntil = nil

	if err := uc.saveSuspension(&user); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	uc.Cache.InvalidatePrefix("users:")
	utils.RespondJSON(c, http.StatusOK, "User unsuspended", user)
}

func (uc *UserController) loadUser(c *gin.Context) (models.User, bool) {
	var user models.User

	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id"))
		return user, false
	}

	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return user, false
	}
	return user, true
}

// saveSuspension writes all four suspension columns explicitly so clearing
// them to zero values is not skipped by gorm's struct updates.
func (uc *UserController) saveSuspension(user *models.User) error {
	return uc.DB.Model(user).Select("is_suspended", "suspended_at", "suspended_reason", "suspended_until").
		Updates(map[string]interface{}{
			"is_suspended":     user.IsSuspended,
			"suspended_at":     user.SuspendedAt,
			"suspended_reason": user.SuspendedReason,
			"suspended_until":  user.SuspendedUntil,
		}).Error
}
