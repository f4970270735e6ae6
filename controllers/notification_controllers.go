package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/live"
	"github.com/bistroboard/bistroboard/models"
	"github.com/bistroboard/bistroboard/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetAllNotifications
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	var notifications []models.Notification
	if err := nc.DB.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of notifications", notifications)
}

// CreateNotification -> stored and pushed to connected consoles
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type ReqBody struct {
		UserID  *uint   `json:"user_id"`
		Title   *string `json:"title"`
		Message string  `json:"message" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notification := models.Notification{
		UserID:    body.UserID,
		Title:     body.Title,
		Message:   body.Message,
		CreatedAt: time.Now(),
	}

	if err := nc.DB.Create(&notification).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastStaffNotification(notification.Message)

	utils.RespondJSON(c, http.StatusCreated, "Notification created", notification)
}

// GetNotificationByID
func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid notification id"))
		return
	}

	var notification models.Notification
	if err := nc.DB.First(&notification, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification detail", notification)
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid notification id"))
		return
	}

	if err := nc.DB.Delete(&models.Notification{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notification_id": id})
}
