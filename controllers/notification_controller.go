package controllers

import (
	"net/http"
	"strconv"

	"github.com/Gambit142/Community-Connect-sub000/middleware"
	"github.com/Gambit142/Community-Connect-sub000/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	Notifications repository.NotificationRepository
	Logger        *zap.Logger
}

// List handles GET /notifications, the paginated notification list for the
// authenticated user.
func (nc *NotificationController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	userID := middleware.GetUserID(c)
	notifications, total, err := nc.Notifications.ListByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		nc.Logger.Error("Failed to list notifications", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}
