package controllers

import (
	"errors"
	"net/http"

	"github.com/Gambit142/Community-Connect-sub000/middleware"
	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"
	"github.com/Gambit142/Community-Connect-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegistrationController struct {
	Service *services.RegistrationService
	Orders  repository.OrderRepository
	Logger  *zap.Logger
}

// Register handles POST /events/:id/register.
func (rc *RegistrationController) Register(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := rc.Service.Register(c.Request.Context(), userID, eventID, &req)
	if err != nil {
		rc.respondRegistrationError(c, err)
		return
	}

	if result.Order != nil && result.Order.Status == models.OrderStatusCompleted {
		c.JSON(http.StatusCreated, gin.H{
			"event": result.Event,
			"order": result.Order,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":   result.SessionID,
		"redirect_url": result.RedirectURL,
	})
}

// GetOrder handles GET /registrations/:id. Users can only read their own
// orders.
func (rc *RegistrationController) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := rc.Orders.FindByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		rc.Logger.Error("Failed to load order", zap.String("order_id", orderID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	if order.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CountEventOrders handles GET /events/:id/orders/count, a small read surface
// for organizer dashboards.
func (rc *RegistrationController) CountEventOrders(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	count, err := rc.Orders.CountByEvent(c.Request.Context(), eventID, models.OrderStatusCompleted)
	if err != nil {
		rc.Logger.Error("Failed to count orders", zap.String("event_id", eventID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "completed_orders": count})
}

func (rc *RegistrationController) respondRegistrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEventNotBookable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyRegistered), errors.Is(err, services.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGateway):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable, please try again"})
	default:
		rc.Logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
	}
}
