package routes

import (
	"net/http"

	"github.com/Gambit142/Community-Connect-sub000/controllers"
	"github.com/Gambit142/Community-Connect-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, rc *controllers.RegistrationController, wc *controllers.WebhookController, nc *controllers.NotificationController) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	events := r.Group("/events")
	events.Use(middleware.AuthMiddleware())
	events.POST("/:id/register", rc.Register)
	events.GET("/:id/orders/count", rc.CountEventOrders)

	registrations := r.Group("/registrations")
	registrations.Use(middleware.AuthMiddleware())
	registrations.GET("/:id", rc.GetOrder)

	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	notifications.GET("", nc.List)

	// Stripe webhook (signature-authenticated, no identity header)
	r.POST("/stripe/webhook", wc.HandleStripeWebhook)
}
