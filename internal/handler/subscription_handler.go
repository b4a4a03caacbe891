package handler

import (
	"net/http"

	"bizledger/internal/middleware"
	"bizledger/internal/service"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	jwtSecret           []byte
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService, jwtSecret []byte) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, jwtSecret: jwtSecret}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	subscription := router.Group("/api/subscription", middleware.RequireAuth(h.jwtSecret))
	{
		subscription.GET("/status", h.GetStatus)
		subscription.POST("/upgrade", h.Upgrade)
	}
}

// GetStatus returns the account tier and quota usage
// @Summary      Subscription status
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.SubscriptionStatusResponse}
// @Router       /api/subscription/status [get]
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	status, err := h.subscriptionService.GetStatus(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}

// Upgrade records a confirmed premium purchase on the account
// @Summary      Upgrade to premium
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/subscription/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	user, err := h.subscriptionService.Upgrade(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
