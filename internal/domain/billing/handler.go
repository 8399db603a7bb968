package billing

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitalsync/vitalsync/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/create-subscription", h.CreateSubscription)
	api.POST("/cancel-subscription", h.CancelSubscription)
	api.GET("/subscription-status", h.SubscriptionStatus)
}

// unconfigured is returned from every billing endpoint when no payment
// gateway was configured at startup.
func unconfigured(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{"reason": "billing_unconfigured"})
}

func (h *Handler) CreateSubscription(c echo.Context) error {
	if !h.svc.Enabled() {
		return unconfigured(c)
	}
	userID := auth.UserIDFromContext(c.Request().Context())

	intent, err := h.svc.CreateSubscription(c.Request().Context(), userID)
	if err != nil {
		return billingError(err)
	}
	return c.JSON(http.StatusOK, intent)
}

func (h *Handler) CancelSubscription(c echo.Context) error {
	if !h.svc.Enabled() {
		return unconfigured(c)
	}
	userID := auth.UserIDFromContext(c.Request().Context())

	u, err := h.svc.CancelSubscription(c.Request().Context(), userID)
	if err != nil {
		return billingError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": u.SubscriptionStatus,
	})
}

func (h *Handler) SubscriptionStatus(c echo.Context) error {
	if !h.svc.Enabled() {
		return unconfigured(c)
	}
	userID := auth.UserIDFromContext(c.Request().Context())

	status, err := h.svc.Status(c.Request().Context(), userID)
	if err != nil {
		return billingError(err)
	}
	return c.JSON(http.StatusOK, status)
}

func billingError(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrMissingEmail),
		errors.Is(err, ErrAlreadySubscribed),
		errors.Is(err, ErrNoActiveSubscription):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
