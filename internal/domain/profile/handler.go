package profile

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
	api.POST("/onboarding", h.CompleteOnboarding)
	api.GET("/health-profile", h.GetProfile)
	api.PUT("/health-profile", h.UpsertProfile)
	api.GET("/health-plan", h.GetPlan)
	api.POST("/health-plan/generate", h.RegeneratePlan)
}

func (h *Handler) CompleteOnboarding(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	var in ProfileInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.CompleteOnboarding(c.Request().Context(), userID, in)
	if err != nil {
		return profileError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return profileError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpsertProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	var in ProfileInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.UpsertProfile(c.Request().Context(), userID, in)
	if err != nil {
		return profileError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPlan(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.GetPlan(c.Request().Context(), userID)
	if err != nil {
		return profileError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) RegeneratePlan(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.RegeneratePlan(c.Request().Context(), userID)
	if err != nil {
		return profileError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func profileError(err error) error {
	switch {
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrPlanNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
