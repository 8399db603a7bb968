package insights

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitalsync/vitalsync/internal/platform/auth"
	"github.com/vitalsync/vitalsync/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/health-insights", h.List)
	api.GET("/health-insights/category/:category", h.ListByCategory)
	api.GET("/health-insights/exam/:examId", h.ListByExam)
	api.POST("/health-insights/generate", h.Generate)
	api.POST("/health-insights/:id/dismiss", h.Dismiss)
	api.POST("/health-insights/:id/resolve", h.Resolve)
}

func (h *Handler) List(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListByUser(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) ListByCategory(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListByCategory(c.Request().Context(), userID, c.Param("category"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) ListByExam(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid exam id")
	}

	items, err := h.svc.ListByExam(c.Request().Context(), userID, examID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Generate(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	items, err := h.svc.GenerateFromProfile(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, items)
}

func (h *Handler) Dismiss(c echo.Context) error {
	return h.transition(c, h.svc.Dismiss)
}

func (h *Handler) Resolve(c echo.Context) error {
	return h.transition(c, h.svc.Resolve)
}

func (h *Handler) transition(c echo.Context, fn func(ctx context.Context, userID, id uuid.UUID) (*HealthInsight, error)) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ins, err := fn(c.Request().Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsightNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "insight not found")
		case errors.Is(err, ErrNotOwner):
			return echo.NewHTTPError(http.StatusForbidden, "insight belongs to another user")
		case errors.Is(err, ErrTerminalStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ins)
}
