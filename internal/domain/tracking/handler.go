package tracking

import (
	"errors"
	"net/http"
	"time"

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
	api.GET("/activities", h.ListActivities)
	api.POST("/activities", h.CreateActivity)
	api.PUT("/activities/:id", h.UpdateActivity)

	api.GET("/sleep", h.ListSleep)
	api.POST("/sleep", h.CreateSleep)

	api.GET("/water", h.ListWater)
	api.POST("/water", h.CreateWater)

	api.GET("/meals", h.ListMeals)
	api.POST("/meals", h.CreateMeal)
	api.PUT("/meals/:id", h.UpdateMeal)

	api.GET("/tracking/summary", h.Summary)
}

func (h *Handler) CreateActivity(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	var in ActivityInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.CreateActivity(c.Request().Context(), userID, in)
	if err != nil {
		return trackingError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateActivity(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}
	var in ActivityInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.UpdateActivity(c.Request().Context(), userID, id, in)
	if err != nil {
		return trackingError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListActivities(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListActivities(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) CreateSleep(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	var in SleepInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	log, err := h.svc.CreateSleep(c.Request().Context(), userID, in)
	if err != nil {
		return trackingError(err)
	}
	return c.JSON(http.StatusCreated, log)
}

func (h *Handler) ListSleep(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSleep(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) CreateWater(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	var in WaterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	w, err := h.svc.CreateWater(c.Request().Context(), userID, in)
	if err != nil {
		return trackingError(err)
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) ListWater(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListWater(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) CreateMeal(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	var in MealInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	m, err := h.svc.CreateMeal(c.Request().Context(), userID, in)
	if err != nil {
		return trackingError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMeal(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid meal id")
	}
	var in MealInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	m, err := h.svc.UpdateMeal(c.Request().Context(), userID, id, in)
	if err != nil {
		return trackingError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMeals(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMeals(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

// Summary returns the aggregate totals for one day. The date query
// parameter is YYYY-MM-DD and defaults to today (UTC).
func (h *Handler) Summary(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	day := time.Now().UTC()
	if dateStr := c.QueryParam("date"); dateStr != "" {
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		day = d
	}

	sum, err := h.svc.Summary(c.Request().Context(), userID, day)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}

func trackingError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
