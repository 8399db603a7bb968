package exams

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitalsync/vitalsync/internal/platform/auth"
	"github.com/vitalsync/vitalsync/internal/platform/storage"
	"github.com/vitalsync/vitalsync/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/exams", h.Create)
	api.GET("/exams", h.List)
	api.GET("/exams/:id", h.Get)
	api.POST("/exams/:id/analyze", h.Analyze)
}

// Create accepts multipart form fields name, type, date (optional,
// YYYY-MM-DD) and an optional file part.
func (h *Handler) Create(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	in := CreateInput{
		Name: c.FormValue("name"),
		Type: c.FormValue("type"),
	}
	if dateStr := c.FormValue("date"); dateStr != "" {
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		in.ExamDate = &d
	}

	if fh, err := c.FormFile("file"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "reading uploaded file")
		}
		defer src.Close()

		in.File = &UploadedFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     src,
		}
	}

	exam, err := h.svc.Create(c.Request().Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput),
			errors.Is(err, storage.ErrFileTooLarge),
			errors.Is(err, storage.ErrInvalidContentType),
			errors.Is(err, storage.ErrMissingFileName):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, exam)
}

func (h *Handler) List(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Get(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid exam id")
	}

	view, err := h.svc.Get(c.Request().Context(), userID, examID)
	if err != nil {
		return examError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Analyze(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid exam id")
	}

	result, err := h.svc.Analyze(c.Request().Context(), userID, examID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFile), errors.Is(err, ErrAlreadyProcessed):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return examError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func examError(err error) error {
	switch {
	case errors.Is(err, ErrExamNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "exam not found")
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "exam belongs to another user")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
