package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/notifier/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/model"
	md "github.com/Astemirdum/inventory-loan-service/pkg/middleware"
)

type Handler struct {
	svc NotificationService
	log *zap.Logger
}

func New(svc NotificationService, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.GET("/notifications", h.ListNotifications)
	api.PATCH("/notifications/:id/read", h.MarkRead, md.UserName)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListNotifications(c echo.Context) error {
	var (
		err    error
		filter model.Filter
	)
	if loanID := c.QueryParam("loanId"); loanID != "" {
		if filter.LoanID, err = strconv.ParseInt(loanID, 10, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "loanId is invalid")
		}
	}
	if status := model.Status(c.QueryParam("status")); status != "" {
		if status != model.StatusRead && status != model.StatusUnread {
			return echo.NewHTTPError(http.StatusBadRequest, "status is invalid")
		}
		filter.Status = status
	}
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if filter.Page, err = strconv.Atoi(pageParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if filter.Size, err = strconv.Atoi(sizeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}

	list, err := h.svc.ListNotifications(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	n, err := h.svc.MarkRead(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}
