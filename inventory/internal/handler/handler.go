package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	_ "github.com/Astemirdum/inventory-loan-service/inventory/swagger"
	md "github.com/Astemirdum/inventory-loan-service/pkg/middleware"
	"github.com/Astemirdum/inventory-loan-service/pkg/validate"
)

type Handler struct {
	catalogSvc CatalogService
	loanSvc    LoanService
	statsSvc   StatsService
	log        *zap.Logger
}

func New(catalogSvc CatalogService, loanSvc LoanService, statsSvc StatsService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		loanSvc:    loanSvc,
		statsSvc:   statsSvc,
		log:        log.Named("handler"),
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
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, md.XUserNameHeader},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/inventory", h.ListItems)
	api.GET("/inventory/stats", h.InventoryStats)
	api.GET("/inventory/:id", h.GetItem)
	api.POST("/inventory", h.CreateItem, md.UserName)
	api.PUT("/inventory/:id", h.UpdateItem, md.UserName)
	api.DELETE("/inventory/:id", h.DeleteItem, md.UserName)

	api.GET("/loans", h.ListLoans)
	api.GET("/loans/stats", h.LoanStats)
	api.GET("/loans/:id", h.GetLoan)
	api.POST("/loans", h.CreateLoan, md.UserName)
	api.PATCH("/loans/:id/status", h.Transition, md.UserName)
	api.POST("/loans/overdue/scan", h.ScanOverdue, md.UserName)

	api.GET("/stats", h.Stats)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

var statusByKind = map[errs.Kind]int{
	errs.KindValidation:          http.StatusBadRequest,
	errs.KindNotFound:            http.StatusNotFound,
	errs.KindInsufficientStock:   http.StatusConflict,
	errs.KindInvalidTransition:   http.StatusConflict,
	errs.KindConcurrencyConflict: http.StatusConflict,
	errs.KindConflict:            http.StatusConflict,
	errs.KindInternal:            http.StatusInternalServerError,
}

// httpError turns an engine error into an HTTP error carrying errs.Response.
func (h *Handler) httpError(err error) error {
	resp := errs.NewResponse(err)
	code := statusByKind[resp.Kind]
	if code == http.StatusInternalServerError {
		h.log.Error("internal error", zap.Error(err))
	}
	return echo.NewHTTPError(code, resp)
}

func badRequest(field string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errs.NewResponse(errs.NewValidationError(field, err.Error())))
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest,
			errs.NewResponse(errs.NewValidationError("id", "must be a positive integer")))
	}
	return id, nil
}

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, badRequest("page", err)
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, badRequest("size", err)
		}
	}
	return page, size, nil
}
