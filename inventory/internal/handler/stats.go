package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.statsSvc.Stats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) InventoryStats(c echo.Context) error {
	stats, err := h.statsSvc.InventoryStats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) LoanStats(c echo.Context) error {
	stats, err := h.statsSvc.LoanStats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
