package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
	md "github.com/Astemirdum/inventory-loan-service/pkg/middleware"
)

func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("", err)
	}
	req.UserName = md.GetUserName(c)
	if err := c.Validate(req); err != nil {
		return badRequest("", err)
	}
	loan, err := h.loanSvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) GetLoan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	loan, err := h.loanSvc.GetLoan(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	loans, err := h.loanSvc.ListLoans(c.Request().Context(), model.LoanFilter{
		Status: model.Status(c.QueryParam("status")),
		Search: c.QueryParam("search"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) Transition(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.TransitionRequest
	if err = c.Bind(&req); err != nil {
		return badRequest("", err)
	}
	req.UserName = md.GetUserName(c)
	if err = c.Validate(req); err != nil {
		return badRequest("status", err)
	}
	loan, err := h.loanSvc.Transition(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

// ScanOverdue runs the overdue scan now, or as of the RFC3339 time in "at".
func (h *Handler) ScanOverdue(c echo.Context) error {
	var (
		res model.ScanResult
		err error
	)
	ctx := c.Request().Context()
	if at := c.QueryParam("at"); at != "" {
		now, perr := time.Parse(time.RFC3339, at)
		if perr != nil {
			return badRequest("at", perr)
		}
		res, err = h.loanSvc.ScanOverdue(ctx, now)
	} else {
		res, err = h.loanSvc.ScanOverdueNow(ctx)
	}
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}
