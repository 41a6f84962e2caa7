package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
	md "github.com/Astemirdum/inventory-loan-service/pkg/middleware"
)

func (h *Handler) bindItem(c echo.Context) (model.ItemRequest, error) {
	var req model.ItemRequest
	if err := c.Bind(&req); err != nil {
		return req, badRequest("", err)
	}
	req.UserName = md.GetUserName(c)
	if err := c.Validate(req); err != nil {
		return req, badRequest("", err)
	}
	return req, nil
}

func (h *Handler) CreateItem(c echo.Context) error {
	req, err := h.bindItem(c)
	if err != nil {
		return err
	}
	item, err := h.catalogSvc.CreateItem(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req, err := h.bindItem(c)
	if err != nil {
		return err
	}
	item, err := h.catalogSvc.UpdateItem(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) GetItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.catalogSvc.GetItem(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) ListItems(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	items, err := h.catalogSvc.ListItems(c.Request().Context(), model.ItemFilter{
		Category:  c.QueryParam("category"),
		Condition: model.Condition(c.QueryParam("condition")),
		Search:    c.QueryParam("search"),
		Page:      page,
		Size:      size,
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err = h.catalogSvc.DeleteItem(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
