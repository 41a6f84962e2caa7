package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

func validateItem(req *model.ItemRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	switch {
	case req.Name == "":
		return errs.NewValidationError("name", "must not be empty")
	case req.Code == "":
		return errs.NewValidationError("code", "must not be empty")
	case req.QuantityOnHand < 0:
		return errs.NewValidationError("quantityOnHand", "must be >= 0")
	}
	if req.Condition == "" {
		req.Condition = model.ConditionGood
	}
	if !req.Condition.Valid() {
		return errs.NewValidationError("condition", "unknown condition "+string(req.Condition))
	}
	return nil
}

func (s *Service) CreateItem(ctx context.Context, req model.ItemRequest) (model.Item, error) {
	if err := validateItem(&req); err != nil {
		return model.Item{}, err
	}
	return s.repo.CreateItem(ctx, req)
}

func (s *Service) GetItem(ctx context.Context, id int64) (model.Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, filter model.ItemFilter) (model.ListItems, error) {
	if filter.Condition != "" && !filter.Condition.Valid() {
		return model.ListItems{}, errs.NewValidationError("condition", "unknown condition "+string(filter.Condition))
	}
	filter.Page, filter.Size = model.Normalize(filter.Page, filter.Size)
	return s.repo.ListItems(ctx, filter)
}

// UpdateItem rejects lowering quantityOnHand below what open loans hold.
func (s *Service) UpdateItem(ctx context.Context, id int64, req model.ItemRequest) (model.Item, error) {
	if err := validateItem(&req); err != nil {
		return model.Item{}, err
	}
	return s.repo.UpdateItem(ctx, id, req)
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id)
}
