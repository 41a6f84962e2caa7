package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

// maxLineQuantity bounds a line after merging; loan_items.quantity is an int4.
const maxLineQuantity = math.MaxInt32

func validateLoan(req *model.CreateLoanRequest) error {
	req.BorrowerName = strings.TrimSpace(req.BorrowerName)
	req.BorrowerPhone = strings.TrimSpace(req.BorrowerPhone)
	switch {
	case req.BorrowerName == "":
		return errs.NewValidationError("borrowerName", "must not be empty")
	case req.BorrowerPhone == "":
		return errs.NewValidationError("borrowerPhone", "must not be empty")
	case req.LoanDate.IsZero():
		return errs.NewValidationError("loanDate", "is required")
	case req.DueDate.IsZero():
		return errs.NewValidationError("dueDate", "is required")
	case req.DueDate.Before(req.LoanDate.Time):
		return errs.NewValidationError("dueDate", "must not be before loanDate")
	case len(req.Items) == 0:
		return errs.NewValidationError("items", "at least one line item is required")
	}
	for i, line := range req.Items {
		field := "items[" + strconv.Itoa(i) + "]"
		if line.ItemID < 1 {
			return errs.NewValidationError(field+".itemId", "must be >= 1")
		}
		if line.Quantity < 1 || line.Quantity > maxLineQuantity {
			return errs.NewValidationError(field+".quantity", fmt.Sprintf("must be between 1 and %d", maxLineQuantity))
		}
	}
	return nil
}

// mergeLines sums quantities of lines naming the same item, keeping first-seen order.
// Lines must already be within 1..maxLineQuantity.
func mergeLines(lines []model.LineRequest) ([]model.LineRequest, error) {
	merged := make([]model.LineRequest, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for n, line := range lines {
		if i, ok := index[line.ItemID]; ok {
			if merged[i].Quantity > maxLineQuantity-line.Quantity {
				return nil, errs.NewValidationError("items["+strconv.Itoa(n)+"].quantity",
					fmt.Sprintf("total for item %d must not exceed %d", line.ItemID, maxLineQuantity))
			}
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

// CreateLoan reserves stock for every line and stores the loan as PENDING.
// Either every line is reserved or none is.
func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	if err := validateLoan(&req); err != nil {
		return model.Loan{}, err
	}
	lines, err := mergeLines(req.Items)
	if err != nil {
		return model.Loan{}, err
	}
	loan, err := s.repo.CreateLoan(ctx, model.Loan{
		BorrowerName:  req.BorrowerName,
		BorrowerPhone: req.BorrowerPhone,
		LoanDate:      req.LoanDate.Time,
		DueDate:       req.DueDate.Time,
		UserName:      req.UserName,
	}, lines)
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("loan created", zap.Int64("loan_id", loan.ID), zap.Int("lines", len(lines)))
	s.publish(ctx, loan, "", req.UserName, false)
	return loan, nil
}

func (s *Service) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) ListLoans(ctx context.Context, filter model.LoanFilter) (model.ListLoans, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return model.ListLoans{}, errs.NewValidationError("status", "unknown status "+string(filter.Status))
	}
	filter.Page, filter.Size = model.Normalize(filter.Page, filter.Size)
	return s.repo.ListLoans(ctx, filter)
}
