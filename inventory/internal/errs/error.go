package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrConcurrencyConflict = errors.New("concurrent modification, re-read the loan and retry")
	// ErrStatusChanged is returned by a compare-and-set that lost the race.
	ErrStatusChanged = errors.New("loan status changed")
)

type Kind string

const (
	KindValidation          Kind = "ValidationError"
	KindNotFound            Kind = "NotFoundError"
	KindInsufficientStock   Kind = "InsufficientStock"
	KindInvalidTransition   Kind = "InvalidTransition"
	KindConcurrencyConflict Kind = "ConcurrencyConflict"
	KindConflict            Kind = "Conflict"
	KindInternal            Kind = "InternalError"
)

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

type Shortage struct {
	ItemID    int64 `json:"itemId"`
	Requested int   `json:"requested"`
	Available int   `json:"available"`
}

type InsufficientStockError struct {
	Items []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, s := range e.Items {
		parts = append(parts, fmt.Sprintf("item %d (requested %d, available %d)", s.ItemID, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

type InvalidTransitionError struct {
	Current model.Status
	Target  model.Status
	// Reason is set when the edge exists but the loan does not qualify for it.
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid transition %s -> %s: %s", e.Current, e.Target, e.Reason)
	}
	return fmt.Sprintf("invalid transition %s -> %s", e.Current, e.Target)
}

// Response is the error body returned to HTTP callers.
type Response struct {
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Items   []Shortage   `json:"items,omitempty"`
	Current model.Status `json:"current,omitempty"`
	Target  model.Status `json:"target,omitempty"`
}

// KindOf classifies err into the engine taxonomy.
func KindOf(err error) Kind {
	var (
		validationErr *ValidationError
		stockErr      *InsufficientStockError
		transitionErr *InvalidTransitionError
	)
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &stockErr):
		return KindInsufficientStock
	case errors.As(err, &transitionErr):
		return KindInvalidTransition
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConcurrencyConflict):
		return KindConcurrencyConflict
	case errors.Is(err, ErrConflict):
		return KindConflict
	}
	return KindInternal
}

func NewResponse(err error) Response {
	resp := Response{Kind: KindOf(err), Message: err.Error()}
	var (
		stockErr      *InsufficientStockError
		transitionErr *InvalidTransitionError
	)
	if errors.As(err, &stockErr) {
		resp.Items = stockErr.Items
	}
	if errors.As(err, &transitionErr) {
		resp.Current = transitionErr.Current
		resp.Target = transitionErr.Target
	}
	return resp
}
