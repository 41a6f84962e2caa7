package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	CreateItem(ctx context.Context, req model.ItemRequest) (model.Item, error)
	GetItem(ctx context.Context, id int64) (model.Item, error)
	ListItems(ctx context.Context, filter model.ItemFilter) (model.ListItems, error)
	UpdateItem(ctx context.Context, id int64, req model.ItemRequest) (model.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

type LoanService interface {
	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	ListLoans(ctx context.Context, filter model.LoanFilter) (model.ListLoans, error)
	Transition(ctx context.Context, id int64, req model.TransitionRequest) (model.Loan, error)
	ScanOverdue(ctx context.Context, now time.Time) (model.ScanResult, error)
	ScanOverdueNow(ctx context.Context) (model.ScanResult, error)
}

type StatsService interface {
	InventoryStats(ctx context.Context) (model.InventoryStats, error)
	LoanStats(ctx context.Context) (model.LoanStats, error)
	Stats(ctx context.Context) (model.Stats, error)
}

var (
	_ CatalogService = (*service.Service)(nil)
	_ LoanService    = (*service.Service)(nil)
	_ StatsService   = (*service.Service)(nil)
)
