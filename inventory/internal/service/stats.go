package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

func (s *Service) InventoryStats(ctx context.Context) (model.InventoryStats, error) {
	return s.repo.InventoryStats(ctx)
}

// LoanStats counts a loan as overdue from its due date, whether or not the scanner has run.
func (s *Service) LoanStats(ctx context.Context) (model.LoanStats, error) {
	return s.repo.LoanStats(ctx, s.today())
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Inventory, err = s.InventoryStats(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Loans, err = s.LoanStats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
