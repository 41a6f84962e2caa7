package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

// each rollup reads one snapshot
var readSnapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

func (r *repository) InventoryStats(ctx context.Context) (model.InventoryStats, error) {
	var stats model.InventoryStats
	err := r.withTx(ctx, readSnapshot, func(tx pgx.Tx) error {
		const q = `
	select count(*), coalesce(sum(quantity_on_hand), 0), coalesce(sum(quantity_reserved), 0)
	from inventory_items`
		if err := tx.QueryRow(ctx, q).Scan(&stats.TotalItems, &stats.TotalOnHand, &stats.TotalReserved); err != nil {
			return errors.Wrap(err, "inventory totals")
		}
		var err error
		if stats.ByCondition, err = counts(ctx, tx, `
	select condition as key, count(*) as count from inventory_items
	group by condition order by condition`); err != nil {
			return err
		}
		stats.ByCategory, err = counts(ctx, tx, `
	select category as key, count(*) as count from inventory_items
	group by category order by category`)
		return err
	})
	return stats, err
}

// LoanStats counts overdue loans from due dates, not from the stored status,
// so loans the scanner has not reached yet are included.
func (r *repository) LoanStats(ctx context.Context, today time.Time) (model.LoanStats, error) {
	var stats model.LoanStats
	err := r.withTx(ctx, readSnapshot, func(tx pgx.Tx) error {
		const q = `
	select count(*) as total_loans,
	       count(*) filter ( where status in ('ACTIVE', 'OVERDUE') and due_date < $1 ) as overdue_count
	from loans`
		if err := tx.QueryRow(ctx, q, today).Scan(&stats.TotalLoans, &stats.OverdueCount); err != nil {
			return errors.Wrap(err, "loan totals")
		}
		var err error
		stats.ByStatus, err = counts(ctx, tx, `
	select status as key, count(*) as count from loans
	group by status order by status`)
		return err
	})
	return stats, err
}

func counts(ctx context.Context, tx pgx.Tx, q string) ([]model.Count, error) {
	rows, err := tx.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "group counts")
	}
	res, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Count])
	if err != nil {
		return nil, errors.Wrap(err, "group counts")
	}
	return res, nil
}
