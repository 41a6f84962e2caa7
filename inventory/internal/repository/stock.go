package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
)

// The stock primitives are single statements, so each one is atomic per item.
// Callers running several of them in a transaction must go in ascending item id order.

const (
	tryReserveQuery = `
update inventory_items
    set quantity_reserved = quantity_reserved + $2, updated_at = now()
where id = $1 and quantity_on_hand - quantity_reserved >= $2`

	releaseQuery = `
update inventory_items
    set quantity_reserved = greatest(quantity_reserved - $2, 0), updated_at = now()
where id = $1`

	consumeQuery = `
update inventory_items
    set quantity_reserved = greatest(quantity_reserved - $2, 0),
        quantity_on_hand  = greatest(quantity_on_hand - $2, 0),
        updated_at = now()
where id = $1`

	availableQuery = `select quantity_on_hand - quantity_reserved from inventory_items where id = $1`
)

// tryReserve reports false, leaving the row untouched, when fewer than qty units are available.
func tryReserve(ctx context.Context, q querier, itemID int64, qty int) (bool, error) {
	tag, err := q.Exec(ctx, tryReserveQuery, itemID, qty)
	if err != nil {
		return false, errors.Wrapf(err, "reserve item %d", itemID)
	}
	return tag.RowsAffected() == 1, nil
}

func release(ctx context.Context, q querier, itemID int64, qty int) error {
	_, err := q.Exec(ctx, releaseQuery, itemID, qty)
	return errors.Wrapf(err, "release item %d", itemID)
}

func consume(ctx context.Context, q querier, itemID int64, qty int) error {
	_, err := q.Exec(ctx, consumeQuery, itemID, qty)
	return errors.Wrapf(err, "consume item %d", itemID)
}

func available(ctx context.Context, q querier, itemID int64) (int, error) {
	var n int
	if err := q.QueryRow(ctx, availableQuery, itemID).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errors.Wrapf(errs.ErrNotFound, "inventory item %d", itemID)
		}
		return 0, errors.Wrapf(err, "available item %d", itemID)
	}
	return n, nil
}
