package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

const reservedConstraint = "inventory_items_reserved_le_on_hand"

var itemColumns = []string{
	"id", "name", "code", "quantity_on_hand", "quantity_reserved",
	"quantity_on_hand - quantity_reserved as available",
	"category", "condition", "location", "acquisition_date", "username", "created_at", "updated_at",
}

func returningItem() string {
	return "returning " + strings.Join(itemColumns, ", ")
}

func acquisitionDate(d *model.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (r *repository) CreateItem(ctx context.Context, req model.ItemRequest) (model.Item, error) {
	q := fmt.Sprintf(`insert into %s (name, code, quantity_on_hand, category, condition, location, acquisition_date, username)
	values (@name, @code, @quantity_on_hand, @category, @condition, @location, @acquisition_date, @username)
	%s`, itemsTableName, returningItem())
	args := pgx.NamedArgs{
		"name":             req.Name,
		"code":             req.Code,
		"quantity_on_hand": req.QuantityOnHand,
		"category":         req.Category,
		"condition":        req.Condition,
		"location":         req.Location,
		"acquisition_date": acquisitionDate(req.AcquisitionDate),
		"username":         req.UserName,
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Item{}, mapItemErr(err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Item])
	if err != nil {
		r.log.Debug("CreateItem", zap.String("q", q), zap.Error(err))
		return model.Item{}, mapItemErr(err)
	}
	return item, nil
}

func (r *repository) GetItem(ctx context.Context, id int64) (model.Item, error) {
	query, args, err := qb.Select(itemColumns...).
		From(itemsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Item{}, err
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Item])
	if err != nil {
		return model.Item{}, mapItemErr(err)
	}
	return item, nil
}

func (r *repository) ListItems(ctx context.Context, filter model.ItemFilter) (model.ListItems, error) {
	where := sq.And{}
	if filter.Category != "" {
		where = append(where, sq.Eq{"category": filter.Category})
	}
	if filter.Condition != "" {
		where = append(where, sq.Eq{"condition": filter.Condition})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{sq.ILike{"name": pattern}, sq.ILike{"code": pattern}})
	}
	page, size := model.Normalize(filter.Page, filter.Size)

	countQuery, countArgs, err := qb.Select("count(*)").From(itemsTableName).Where(where).ToSql()
	if err != nil {
		return model.ListItems{}, err
	}
	var total int
	if err = r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return model.ListItems{}, errors.Wrap(err, "count items")
	}

	query, args, err := qb.Select(itemColumns...).
		From(itemsTableName).
		Where(where).
		OrderBy("created_at desc", "id desc").
		Limit(uint64(size)).
		Offset(offset(page, size)).
		ToSql()
	if err != nil {
		return model.ListItems{}, err
	}
	r.log.Debug("ListItems", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListItems{}, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Item])
	if err != nil {
		return model.ListItems{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.ListItems{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *repository) UpdateItem(ctx context.Context, id int64, req model.ItemRequest) (model.Item, error) {
	q := fmt.Sprintf(`update %s
	set name = @name, code = @code, quantity_on_hand = @quantity_on_hand, category = @category,
	    condition = @condition, location = @location, acquisition_date = @acquisition_date, updated_at = now()
	where id = @id
	%s`, itemsTableName, returningItem())
	args := pgx.NamedArgs{
		"id":               id,
		"name":             req.Name,
		"code":             req.Code,
		"quantity_on_hand": req.QuantityOnHand,
		"category":         req.Category,
		"condition":        req.Condition,
		"location":         req.Location,
		"acquisition_date": acquisitionDate(req.AcquisitionDate),
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Item{}, mapItemErr(err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Item])
	if err != nil {
		return model.Item{}, mapItemErr(err)
	}
	return item, nil
}

// DeleteItem refuses to delete an item with reserved stock. Every line item of a
// non-terminal loan holds at least one reserved unit, and the predicate is checked
// on the locked row, so a concurrent reservation cannot slip in.
func (r *repository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `delete from inventory_items where id = $1 and quantity_reserved = 0`, id)
	if err != nil {
		return errors.Wrapf(err, "delete item %d", id)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var reserved int
	err = r.db.QueryRow(ctx, `select quantity_reserved from inventory_items where id = $1`, id).Scan(&reserved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.Wrapf(errs.ErrNotFound, "inventory item %d", id)
		}
		return errors.Wrapf(err, "delete item %d", id)
	}
	return errors.Wrapf(errs.ErrConflict, "inventory item %d has %d units reserved by open loans", id, reserved)
}

func mapItemErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(errs.ErrNotFound, "inventory item")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errors.Wrap(errs.ErrConflict, "inventory item code already exists")
		case pgerrcode.CheckViolation:
			if pgErr.ConstraintName == reservedConstraint {
				return errs.NewValidationError("quantityOnHand", "must not be below the reserved quantity")
			}
			return errs.NewValidationError("", pgErr.Message)
		}
	}
	return err
}
