package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

var loanColumns = []string{
	"id", "borrower_name", "borrower_phone", "loan_date", "due_date", "status", "username", "created_at", "updated_at",
}

const casStatusQuery = `
update loans
    set status = $3, updated_at = now()
where id = $1 and status = $2`

// CreateLoan takes the item row locks in ascending item id order so that two
// loans sharing items cannot deadlock. All shortages are collected before
// rolling back so the caller learns every offending item at once.
func (r *repository) CreateLoan(ctx context.Context, loan model.Loan, lines []model.LineRequest) (model.Loan, error) {
	lines = sortLines(lines)
	var created model.Loan
	err := r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var shortages []errs.Shortage
		for _, line := range lines {
			ok, err := tryReserve(ctx, tx, line.ItemID, line.Quantity)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			avail, err := available(ctx, tx, line.ItemID)
			if err != nil {
				return err
			}
			shortages = append(shortages, errs.Shortage{ItemID: line.ItemID, Requested: line.Quantity, Available: avail})
		}
		if len(shortages) > 0 {
			return &errs.InsufficientStockError{Items: shortages}
		}

		q := fmt.Sprintf(`insert into %s (borrower_name, borrower_phone, loan_date, due_date, status, username)
		values ($1, $2, $3, $4, $5, $6)
		returning %s`, loansTableName, strings.Join(loanColumns, ", "))
		rows, err := tx.Query(ctx, q, loan.BorrowerName, loan.BorrowerPhone, loan.LoanDate, loan.DueDate, model.StatusPending, loan.UserName)
		if err != nil {
			return errors.Wrap(err, "insert loan")
		}
		created, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
		if err != nil {
			return errors.Wrap(err, "insert loan")
		}

		ins := qb.Insert(loanItemsTableName).Columns("loan_id", "item_id", "quantity")
		for _, line := range lines {
			ins = ins.Values(created.ID, line.ItemID, line.Quantity)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return errors.Wrap(err, "insert loan items")
		}

		byLoan, err := loadLines(ctx, tx, []int64{created.ID})
		if err != nil {
			return err
		}
		created.Items = byLoan[created.ID]
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}
	return created, nil
}

func sortLines(lines []model.LineRequest) []model.LineRequest {
	sorted := make([]model.LineRequest, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })
	return sorted
}

func (r *repository) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	return getLoan(ctx, r.db, id)
}

func getLoan(ctx context.Context, q querier, id int64) (model.Loan, error) {
	query, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, err
	}
	loan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, errors.Wrapf(errs.ErrNotFound, "loan %d", id)
		}
		return model.Loan{}, err
	}
	byLoan, err := loadLines(ctx, q, []int64{id})
	if err != nil {
		return model.Loan{}, err
	}
	loan.Items = byLoan[id]
	return loan, nil
}

// loadLines joins line items with their inventory rows. Deleted items leave empty names.
func loadLines(ctx context.Context, q querier, loanIDs []int64) (map[int64][]model.LineItem, error) {
	byLoan := make(map[int64][]model.LineItem, len(loanIDs))
	if len(loanIDs) == 0 {
		return byLoan, nil
	}
	query, args, err := qb.Select(
		"li.id", "li.loan_id", "li.item_id", "li.quantity",
		"coalesce(i.name, '') as item_name", "coalesce(i.code, '') as item_code").
		From(loanItemsTableName + " li").
		LeftJoin(itemsTableName + " i on i.id = li.item_id").
		Where(sq.Eq{"li.loan_id": loanIDs}).
		OrderBy("li.loan_id", "li.item_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "load loan items")
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LineItem])
	if err != nil {
		return nil, errors.Wrap(err, "load loan items")
	}
	for _, l := range lines {
		byLoan[l.LoanID] = append(byLoan[l.LoanID], l)
	}
	return byLoan, nil
}

func (r *repository) ListLoans(ctx context.Context, filter model.LoanFilter) (model.ListLoans, error) {
	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{sq.ILike{"borrower_name": pattern}, sq.ILike{"borrower_phone": pattern}})
	}
	page, size := model.Normalize(filter.Page, filter.Size)

	countQuery, countArgs, err := qb.Select("count(*)").From(loansTableName).Where(where).ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}
	var total int
	if err = r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return model.ListLoans{}, errors.Wrap(err, "count loans")
	}

	query, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(where).
		OrderBy("created_at desc", "id desc").
		Limit(uint64(size)).
		Offset(offset(page, size)).
		ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}
	r.log.Debug("ListLoans", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListLoans{}, err
	}
	loans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return model.ListLoans{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	ids := make([]int64, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	byLoan, err := loadLines(ctx, r.db, ids)
	if err != nil {
		return model.ListLoans{}, err
	}
	for i := range loans {
		loans[i].Items = byLoan[loans[i].ID]
	}
	return model.ListLoans{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: loans,
	}, nil
}

func (r *repository) CompareAndSetStatus(ctx context.Context, id int64, expected, target model.Status, action model.StockAction) (model.Loan, error) {
	var loan model.Loan
	err := r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, casStatusQuery, id, expected, target)
		if err != nil {
			return errors.Wrapf(err, "set status loan %d", id)
		}
		if tag.RowsAffected() == 0 {
			return errs.ErrStatusChanged
		}
		if action != model.StockNone {
			if err = applyStock(ctx, tx, id, action); err != nil {
				return err
			}
		}
		loan, err = getLoan(ctx, tx, id)
		return err
	})
	if err != nil {
		return model.Loan{}, err
	}
	r.log.Debug("status changed",
		zap.Int64("loan_id", id),
		zap.String("from", string(expected)),
		zap.String("to", string(target)),
		zap.Stringer("stock", action))
	return loan, nil
}

// applyStock runs action for every line of the loan in ascending item id order.
func applyStock(ctx context.Context, tx pgx.Tx, loanID int64, action model.StockAction) error {
	rows, err := tx.Query(ctx, `
select item_id, quantity from loan_items
where loan_id = $1 and item_id is not null
order by item_id`, loanID)
	if err != nil {
		return errors.Wrapf(err, "lines of loan %d", loanID)
	}
	type line struct {
		ItemID   int64 `db:"item_id"`
		Quantity int   `db:"quantity"`
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[line])
	if err != nil {
		return errors.Wrapf(err, "lines of loan %d", loanID)
	}
	for _, l := range lines {
		switch action {
		case model.StockRelease:
			err = release(ctx, tx, l.ItemID, l.Quantity)
		case model.StockConsume:
			err = consume(ctx, tx, l.ItemID, l.Quantity)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) OverdueCandidates(ctx context.Context, today time.Time) ([]int64, error) {
	query, args, err := qb.Select("id").
		From(loansTableName).
		Where(sq.Eq{"status": model.StatusActive}).
		Where(sq.Lt{"due_date": today}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "overdue candidates")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, errors.Wrap(err, "overdue candidates")
	}
	return ids, nil
}
