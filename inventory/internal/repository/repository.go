package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateItem(ctx context.Context, req model.ItemRequest) (model.Item, error)
	GetItem(ctx context.Context, id int64) (model.Item, error)
	ListItems(ctx context.Context, filter model.ItemFilter) (model.ListItems, error)
	UpdateItem(ctx context.Context, id int64, req model.ItemRequest) (model.Item, error)
	DeleteItem(ctx context.Context, id int64) error

	// CreateLoan reserves every line and persists the loan in one transaction.
	CreateLoan(ctx context.Context, loan model.Loan, lines []model.LineRequest) (model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	ListLoans(ctx context.Context, filter model.LoanFilter) (model.ListLoans, error)
	// CompareAndSetStatus moves the loan from expected to target and applies action
	// to its line items. errs.ErrStatusChanged means the stored status was not expected.
	CompareAndSetStatus(ctx context.Context, id int64, expected, target model.Status, action model.StockAction) (model.Loan, error)
	OverdueCandidates(ctx context.Context, today time.Time) ([]int64, error)

	InventoryStats(ctx context.Context) (model.InventoryStats, error)
	LoanStats(ctx context.Context, today time.Time) (model.LoanStats, error)
}

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db  DB
	log *zap.Logger
}

func NewRepository(db DB, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	itemsTableName     = `inventory_items`
	loansTableName     = `loans`
	loanItemsTableName = `loan_items`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withTx runs fn in a transaction, rolling back on any error.
func (r *repository) withTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.log.Error("rollback", zap.Error(rbErr))
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

func offset(page, size int) uint64 {
	return uint64((page - 1) * size)
}
