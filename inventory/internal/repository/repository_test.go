package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

var (
	reserveSQL  = regexp.QuoteMeta(`set quantity_reserved = quantity_reserved + $2`)
	releaseSQL  = regexp.QuoteMeta(`set quantity_reserved = greatest(quantity_reserved - $2, 0), updated_at = now()`)
	consumeSQL  = regexp.QuoteMeta(`quantity_on_hand  = greatest(quantity_on_hand - $2, 0)`)
	availSQL    = regexp.QuoteMeta(`select quantity_on_hand - quantity_reserved from inventory_items`)
	casSQL      = regexp.QuoteMeta(`set status = $3, updated_at = now()`)
	getLoanSQL  = regexp.QuoteMeta(`FROM loans WHERE id = $1`)
	linesSQL    = regexp.QuoteMeta(`FROM loan_items li LEFT JOIN inventory_items i`)
	lockLineSQL = regexp.QuoteMeta(`select item_id, quantity from loan_items`)
)

func newMockRepo(t *testing.T) (*repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	repo, err := NewRepository(mock, zap.NewExample())
	require.NoError(t, err)
	return repo, mock
}

func loanRows(id int64, status model.Status, loanDate, dueDate time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(loanColumns).
		AddRow(id, "Ann Lee", "+628123", loanDate, dueDate, status, "alice", loanDate, loanDate)
}

func lineRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "loan_id", "item_id", "quantity", "item_name", "item_code"})
}

func ptr(v int64) *int64 { return &v }

func TestRepository_CreateLoan_RollsBackOnShortage(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{})
	// lines are reserved in ascending item id order whatever the request order
	mock.ExpectExec(reserveSQL).WithArgs(int64(1), 5).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(reserveSQL).WithArgs(int64(2), 1000000).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(availSQL).WithArgs(int64(2)).WillReturnRows(pgxmock.NewRows([]string{"available"}).AddRow(40))
	mock.ExpectExec(reserveSQL).WithArgs(int64(3), 2).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(availSQL).WithArgs(int64(3)).WillReturnRows(pgxmock.NewRows([]string{"available"}).AddRow(1))
	mock.ExpectRollback()

	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	_, err := repo.CreateLoan(context.Background(), model.Loan{
		BorrowerName: "Ann Lee", BorrowerPhone: "+628123", LoanDate: day, DueDate: day.AddDate(0, 0, 7), UserName: "alice",
	}, []model.LineRequest{{ItemID: 3, Quantity: 2}, {ItemID: 2, Quantity: 1000000}, {ItemID: 1, Quantity: 5}})

	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, []errs.Shortage{
		{ItemID: 2, Requested: 1000000, Available: 40},
		{ItemID: 3, Requested: 2, Available: 1},
	}, stockErr.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateLoan_MissingItem(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(reserveSQL).WithArgs(int64(99), 1).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(availSQL).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateLoan(context.Background(), model.Loan{}, []model.LineRequest{{ItemID: 99, Quantity: 1}})
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateLoan_OK(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	due := day.AddDate(0, 0, 7)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(reserveSQL).WithArgs(int64(1), 2).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(reserveSQL).WithArgs(int64(3), 1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta(`insert into loans`)).
		WithArgs("Ann Lee", "+628123", day, due, model.StatusPending, "alice").
		WillReturnRows(loanRows(10, model.StatusPending, day, due))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO loan_items (loan_id,item_id,quantity) VALUES ($1,$2,$3),($4,$5,$6)`)).
		WithArgs(int64(10), int64(1), 2, int64(10), int64(3), 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectQuery(linesSQL).WithArgs(int64(10)).WillReturnRows(lineRows().
		AddRow(int64(100), int64(10), ptr(1), 2, "Projector", "PRJ-1").
		AddRow(int64(101), int64(10), ptr(3), 1, "HDMI cable", "CBL-3"))
	mock.ExpectCommit()

	loan, err := repo.CreateLoan(context.Background(), model.Loan{
		BorrowerName: "Ann Lee", BorrowerPhone: "+628123", LoanDate: day, DueDate: due, UserName: "alice",
	}, []model.LineRequest{{ItemID: 3, Quantity: 1}, {ItemID: 1, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, int64(10), loan.ID)
	require.Equal(t, model.StatusPending, loan.Status)
	require.Len(t, loan.Items, 2)
	require.Equal(t, "PRJ-1", loan.Items[0].ItemCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CompareAndSetStatus_Release(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(casSQL).WithArgs(int64(7), model.StatusActive, model.StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(lockLineSQL).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "quantity"}).AddRow(int64(1), 2).AddRow(int64(3), 1))
	mock.ExpectExec(releaseSQL).WithArgs(int64(1), 2).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(releaseSQL).WithArgs(int64(3), 1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(getLoanSQL).WithArgs(int64(7)).WillReturnRows(loanRows(7, model.StatusCompleted, day, day))
	mock.ExpectQuery(linesSQL).WithArgs(int64(7)).WillReturnRows(lineRows())
	mock.ExpectCommit()

	loan, err := repo.CompareAndSetStatus(context.Background(), 7, model.StatusActive, model.StatusCompleted, model.StockRelease)
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, loan.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CompareAndSetStatus_Consume(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(casSQL).WithArgs(int64(7), model.StatusOverdue, model.StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(lockLineSQL).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "quantity"}).AddRow(int64(4), 3))
	mock.ExpectExec(consumeSQL).WithArgs(int64(4), 3).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(getLoanSQL).WithArgs(int64(7)).WillReturnRows(loanRows(7, model.StatusCompleted, day, day))
	mock.ExpectQuery(linesSQL).WithArgs(int64(7)).WillReturnRows(lineRows())
	mock.ExpectCommit()

	_, err := repo.CompareAndSetStatus(context.Background(), 7, model.StatusOverdue, model.StatusCompleted, model.StockConsume)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CompareAndSetStatus_LostRace(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(casSQL).WithArgs(int64(7), model.StatusActive, model.StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := repo.CompareAndSetStatus(context.Background(), 7, model.StatusActive, model.StatusCompleted, model.StockRelease)
	require.ErrorIs(t, err, errs.ErrStatusChanged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteItem(t *testing.T) {
	t.Parallel()
	deleteSQL := regexp.QuoteMeta(`delete from inventory_items where id = $1 and quantity_reserved = 0`)
	reservedSQL := regexp.QuoteMeta(`select quantity_reserved from inventory_items where id = $1`)

	tests := []struct {
		name    string
		mock    func(m pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "ok",
			mock: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec(deleteSQL).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "reserved by open loans",
			mock: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec(deleteSQL).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
				m.ExpectQuery(reservedSQL).WithArgs(int64(5)).WillReturnRows(pgxmock.NewRows([]string{"quantity_reserved"}).AddRow(4))
			},
			wantErr: errs.ErrConflict,
		},
		{
			name: "not found",
			mock: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec(deleteSQL).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
				m.ExpectQuery(reservedSQL).WithArgs(int64(5)).WillReturnError(pgx.ErrNoRows)
			},
			wantErr: errs.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)
			tt.mock(mock)
			err := repo.DeleteItem(context.Background(), 5)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMapItemErr(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, mapItemErr(&pgconn.PgError{Code: pgerrcode.UniqueViolation}), errs.ErrConflict)
	require.ErrorIs(t, mapItemErr(pgx.ErrNoRows), errs.ErrNotFound)

	var validationErr *errs.ValidationError
	require.ErrorAs(t, mapItemErr(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: reservedConstraint}), &validationErr)
	require.Equal(t, "quantityOnHand", validationErr.Field)

	other := errors.New("conn reset")
	require.Equal(t, other, mapItemErr(other))
}

func TestSortLines(t *testing.T) {
	t.Parallel()
	in := []model.LineRequest{{ItemID: 9, Quantity: 1}, {ItemID: 2, Quantity: 3}, {ItemID: 5, Quantity: 2}}
	out := sortLines(in)
	require.Equal(t, []int64{2, 5, 9}, []int64{out[0].ItemID, out[1].ItemID, out[2].ItemID})
	require.Equal(t, int64(9), in[0].ItemID, "input must not be reordered")
}
