package repository

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/notifier/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	// Save stores n unless a notification for the same event exists. created reports which happened.
	Save(ctx context.Context, n model.Notification) (created bool, err error)
	List(ctx context.Context, filter model.Filter) (model.ListNotifications, error)
	MarkRead(ctx context.Context, id int64) (model.Notification, error)
}

const notificationsTableName = "notifications"

var (
	dialect = goqu.Dialect("postgres")

	notificationColumns = []any{
		"id", "event_id", "loan_id", "event_type", "loan_status", "borrower_name", "message", "status", "created_at",
	}
)

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

func (r *repository) Save(ctx context.Context, n model.Notification) (bool, error) {
	query, _, err := dialect.Insert(notificationsTableName).
		Rows(goqu.Record{
			"event_id":      n.EventID,
			"loan_id":       n.LoanID,
			"event_type":    n.EventType,
			"loan_status":   n.LoanStatus,
			"borrower_name": n.BorrowerName,
			"message":       n.Message,
			"status":        string(model.StatusUnread),
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return false, errors.Wrap(err, "build insert")
	}
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return false, errors.Wrapf(err, "save notification for event %s", n.EventID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return affected == 1, nil
}

func (r *repository) List(ctx context.Context, filter model.Filter) (model.ListNotifications, error) {
	page, size := model.Normalize(filter.Page, filter.Size)

	countQuery, _, err := filtered(filter).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()
	if err != nil {
		return model.ListNotifications{}, errors.Wrap(err, "build count")
	}
	var total int
	if err = r.db.GetContext(ctx, &total, countQuery); err != nil {
		return model.ListNotifications{}, errors.Wrap(err, "count notifications")
	}

	query, _, err := filtered(filter).
		Select(notificationColumns...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(size)).
		Offset(uint((page - 1) * size)).
		ToSQL()
	if err != nil {
		return model.ListNotifications{}, errors.Wrap(err, "build select")
	}
	r.log.Debug("List", zap.String("query", query))

	items := make([]model.Notification, 0, size)
	if err = r.db.SelectContext(ctx, &items, query); err != nil {
		return model.ListNotifications{}, errors.Wrap(err, "list notifications")
	}
	return model.ListNotifications{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func filtered(filter model.Filter) *goqu.SelectDataset {
	ds := dialect.From(notificationsTableName)
	if filter.LoanID != 0 {
		ds = ds.Where(goqu.C("loan_id").Eq(filter.LoanID))
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(string(filter.Status)))
	}
	return ds
}

func (r *repository) MarkRead(ctx context.Context, id int64) (model.Notification, error) {
	query, _, err := dialect.Update(notificationsTableName).
		Set(goqu.Record{"status": string(model.StatusRead)}).
		Where(goqu.C("id").Eq(id)).
		Returning(notificationColumns...).
		ToSQL()
	if err != nil {
		return model.Notification{}, errors.Wrap(err, "build update")
	}
	var n model.Notification
	if err = r.db.GetContext(ctx, &n, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, errors.Wrapf(errs.ErrNotFound, "notification %d", id)
		}
		return model.Notification{}, errors.Wrapf(err, "mark notification %d read", id)
	}
	return n, nil
}
