package handler

import (
	"context"

	"github.com/Astemirdum/inventory-loan-service/notifier/internal/model"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type NotificationService interface {
	ListNotifications(ctx context.Context, filter model.Filter) (model.ListNotifications, error)
	MarkRead(ctx context.Context, id int64) (model.Notification, error)
}

var _ NotificationService = (*service.Service)(nil)
