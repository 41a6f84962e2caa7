package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/inventory-loan-service/notifier/config"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/handler"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/repository"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/server"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/service"
	"github.com/Astemirdum/inventory-loan-service/notifier/migrations"
	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
	"github.com/Astemirdum/inventory-loan-service/pkg/logger"
	"github.com/Astemirdum/inventory-loan-service/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "notifier")
	defer log.Sync() //nolint:errcheck

	if !cfg.Kafka.Enabled() {
		return errors.New("KAFKA_ADDRS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewSqlxDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer db.Close() //nolint:errcheck
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo: %w", err)
	}
	svc := service.NewService(repo, log)

	group, err := kafka.NewConsumer(cfg.Kafka, kafka.NotifierConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer: %w", err)
	}
	consumer := handler.NewConsumer(svc.HandleLoanEvent, log)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		return kafka.Consume(gctx, group, consumer, kafka.LoanEventsTopic)
	})
	g.Go(func() error {
		select {
		case <-consumer.Ready():
			log.Info("consumer up and running", zap.String("topic", kafka.LoanEventsTopic))
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := group.Close(); err != nil {
			log.Error("close consumer group", zap.Error(err))
		}
		return srv.Stop(closeCtx)
	})

	if err = g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
