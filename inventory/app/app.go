package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/inventory-loan-service/inventory/config"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/handler"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/queue"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/repository"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/scanner"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/server"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/service"
	"github.com/Astemirdum/inventory-loan-service/inventory/migrations"
	"github.com/Astemirdum/inventory-loan-service/pkg/circuit_breaker"
	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
	"github.com/Astemirdum/inventory-loan-service/pkg/logger"
	"github.com/Astemirdum/inventory-loan-service/pkg/postgres"
	"github.com/Astemirdum/inventory-loan-service/pkg/redislock"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "inventory")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo: %w", err)
	}

	var pub service.Publisher
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka.NewProducer: %w", err)
		}
		p := queue.NewPublisher(producer, circuit_breaker.New(20, 10*time.Second, 0.5, 2), log)
		defer p.Close() //nolint:errcheck
		pub = p
	} else {
		log.Warn("KAFKA_ADDRS is empty, loan events are not published")
	}
	svc := service.NewService(repo, pub, log)

	h := handler.New(svc, svc, svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	if cfg.Scanner.Enabled {
		var locker scanner.Locker
		if cfg.Redis.Addr != "" {
			rdb, err := redislock.NewClient(ctx, cfg.Redis)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer rdb.Close() //nolint:errcheck
			locker = redislock.New(rdb)
		}
		sc := scanner.New(svc, locker, cfg.Scanner.Interval, log)
		g.Go(func() error {
			sc.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err = g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
