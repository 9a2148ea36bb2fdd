package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dparedesb/servicetimes/internal/audit"
	"github.com/dparedesb/servicetimes/internal/board"
	"github.com/dparedesb/servicetimes/internal/config"
	"github.com/dparedesb/servicetimes/internal/draft"
	"github.com/dparedesb/servicetimes/internal/gateway"
	"github.com/dparedesb/servicetimes/internal/logger"
	"github.com/dparedesb/servicetimes/internal/rows"
	"github.com/dparedesb/servicetimes/internal/screen"
	"github.com/dparedesb/servicetimes/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	sc, err := screen.ByName(cfg.Screen)
	if err != nil {
		log.Fatal("invalid screen", zap.String("screen", cfg.Screen), zap.Error(err))
	}

	var producer audit.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = audit.NewKafkaProducer(cfg.KafkaBrokers, cfg.AuditTopic)
		log.Info("audit trail publishing to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.AuditTopic))
	} else {
		producer = audit.NewConsoleProducer(log)
		log.Info("no kafka brokers configured, audit trail goes to the log")
	}
	trail := audit.NewTrail(producer, log, cfg.AuditWorkers, cfg.AuditBatchSize, cfg.AuditFlushTimeout)
	trail.Start(ctx)

	gw := gateway.NewWS(cfg.GatewayURL, sc.Collection, log)
	if err := gw.Open(ctx); err != nil {
		log.Fatal("failed to open gateway", zap.Error(err))
	}

	store := rows.NewStore()
	b := board.New(sc, store, gw, trail, log, cfg.TerminalID)
	if cfg.DraftPath != "" {
		drafts := draft.NewFileStore(cfg.DraftPath)
		if saved, err := drafts.Load(); err != nil {
			log.Warn("failed to load drafts, starting empty", zap.Error(err))
		} else if len(saved) > 0 {
			store.ReplaceAll(saved)
			log.Info("drafts restored", zap.Int("rows", len(saved)))
		}
		b.UseDraftStore(drafts)
	}
	srv := server.New(b, log, cfg.AuthUser, cfg.AuthPasswordHash)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(cfg.HTTPPort)
	})
	g.Go(func() error {
		b.RequestSnapshot(gctx)
		err := b.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
		if err := gw.Close(); err != nil {
			log.Error("gateway close failed", zap.Error(err))
		}
		trail.Shutdown(shutdownCtx)
		return nil
	})

	log.Info("terminal started",
		zap.String("screen", sc.Name),
		zap.String("collection", sc.Collection),
		zap.String("terminal", cfg.TerminalID),
		zap.String("port", cfg.HTTPPort))

	if err := g.Wait(); err != nil {
		log.Error("terminal stopped with error", zap.Error(err))
		return
	}
	log.Info("terminal stopped")
}
