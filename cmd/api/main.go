package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bountyboard/points-ledger/internal/api"
	"github.com/bountyboard/points-ledger/internal/api/handler"
	"github.com/bountyboard/points-ledger/internal/api/middleware"
	"github.com/bountyboard/points-ledger/internal/bot"
	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/service"
	"github.com/bountyboard/points-ledger/internal/infrastructure/config"
	"github.com/bountyboard/points-ledger/internal/infrastructure/db"
	"github.com/bountyboard/points-ledger/internal/infrastructure/queue"
	"github.com/bountyboard/points-ledger/internal/infrastructure/telegram"
	"github.com/bountyboard/points-ledger/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "points-ledger: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "points-ledger",
	})

	res := db.NewResources(cfg, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res.Close(closeCtx)
	}()

	store, err := res.OpenStore(ctx, cfg.Store.Driver)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	audit, err := res.OpenAudit(ctx, cfg.Store.Audit)
	if err != nil {
		return fmt.Errorf("open audit: %w", err)
	}

	gate := service.NewAdminGate(cfg.Ledger.AdminIDs)
	if gate.Len() == 0 {
		log.Warn().Msg("ADMIN_IDS is empty: nobody can adjust balances")
	}

	ledger := service.NewLedgerService(store, gate, audit, service.Options{
		Policy:           domain.BalancePolicy{AllowNegative: cfg.Ledger.AllowNegativeBalance},
		LeaderboardLimit: cfg.Ledger.LeaderboardLimit,
	}, logger.For("ledger"))
	auth := service.NewAuthService(gate, cfg.Operator.PasswordHash, cfg.Operator.JWTSecret, cfg.Operator.TokenTTL)

	deps := api.Deps{
		Ledger: ledger,
		Auth:   auth,
		AuthCfg: middleware.AuthConfig{
			JWTSecret:   cfg.Operator.JWTSecret,
			BotToken:    cfg.Telegram.BotToken,
			InitDataTTL: cfg.Telegram.InitDataTTL,
		},
		Log: logger.For("http"),
	}

	var dispatcher *queue.Dispatcher
	if cfg.Telegram.Mode != config.ModeOff {
		client := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken)
		commands := bot.NewHandler(ledger, gate, client, cfg.Telegram.BotUsername, logger.For("bot"))
		dispatcher = queue.NewDispatcher(cfg.Dispatch.Workers, commands, logger.For("dispatcher"))
		dispatcher.Start(ctx)

		switch cfg.Telegram.Mode {
		case config.ModePolling:
			if err := client.DeleteWebhook(ctx); err != nil {
				return fmt.Errorf("delete webhook: %w", err)
			}
			poller := telegram.NewPoller(client, dispatcher, cfg.Telegram.PollTimeout, logger.For("poller"))
			go poller.Run(ctx)
			log.Info().Msg("telegram long polling started")
		case config.ModeWebhook:
			dedup, err := res.Dedup(ctx)
			if err != nil {
				return fmt.Errorf("open dedup: %w", err)
			}
			var deduper handler.Deduper
			if dedup != nil {
				deduper = dedup
			}
			deps.Webhook = handler.NewWebhookHandler(dispatcher, deduper, cfg.Telegram.WebhookSecret, logger.For("webhook"))
			if err := client.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
				return fmt.Errorf("set webhook: %w", err)
			}
			log.Info().Str("url", cfg.Telegram.WebhookURL).Msg("telegram webhook registered")
		}
	}

	// Pingers are collected after every backend has been opened.
	deps.Health = res.Pingers()
	e := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}
	stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if dispatcher != nil {
		dispatcher.Wait()
	}
	log.Info().Msg("server stopped")
	return nil
}
