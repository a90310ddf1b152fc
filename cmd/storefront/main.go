// Package main запускает терминальный клиент магазина.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-client/internal/api"
	"github.com/mmeshcher/storefront-client/internal/config"
	"github.com/mmeshcher/storefront-client/internal/dashboard"
	"github.com/mmeshcher/storefront-client/internal/notification"
	"github.com/mmeshcher/storefront-client/internal/session"
	"github.com/mmeshcher/storefront-client/internal/sound"
	"github.com/mmeshcher/storefront-client/internal/storage"
	"github.com/mmeshcher/storefront-client/internal/ui"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		sugar.Fatalw("state storage initialization error", "error", err.Error())
	}

	client := api.NewClient(cfg.APIBaseURL)

	reconciler := notification.NewReconciler(store, sound.NewBell(os.Stdout), sugar)
	reconciler.Load()

	refresher := dashboard.NewRefresher(client, reconciler, sugar, cfg.RefreshInterval)

	app := ui.NewApp(ui.Params{
		Client:     client,
		Sessions:   session.NewManager(store),
		Reconciler: reconciler,
		Refresher:  refresher,
		Logger:     sugar,
		Input:      os.Stdin,
		Output:     os.Stdout,
		InvoiceDir: filepath.Join(cfg.StateDir, "invoices"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && err != context.Canceled {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
