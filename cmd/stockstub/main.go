// Package main запускает учебный сервер склада с данными в памяти.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/storefront-client/internal/stub"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	var (
		addr     = flag.String("a", "localhost:8000", "listen address")
		username = flag.String("u", "demo", "seed user name")
		password = flag.String("p", "demo", "seed user password")
		secret   = flag.String("k", "", "token signing secret")
	)
	flag.Parse()

	state := stub.NewState()
	if err := state.AddUser(*username, *password, "Demo User"); err != nil {
		sugar.Fatalw("seed user error", "error", err.Error())
	}
	seedVariants(state)

	srv := stub.NewServer(state, *secret, logger)

	server := &http.Server{
		Addr:    *addr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting stock stub server", "addr", *addr, "user", *username)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

func seedVariants(state *stub.State) {
	str := func(s string) *string { return &s }

	state.AddVariant(stub.SeedVariant{
		Code:          "7501001234501",
		ProductName:   "Hand Soap",
		Brand:         str("CleanCo"),
		Category:      str("Hygiene"),
		PurchasePrice: decimal.NewFromFloat(6.50),
		SalePrice:     decimal.NewFromFloat(10.00),
		QtyOnHand:     12,
	})
	state.AddVariant(stub.SeedVariant{
		Code:          "7501001234502",
		ProductName:   "Shampoo 400ml",
		Brand:         str("CleanCo"),
		Category:      str("Hygiene"),
		PurchasePrice: decimal.NewFromFloat(18.00),
		SalePrice:     decimal.NewFromFloat(28.50),
		QtyOnHand:     6,
	})
	state.AddVariant(stub.SeedVariant{
		Code:          "7501001234503",
		ProductName:   "Toothbrush",
		Brand:         str("DentaPlus"),
		Category:      str("Hygiene"),
		PurchasePrice: decimal.NewFromFloat(3.20),
		SalePrice:     decimal.NewFromFloat(5.00),
		QtyOnHand:     1,
	})
}
