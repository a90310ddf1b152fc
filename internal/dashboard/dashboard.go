// Package dashboard периодически обновляет сводку показателей и уведомления.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/storefront-client/internal/api"
	"github.com/mmeshcher/storefront-client/internal/model"
	"github.com/mmeshcher/storefront-client/internal/notification"
)

// API описывает операции API, используемые при обновлении панели.
type API interface {
	DashboardSummary(ctx context.Context) (*api.DashboardSummary, error)
	LowStockAlerts(ctx context.Context) ([]model.LowStockAlert, error)
}

// Refresher запрашивает сводку и список низких остатков: один раз при
// запуске и далее по таймеру. Результат каждого цикла применяется целиком,
// при пересечении циклов побеждает последняя запись.
type Refresher struct {
	api        API
	reconciler *notification.Reconciler
	logger     *zap.SugaredLogger
	interval   time.Duration

	mu      sync.RWMutex
	summary *api.DashboardSummary
}

// NewRefresher создаёт обновление панели с указанным интервалом.
func NewRefresher(apiClient API, rec *notification.Reconciler, logger *zap.SugaredLogger, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{
		api:        apiClient,
		reconciler: rec,
		logger:     logger,
		interval:   interval,
	}
}

// Refresh выполняет один цикл обновления: сводка и остатки запрашиваются
// параллельно, затем список остатков проходит сверку уведомлений.
func (r *Refresher) Refresh(ctx context.Context) error {
	var (
		summary *api.DashboardSummary
		alerts  []model.LowStockAlert
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := r.api.DashboardSummary(gctx)
		if err != nil {
			return fmt.Errorf("dashboard summary: %w", err)
		}
		summary = s
		return nil
	})

	g.Go(func() error {
		a, err := r.api.LowStockAlerts(gctx)
		if err != nil {
			return fmt.Errorf("low stock alerts: %w", err)
		}
		alerts = a
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.summary = summary
	r.mu.Unlock()

	r.reconciler.Merge(alerts)
	return nil
}

// Run выполняет начальное обновление и продолжает по таймеру до отмены
// контекста. Ошибки циклов логируются и не прерывают работу: следующий
// цикл исправит состояние сам.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		r.logError(err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logError(err)
			}
		}
	}
}

// Summary возвращает последнюю полученную сводку показателей, либо nil,
// если ни один цикл ещё не завершился успешно.
func (r *Refresher) Summary() *api.DashboardSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

func (r *Refresher) logError(err error) {
	if r.logger != nil && err != nil {
		r.logger.Errorw("dashboard refresh", "error", err)
	}
}
