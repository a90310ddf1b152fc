// Package notification реализует сверку уведомлений о низких остатках.
package notification

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-client/internal/model"
	"github.com/mmeshcher/storefront-client/internal/storage"
)

const (
	// storageKey — ключ, под которым список уведомлений хранится целиком.
	storageKey = "stock_notifications_v1"

	// lowStockThreshold — фиксированный порог низкого остатка, включительно.
	lowStockThreshold = 1
)

// Player воспроизводит звуковой сигнал о новом или изменившемся уведомлении.
type Player interface {
	Play()
}

// Reconciler сверяет свежий список низких остатков с сохранёнными
// уведомлениями: идентификаторы и отметки прочтения переживают сверку,
// пока остаток варианта не изменился. Список уведомлений всегда равен
// отфильтрованному текущему списку остатков, истории не накапливается.
type Reconciler struct {
	store  storage.Store
	player Player
	logger *zap.SugaredLogger
	now    func() time.Time

	mu            sync.Mutex
	notifications []model.Notification
}

// NewReconciler создаёт сверку поверх указанного хранилища и проигрывателя.
func NewReconciler(store storage.Store, player Player, logger *zap.SugaredLogger) *Reconciler {
	return &Reconciler{
		store:  store,
		player: player,
		logger: logger,
		now:    time.Now,
	}
}

// Load восстанавливает сохранённые уведомления. Отсутствующие или
// повреждённые данные дают пустой список, а не ошибку.
func (r *Reconciler) Load() {
	raw, err := r.store.Get(storageKey)
	if err != nil {
		return
	}

	var parsed []model.Notification
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return
	}

	r.mu.Lock()
	r.notifications = parsed
	r.mu.Unlock()
}

// Merge выполняет один проход сверки по свежему списку остатков и возвращает
// итоговый список уведомлений. Звуковой сигнал воспроизводится не более
// одного раза за проход, при появлении нового или изменившегося уведомления.
func (r *Reconciler) Merge(alerts []model.LowStockAlert) []model.Notification {
	r.mu.Lock()

	now := r.now()

	prevByVariant := make(map[string]model.Notification, len(r.notifications))
	for _, n := range r.notifications {
		prevByVariant[n.VariantID] = n
	}

	hasNew := false
	merged := make([]model.Notification, 0, len(alerts))
	for _, a := range alerts {
		if a.QtyOnHand > lowStockThreshold {
			continue
		}

		n := model.Notification{
			VariantID:   a.VariantID,
			ProductName: a.ProductName,
			QtyOnHand:   a.QtyOnHand,
			Message:     buildMessage(a),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		prev, seen := prevByVariant[a.VariantID]
		switch {
		case !seen:
			n.ID = newID(a.VariantID)
			hasNew = true
		case prev.QtyOnHand != a.QtyOnHand:
			n.ID = prev.ID
			n.CreatedAt = prev.CreatedAt
			hasNew = true
		default:
			n.ID = prev.ID
			n.CreatedAt = prev.CreatedAt
			n.Read = prev.Read
		}

		merged = append(merged, n)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})

	r.notifications = merged
	r.persistLocked()

	result := make([]model.Notification, len(merged))
	copy(result, merged)

	r.mu.Unlock()

	if hasNew && r.player != nil {
		r.player.Play()
	}

	return result
}

// MarkRead помечает уведомление прочитанным и сохраняет список.
func (r *Reconciler) MarkRead(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Read = true
		}
	}
	r.persistLocked()
}

// Notifications возвращает копию текущего списка уведомлений.
func (r *Reconciler) Notifications() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]model.Notification, len(r.notifications))
	copy(res, r.notifications)
	return res
}

// UnreadCount возвращает число непрочитанных уведомлений.
func (r *Reconciler) UnreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// persistLocked сохраняет список целиком. Сохранение выполняется по мере
// возможности: следующий цикл сверки перезапишет результат в любом случае.
func (r *Reconciler) persistLocked() {
	raw, err := json.Marshal(r.notifications)
	if err != nil {
		if r.logger != nil {
			r.logger.Errorw("encode notifications", "error", err)
		}
		return
	}
	if err := r.store.Set(storageKey, string(raw)); err != nil {
		if r.logger != nil {
			r.logger.Errorw("persist notifications", "error", err)
		}
	}
}

func buildMessage(a model.LowStockAlert) string {
	return fmt.Sprintf("Product %s has %d units left", a.ProductName, a.QtyOnHand)
}

func newID(variantID string) string {
	return variantID + "-" + uuid.NewString()
}
