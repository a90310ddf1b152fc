package notification

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mmeshcher/storefront-client/internal/model"
	"github.com/mmeshcher/storefront-client/internal/storage"
)

type memStore struct {
	values map[string]string
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Get(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *memStore) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *memStore) Remove(key string) error {
	delete(s.values, key)
	return nil
}

type countPlayer struct {
	plays int
}

func (p *countPlayer) Play() {
	p.plays++
}

func alert(variantID, name string, qty int) model.LowStockAlert {
	return model.LowStockAlert{
		VariantID:   variantID,
		ProductName: name,
		QtyOnHand:   qty,
	}
}

func newTestReconciler(t *testing.T, store storage.Store, player Player) *Reconciler {
	t.Helper()

	r := NewReconciler(store, player, nil)
	r.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return r
}

func TestMerge_FirstPassCreatesUnreadAndPlaysSound(t *testing.T) {
	store := newMemStore()
	player := &countPlayer{}
	r := newTestReconciler(t, store, player)

	got := r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	n := got[0]
	if n.VariantID != "v1" || n.QtyOnHand != 1 {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.Read {
		t.Fatalf("new notification must be unread")
	}
	if n.ID == "" {
		t.Fatalf("new notification must get an id")
	}
	if n.Message != "Product Soap has 1 units left" {
		t.Fatalf("message = %q", n.Message)
	}
	if player.plays != 1 {
		t.Fatalf("plays = %d, want 1", player.plays)
	}
	if _, ok := store.values["stock_notifications_v1"]; !ok {
		t.Fatalf("merged list was not persisted")
	}
}

func TestMerge_ThresholdIsOneInclusive(t *testing.T) {
	r := newTestReconciler(t, newMemStore(), nil)

	got := r.Merge([]model.LowStockAlert{
		alert("v0", "Empty", 0),
		alert("v1", "Last one", 1),
		alert("v2", "Plenty", 2),
	})

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (qty 2 is above threshold)", len(got))
	}
	for _, n := range got {
		if n.QtyOnHand > 1 {
			t.Fatalf("notification above threshold leaked: %+v", n)
		}
	}
}

func TestMerge_SecondIdenticalPassIsIdempotent(t *testing.T) {
	store := newMemStore()
	player := &countPlayer{}
	r := newTestReconciler(t, store, player)

	first := r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})

	r.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 30, 0, time.UTC)
	}
	second := r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})

	if len(second) != 1 {
		t.Fatalf("len = %d, want 1", len(second))
	}
	if second[0].ID != first[0].ID {
		t.Fatalf("id changed between passes: %q vs %q", first[0].ID, second[0].ID)
	}
	if !second[0].CreatedAt.Equal(first[0].CreatedAt) {
		t.Fatalf("createdAt changed between passes")
	}
	if !second[0].UpdatedAt.After(first[0].UpdatedAt) {
		t.Fatalf("updatedAt must advance on every pass")
	}
	if second[0].Read != first[0].Read {
		t.Fatalf("read flag changed on identical input")
	}
	if player.plays != 1 {
		t.Fatalf("plays = %d, want 1 (no sound on unchanged input)", player.plays)
	}
}

func TestMerge_ReadPreservedWhenQtyUnchanged(t *testing.T) {
	store := newMemStore()
	player := &countPlayer{}
	r := newTestReconciler(t, store, player)

	got := r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})
	r.MarkRead(got[0].ID)

	got = r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})

	if !got[0].Read {
		t.Fatalf("read flag must survive a merge with unchanged qty")
	}
	if player.plays != 1 {
		t.Fatalf("plays = %d, want 1", player.plays)
	}
}

func TestMerge_QtyChangeResetsReadAndPlaysSound(t *testing.T) {
	store := newMemStore()
	player := &countPlayer{}
	r := newTestReconciler(t, store, player)

	got := r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})
	firstID := got[0].ID
	r.MarkRead(firstID)

	got = r.Merge([]model.LowStockAlert{alert("v1", "Soap", 0)})

	if got[0].Read {
		t.Fatalf("read flag must reset when qty changes")
	}
	if got[0].ID != firstID {
		t.Fatalf("id must be reused for a tracked variant")
	}
	if got[0].QtyOnHand != 0 {
		t.Fatalf("qty = %d, want refreshed 0", got[0].QtyOnHand)
	}
	if player.plays != 2 {
		t.Fatalf("plays = %d, want 2 (changed condition)", player.plays)
	}
}

func TestMerge_RestockedVariantDisappears(t *testing.T) {
	r := newTestReconciler(t, newMemStore(), nil)

	r.Merge([]model.LowStockAlert{
		alert("v1", "Soap", 1),
		alert("v2", "Sponge", 0),
	})

	got := r.Merge([]model.LowStockAlert{alert("v2", "Sponge", 0)})

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].VariantID != "v2" {
		t.Fatalf("restocked variant still tracked: %+v", got)
	}
}

func TestMerge_ProductNameRefreshedOnEveryPass(t *testing.T) {
	r := newTestReconciler(t, newMemStore(), nil)

	r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})
	got := r.Merge([]model.LowStockAlert{alert("v1", "Hand soap", 1)})

	if got[0].ProductName != "Hand soap" {
		t.Fatalf("product name = %q, want refreshed name", got[0].ProductName)
	}
	if got[0].Message != "Product Hand soap has 1 units left" {
		t.Fatalf("message = %q, want rebuilt message", got[0].Message)
	}
}

func TestMerge_PersistedListRoundTrips(t *testing.T) {
	store := newMemStore()
	r := newTestReconciler(t, store, nil)

	want := r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})

	raw := store.values["stock_notifications_v1"]
	var stored []model.Notification
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("persisted value is not valid JSON: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != want[0].ID || stored[0].VariantID != "v1" {
		t.Fatalf("stored list = %+v, want %+v", stored, want)
	}

	// Новый экземпляр поверх того же хранилища видит сохранённый список.
	r2 := newTestReconciler(t, store, nil)
	r2.Load()
	got := r2.Notifications()
	if len(got) != 1 || got[0].ID != want[0].ID {
		t.Fatalf("reloaded list = %+v, want %+v", got, want)
	}
}

func TestLoad_CorruptDataYieldsEmptyList(t *testing.T) {
	store := newMemStore()
	store.values["stock_notifications_v1"] = "{not json"

	r := newTestReconciler(t, store, nil)
	r.Load()

	if len(r.Notifications()) != 0 {
		t.Fatalf("corrupt data must yield an empty list")
	}
}

func TestMerge_StorageWriteFailureIsSwallowed(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("disk full")
	r := newTestReconciler(t, store, nil)

	got := r.Merge([]model.LowStockAlert{alert("v1", "Soap", 1)})

	if len(got) != 1 {
		t.Fatalf("merge result must not depend on persistence: %+v", got)
	}
}

func TestUnreadCount(t *testing.T) {
	r := newTestReconciler(t, newMemStore(), nil)

	got := r.Merge([]model.LowStockAlert{
		alert("v1", "Soap", 1),
		alert("v2", "Sponge", 0),
	})
	if r.UnreadCount() != 2 {
		t.Fatalf("unread = %d, want 2", r.UnreadCount())
	}

	r.MarkRead(got[0].ID)
	if r.UnreadCount() != 1 {
		t.Fatalf("unread = %d, want 1", r.UnreadCount())
	}
}

func TestMerge_StableOrderOnEqualTimestamps(t *testing.T) {
	r := newTestReconciler(t, newMemStore(), nil)

	got := r.Merge([]model.LowStockAlert{
		alert("v1", "Soap", 1),
		alert("v2", "Sponge", 0),
		alert("v3", "Brush", 1),
	})

	// Все updatedAt одного прохода совпадают, порядок входа сохраняется.
	wantOrder := []string{"v1", "v2", "v3"}
	for i, id := range wantOrder {
		if got[i].VariantID != id {
			t.Fatalf("got[%d].VariantID = %s, want %s", i, got[i].VariantID, id)
		}
	}
}
