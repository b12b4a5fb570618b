package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"atelier_back_end/internal/models"
)

// memReplica est une réplique en mémoire pour les tests.
type memReplica struct {
	mu        sync.Mutex
	carts     map[string][]models.CartItem
	saveCount int
}

func newMemReplica() *memReplica {
	return &memReplica{carts: make(map[string][]models.CartItem)}
}

func (m *memReplica) Load(_ context.Context, userID string) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]models.CartItem, len(m.carts[userID]))
	copy(items, m.carts[userID])
	return items, nil
}

func (m *memReplica) Save(_ context.Context, userID string, items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]models.CartItem, len(items))
	copy(saved, items)
	m.carts[userID] = saved
	m.saveCount++
	return nil
}

func (m *memReplica) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func (m *memReplica) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCount
}

func newTestStore(delay time.Duration) (*Store, *memReplica, *memReplica) {
	local := newMemReplica()
	remote := newMemReplica()
	return NewStore(local, remote, delay, nil), local, remote
}

func totalItems(items []models.CartItem) int {
	return models.Cart{Items: items}.TotalItems()
}

func TestAddIsAccumulative(t *testing.T) {
	store, _, _ := newTestStore(time.Hour)
	ctx := context.Background()

	store.Add(ctx, "u1", item("p1", 0), 2)
	items, err := store.Add(ctx, "u1", item("p1", 0), 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 1 {
		t.Fatalf("même produit ajouté deux fois = une seule ligne, obtenu %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("quantités 2 et 3 doivent donner 5, obtenu %d", items[0].Quantity)
	}
}

func TestTotalItemsInvariant(t *testing.T) {
	store, _, _ := newTestStore(time.Hour)
	ctx := context.Background()

	store.Add(ctx, "u1", item("p1", 0), 2)
	store.Add(ctx, "u1", item("p2", 0), 1)
	store.UpdateQuantity(ctx, "u1", "p2", 4)
	store.Remove(ctx, "u1", "p1")
	store.Add(ctx, "u1", item("p3", 0), 1)

	items, _ := store.Items(ctx, "u1")
	want := 0
	for _, it := range items {
		if it.Quantity < 1 {
			t.Errorf("quantité < 1 interdite: %+v", it)
		}
		want += it.Quantity
	}
	if got := totalItems(items); got != want || got != 5 {
		t.Errorf("totalItems = %d, attendu 5", got)
	}
}

func TestUpdateQuantityBelowOneIsNoop(t *testing.T) {
	store, _, _ := newTestStore(time.Hour)
	ctx := context.Background()

	store.Add(ctx, "u1", item("p1", 0), 2)
	items, err := store.UpdateQuantity(ctx, "u1", "p1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Quantity != 2 {
		t.Errorf("quantité < 1 doit être ignorée, obtenu %d", items[0].Quantity)
	}

	items, _ = store.UpdateQuantity(ctx, "u1", "p1", -4)
	if items[0].Quantity != 2 {
		t.Errorf("quantité négative doit être ignorée, obtenu %d", items[0].Quantity)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _, _ := newTestStore(time.Hour)
	ctx := context.Background()

	store.Add(ctx, "u1", item("p1", 0), 1)
	store.Remove(ctx, "u1", "p1")
	items, err := store.Remove(ctx, "u1", "p1") // déjà absent
	if err != nil {
		t.Fatalf("retirer une ligne absente ne doit pas échouer: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("panier attendu vide, obtenu %v", items)
	}
}

func TestLocalWrittenImmediatelyRemoteDebounced(t *testing.T) {
	store, local, remote := newTestStore(50 * time.Millisecond)
	ctx := context.Background()

	store.Add(ctx, "u1", item("p1", 0), 1)
	store.Add(ctx, "u1", item("p2", 0), 1)
	store.Add(ctx, "u1", item("p3", 0), 1)

	if local.saves() != 3 {
		t.Errorf("la réplique locale doit être écrite à chaque mutation, obtenu %d écritures", local.saves())
	}
	if remote.saves() != 0 {
		t.Errorf("la réplique distante ne doit pas encore être écrite, obtenu %d écritures", remote.saves())
	}

	time.Sleep(150 * time.Millisecond)

	// La rafale d'éditions est regroupée en une seule écriture distante.
	if remote.saves() != 1 {
		t.Errorf("attendu 1 écriture distante après la période calme, obtenu %d", remote.saves())
	}
	items, _ := remote.Load(ctx, "u1")
	if len(items) != 3 {
		t.Errorf("la réplique distante doit porter l'état final, obtenu %v", items)
	}
}

func TestSnapshotFlushesPendingWrite(t *testing.T) {
	store, _, remote := newTestStore(time.Hour) // jamais atteint sans flush
	ctx := context.Background()

	store.Add(ctx, "u1", item("p1", 0), 2)

	items, err := store.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Errorf("Snapshot doit forcer le flush distant, obtenu %v", items)
	}
	if remote.saves() != 1 {
		t.Errorf("attendu 1 écriture distante forcée, obtenu %d", remote.saves())
	}
}

func TestClearEmptiesBothReplicas(t *testing.T) {
	store, local, remote := newTestStore(10 * time.Millisecond)
	ctx := context.Background()

	store.Add(ctx, "u1", item("p1", 0), 2)
	store.Flush("u1")

	if err := store.Clear(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	if items, _ := local.Load(ctx, "u1"); len(items) != 0 {
		t.Errorf("réplique locale non vidée: %v", items)
	}
	if items, _ := remote.Load(ctx, "u1"); len(items) != 0 {
		t.Errorf("réplique distante non vidée: %v", items)
	}

	// Aucune écriture différée ne doit ressusciter le panier.
	time.Sleep(50 * time.Millisecond)
	if items, _ := remote.Load(ctx, "u1"); len(items) != 0 {
		t.Errorf("un flush en attente a ressuscité le panier: %v", items)
	}
}

func TestOpenMergesReplicas(t *testing.T) {
	store, local, remote := newTestStore(time.Hour)
	ctx := context.Background()

	remote.Save(ctx, "u1", []models.CartItem{item("p1", 3)})
	local.Save(ctx, "u1", []models.CartItem{item("p1", 9), item("p2", 1)})

	items, err := store.Open(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("attendu 2 lignes après réconciliation, obtenu %v", items)
	}
	if items[0].ProductID != "p1" || items[0].Quantity != 3 {
		t.Errorf("l'entrée distante doit avoir priorité: %+v", items[0])
	}

	// Réconciliation répétée (reconnexion) : aucun changement.
	again, _ := store.Open(ctx, "u1")
	if totalItems(again) != totalItems(items) || len(again) != len(items) {
		t.Errorf("la réconciliation doit être idempotente: %v vs %v", items, again)
	}
}

func TestSyncDeviceAppendsLocalOnly(t *testing.T) {
	store, _, remote := newTestStore(time.Hour)
	ctx := context.Background()

	remote.Save(ctx, "u1", []models.CartItem{item("p1", 2)})

	device := []models.CartItem{item("p1", 7), item("p2", 1)}
	items, err := store.SyncDevice(ctx, "u1", device)
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("attendu 2 lignes, obtenu %v", items)
	}
	if items[0].Quantity != 2 {
		t.Errorf("l'état serveur doit avoir priorité sur l'appareil: %+v", items[0])
	}
	if items[1].ProductID != "p2" {
		t.Errorf("la ligne appareil seule doit être ajoutée: %v", items)
	}
}
