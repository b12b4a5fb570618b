package cart

import (
	"context"
	"log"
	"time"

	"atelier_back_end/internal/models"
)

// Replica est une copie durable du panier d'un utilisateur.
// Deux répliques coexistent : la locale (Redis, écrite immédiatement) et
// la distante (profil ScyllaDB, écrite après debounce).
type Replica interface {
	Load(ctx context.Context, userID string) ([]models.CartItem, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Clear(ctx context.Context, userID string) error
}

// Notifier signale un changement de panier (pub/sub pour le websocket).
type Notifier func(userID, event string)

// Store maintient les lignes de panier en cours d'un acheteur avec une
// cohérence best-effort entre les deux répliques. Les échecs d'écriture
// distante ne sont ni réessayés ni remontés : la réplique locale reste la
// source de vérité jusqu'à la prochaine réconciliation.
type Store struct {
	local    Replica
	remote   Replica
	debounce *Debouncer
	notify   Notifier
}

const DefaultFlushDelay = 2 * time.Second

func NewStore(local, remote Replica, flushDelay time.Duration, notify Notifier) *Store {
	if flushDelay <= 0 {
		flushDelay = DefaultFlushDelay
	}
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Store{
		local:    local,
		remote:   remote,
		debounce: NewDebouncer(flushDelay),
		notify:   notify,
	}
}

// Open charge les deux répliques et les réconcilie (priorité au distant,
// lignes locales orphelines ajoutées). Appelé au montage d'une session et
// à chaque transition de connexion.
func (s *Store) Open(ctx context.Context, userID string) ([]models.CartItem, error) {
	local, err := s.local.Load(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Lecture réplique locale échouée pour %s: %v", userID, err)
		local = nil
	}

	remote, err := s.remote.Load(ctx, userID)
	if err != nil {
		// Réplique distante indisponible : la locale fait foi.
		log.Printf("⚠️ Lecture réplique distante échouée pour %s: %v", userID, err)
		return local, s.local.Save(ctx, userID, local)
	}

	merged := Merge(remote, local)
	if err := s.local.Save(ctx, userID, merged); err != nil {
		return merged, err
	}
	s.scheduleRemoteFlush(userID, merged)
	return merged, nil
}

// SyncDevice réconcilie une réplique postée par un appareil (transition de
// connexion) avec l'état courant, priorité à l'état serveur.
func (s *Store) SyncDevice(ctx context.Context, userID string, device []models.CartItem) ([]models.CartItem, error) {
	current, err := s.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := Merge(current, device)
	if err := s.local.Save(ctx, userID, merged); err != nil {
		return merged, err
	}
	s.scheduleRemoteFlush(userID, merged)
	s.notify(userID, "updated")
	return merged, nil
}

// Add ajoute un produit au panier. Si une ligne avec le même ID produit
// existe, les quantités sont cumulées.
func (s *Store) Add(ctx context.Context, userID string, item models.CartItem, quantity int) ([]models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	item.Quantity = quantity

	items, _ := s.local.Load(ctx, userID)

	found := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, item)
	}

	return items, s.persist(ctx, userID, items)
}

// Remove retire la ligne correspondant à l'ID produit. Aucune erreur si
// elle est absente (idempotent).
func (s *Store) Remove(ctx context.Context, userID, productID string) ([]models.CartItem, error) {
	items, _ := s.local.Load(ctx, userID)

	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	return kept, s.persist(ctx, userID, kept)
}

// UpdateQuantity remplace la quantité d'une ligne. Une quantité < 1 est
// silencieusement ignorée : une ligne ne descend jamais sous 1.
func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) ([]models.CartItem, error) {
	items, _ := s.local.Load(ctx, userID)

	if quantity < 1 {
		return items, nil
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}

	return items, s.persist(ctx, userID, items)
}

// Clear vide toutes les lignes, sur les deux répliques, immédiatement.
// Appelé après une commande COD/virement ou un paiement carte vérifié.
func (s *Store) Clear(ctx context.Context, userID string) error {
	s.debounce.Cancel(userID)

	if err := s.local.Clear(ctx, userID); err != nil {
		return err
	}
	if err := s.remote.Clear(ctx, userID); err != nil {
		// Panier distant périmé : non destructif, réconcilié à la
		// prochaine session.
		log.Printf("⚠️ Vidage réplique distante échoué pour %s: %v", userID, err)
	}
	s.notify(userID, "cleared")
	return nil
}

// Snapshot force le flush distant en attente puis lit la réplique
// distante. C'est la lecture qu'utilise le passage de commande.
func (s *Store) Snapshot(ctx context.Context, userID string) ([]models.CartItem, error) {
	s.debounce.Flush(userID)
	return s.remote.Load(ctx, userID)
}

// Items lit la réplique locale.
func (s *Store) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.local.Load(ctx, userID)
}

// Flush force l'écriture distante en attente pour un utilisateur.
func (s *Store) Flush(userID string) {
	s.debounce.Flush(userID)
}

// Close flushe toutes les écritures distantes en attente.
func (s *Store) Close() {
	s.debounce.FlushAll()
}

// persist écrit la réplique locale immédiatement et programme l'écriture
// distante après la période calme. Choix assumé de cohérence à terme :
// une rafale d'éditions ne coûte qu'une écriture distante.
func (s *Store) persist(ctx context.Context, userID string, items []models.CartItem) error {
	if err := s.local.Save(ctx, userID, items); err != nil {
		return err
	}
	s.scheduleRemoteFlush(userID, items)
	s.notify(userID, "updated")
	return nil
}

func (s *Store) scheduleRemoteFlush(userID string, items []models.CartItem) {
	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)

	s.debounce.Schedule(userID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.remote.Save(ctx, userID, snapshot); err != nil {
			log.Printf("⚠️ Sync réplique distante échouée pour %s: %v", userID, err)
		}
	})
}
