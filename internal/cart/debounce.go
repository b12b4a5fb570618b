package cart

import (
	"sync"
	"time"
)

// Debouncer regroupe une rafale d'éditions en une seule écriture différée
// par clé. Chaque nouvel appel à Schedule remet le compte à rebours à zéro
// (last-write-wins après la période calme).
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingFlush
}

type pendingFlush struct {
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pendingFlush),
	}
}

// Schedule programme fn après la période calme. Un flush déjà en attente
// pour la même clé est annulé et remplacé.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	p := &pendingFlush{fn: fn}
	p.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending[key] == p {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.pending[key] = p
}

// Flush exécute immédiatement le flush en attente pour la clé, s'il existe.
func (d *Debouncer) Flush(key string) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
	d.mu.Unlock()

	if ok {
		p.fn()
	}
}

// Cancel abandonne le flush en attente pour la clé sans l'exécuter.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// FlushAll exécute tous les flushs en attente (arrêt du serveur).
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	pending := d.pending
	d.pending = make(map[string]*pendingFlush)
	for _, p := range pending {
		p.timer.Stop()
	}
	d.mu.Unlock()

	for _, p := range pending {
		p.fn()
	}
}
