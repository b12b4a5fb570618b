package cart

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(40 * time.Millisecond)
	var fired int32

	for i := 0; i < 5; i++ {
		d.Schedule("u1", func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("5 éditions rapprochées doivent donner 1 seul flush, obtenu %d", got)
	}
}

func TestDebouncerResetsOnNewEdit(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var fired int32

	d.Schedule("u1", func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(30 * time.Millisecond)
	// Nouvelle édition avant l'échéance : le compte à rebours repart.
	d.Schedule("u1", func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(30 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("le flush ne doit pas encore avoir eu lieu, obtenu %d", got)
	}

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("attendu 1 flush après la période calme, obtenu %d", got)
	}
}

func TestDebouncerFlushRunsImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var fired int32

	d.Schedule("u1", func() { atomic.AddInt32(&fired, 1) })
	d.Flush("u1")

	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("Flush doit exécuter le flush en attente, obtenu %d", got)
	}

	// Plus rien en attente : un second Flush est sans effet.
	d.Flush("u1")
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("Flush sans flush en attente ne doit rien faire, obtenu %d", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired int32

	d.Schedule("u1", func() { atomic.AddInt32(&fired, 1) })
	d.Cancel("u1")

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("un flush annulé ne doit jamais s'exécuter, obtenu %d", got)
	}
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var u1, u2 int32

	d.Schedule("u1", func() { atomic.AddInt32(&u1, 1) })
	d.Schedule("u2", func() { atomic.AddInt32(&u2, 1) })

	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&u1) != 1 || atomic.LoadInt32(&u2) != 1 {
		t.Errorf("chaque clé a son propre compte à rebours: u1=%d u2=%d", u1, u2)
	}
}
