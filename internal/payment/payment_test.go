package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

type fakeProvider struct {
	sessions map[string]SessionInfo
}

func (f *fakeProvider) RetrieveSession(_ context.Context, id string) (SessionInfo, error) {
	info, ok := f.sessions[id]
	if !ok {
		return SessionInfo{}, errors.New("session inconnue")
	}
	return info, nil
}

type paidState struct {
	status    string
	sessionID string
	fee, net  float64
	paidAt    time.Time
}

type fakeFinalizer struct {
	orders map[gocql.UUID]*paidState
	calls  int
}

func (f *fakeFinalizer) MarkPaid(_ context.Context, orderID gocql.UUID, sessionID string, fee, net float64, paidAt time.Time) error {
	f.calls++
	f.orders[orderID] = &paidState{status: "paid", sessionID: sessionID, fee: fee, net: net, paidAt: paidAt}
	return nil
}

type fakeClearer struct {
	cleared []string
	fail    bool
}

func (f *fakeClearer) Clear(_ context.Context, userID string) error {
	if f.fail {
		return errors.New("panne simulée")
	}
	f.cleared = append(f.cleared, userID)
	return nil
}

var testOrderID = uuid.MustParse("a2f1c90e-3b44-11ef-9454-0242ac120002")

func paidSession() SessionInfo {
	return SessionInfo{
		ID:          "cs_test_123",
		Paid:        true,
		OrderID:     testOrderID.String(),
		UserID:      "u1",
		AmountTotal: 75,
		Fee:         2.48,
		Net:         72.52,
		PaidAt:      time.Date(2026, 7, 30, 9, 15, 0, 0, time.UTC),
	}
}

func testConfirm(info SessionInfo) (*Service, *fakeFinalizer, *fakeClearer) {
	provider := &fakeProvider{sessions: map[string]SessionInfo{info.ID: info}}
	finalizer := &fakeFinalizer{orders: make(map[gocql.UUID]*paidState)}
	clearer := &fakeClearer{}
	svc := NewService(provider, finalizer, clearer)
	svc.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return svc, finalizer, clearer
}

func TestConfirmHappyPath(t *testing.T) {
	svc, finalizer, clearer := testConfirm(paidSession())

	res, err := svc.Confirm(context.Background(), "cs_test_123")
	if err != nil {
		t.Fatal(err)
	}

	if res.OrderID != testOrderID.String() || res.Status != "paid" {
		t.Errorf("résultat inattendu: %+v", res)
	}

	state := finalizer.orders[gocql.UUID(testOrderID)]
	if state == nil || state.status != "paid" {
		t.Fatal("la commande doit passer à paid")
	}
	if state.fee != 2.48 || state.net != 72.52 {
		t.Errorf("frais/net attendus 2.48/72.52, obtenu %.2f/%.2f", state.fee, state.net)
	}
	if len(clearer.cleared) != 1 || clearer.cleared[0] != "u1" {
		t.Errorf("le panier de u1 doit être vidé, obtenu %v", clearer.cleared)
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	svc, finalizer, _ := testConfirm(paidSession())
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, "cs_test_123"); err != nil {
		t.Fatal(err)
	}
	first := *finalizer.orders[gocql.UUID(testOrderID)]

	// Rejeu client après coupure réseau : mêmes mises à jour, même état.
	if _, err := svc.Confirm(ctx, "cs_test_123"); err != nil {
		t.Fatal(err)
	}
	second := *finalizer.orders[gocql.UUID(testOrderID)]

	if first != second {
		t.Errorf("double confirmation doit laisser l'état inchangé: %+v vs %+v", first, second)
	}
	if finalizer.calls != 2 {
		t.Errorf("la mise à jour est rejouée (absolue), attendu 2 appels, obtenu %d", finalizer.calls)
	}
}

// Horloge réelle, exprès : paid_at doit venir de la session fournisseur,
// pas du moment où le client rejoue la confirmation.
func TestConfirmReplayKeepsPaidAt(t *testing.T) {
	info := paidSession()
	provider := &fakeProvider{sessions: map[string]SessionInfo{info.ID: info}}
	finalizer := &fakeFinalizer{orders: make(map[gocql.UUID]*paidState)}
	svc := NewService(provider, finalizer, &fakeClearer{})
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, info.ID); err != nil {
		t.Fatal(err)
	}
	first := finalizer.orders[gocql.UUID(testOrderID)].paidAt

	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Confirm(ctx, info.ID); err != nil {
		t.Fatal(err)
	}
	second := finalizer.orders[gocql.UUID(testOrderID)].paidAt

	if !first.Equal(info.PaidAt) {
		t.Errorf("paid_at doit être l'horodatage du débit fournisseur, obtenu %v", first)
	}
	if !first.Equal(second) {
		t.Errorf("paid_at change au rejeu: %v puis %v", first, second)
	}
}

// Sans horodatage fournisseur (webhook partiel), l'horloge du service sert
// de repli : la confirmation ne doit pas échouer pour autant.
func TestConfirmFallsBackToClockWithoutProviderPaidAt(t *testing.T) {
	info := paidSession()
	info.PaidAt = time.Time{}
	svc, finalizer, _ := testConfirm(info)

	if _, err := svc.Confirm(context.Background(), info.ID); err != nil {
		t.Fatal(err)
	}

	got := finalizer.orders[gocql.UUID(testOrderID)].paidAt
	if !got.Equal(svc.Now()) {
		t.Errorf("repli attendu sur l'horloge du service, obtenu %v", got)
	}
}

func TestConfirmRefusesMissingMetadata(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SessionInfo)
	}{
		{"order_id absent", func(s *SessionInfo) { s.OrderID = "" }},
		{"user_id absent", func(s *SessionInfo) { s.UserID = "" }},
		{"order_id invalide", func(s *SessionInfo) { s.OrderID = "pas-un-uuid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := paidSession()
			tt.mutate(&info)
			svc, finalizer, clearer := testConfirm(info)

			_, err := svc.Confirm(context.Background(), info.ID)

			var perr *Error
			if !errors.As(err, &perr) || perr.Code != CodeVerificationIncomplete {
				t.Fatalf("attendu VERIFICATION_INCOMPLETE, obtenu %v", err)
			}
			// Refusé même si le fournisseur annonce la session payée.
			if finalizer.calls != 0 {
				t.Error("aucune commande ne doit passer à paid sans métadonnées complètes")
			}
			if len(clearer.cleared) != 0 {
				t.Error("le panier ne doit pas être vidé")
			}
		})
	}
}

func TestConfirmRefusesUnpaidSession(t *testing.T) {
	info := paidSession()
	info.Paid = false
	svc, finalizer, _ := testConfirm(info)

	_, err := svc.Confirm(context.Background(), info.ID)

	var perr *Error
	if !errors.As(err, &perr) || perr.Code != CodeVerificationIncomplete {
		t.Fatalf("attendu VERIFICATION_INCOMPLETE, obtenu %v", err)
	}
	if finalizer.calls != 0 {
		t.Error("session non payée = commande inchangée (reste pending)")
	}
}

func TestConfirmUnknownSession(t *testing.T) {
	svc, _, _ := testConfirm(paidSession())

	_, err := svc.Confirm(context.Background(), "cs_inconnue")

	var perr *Error
	if !errors.As(err, &perr) || perr.Code != CodeVerificationIncomplete {
		t.Errorf("attendu VERIFICATION_INCOMPLETE, obtenu %v", err)
	}
}

func TestConfirmCartClearFailureIsNotFatal(t *testing.T) {
	svc, finalizer, clearer := testConfirm(paidSession())
	clearer.fail = true

	res, err := svc.Confirm(context.Background(), "cs_test_123")
	if err != nil {
		t.Fatalf("un échec du vidage de panier ne doit pas faire échouer la confirmation: %v", err)
	}
	if res.Status != "paid" || finalizer.calls != 1 {
		t.Error("la commande doit rester correctement payée (panier périmé seulement)")
	}
}
