// Package payment vérifie les sessions de paiement carte et finalise les
// commandes Stripe. Les commandes COD/virement sont finalisées de manière
// synchrone au passage de commande, pas ici.
package payment

import (
	"context"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const CodeVerificationIncomplete = "VERIFICATION_INCOMPLETE"

// Error est une erreur codée de la confirmation de paiement.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func errVerification(msg string) *Error {
	return &Error{Code: CodeVerificationIncomplete, Message: msg}
}

// SessionInfo est la vue du fournisseur de paiement sur une session de
// checkout, avec les données de frais imbriquées développées.
type SessionInfo struct {
	ID              string
	Paid            bool
	OrderID         string // metadata
	UserID          string // metadata
	PaymentIntentID string
	AmountTotal     float64
	Fee             float64
	Net             float64
	PaidAt          time.Time // horodatage du débit côté fournisseur
}

// Provider est le fournisseur de paiement externe (Stripe en production).
type Provider interface {
	RetrieveSession(ctx context.Context, sessionID string) (SessionInfo, error)
}

// OrderFinalizer marque une commande comme payée. La mise à jour est
// absolue (pas additive) : la rejouer produit le même état.
type OrderFinalizer interface {
	MarkPaid(ctx context.Context, orderID gocql.UUID, sessionID string, fee, net float64, paidAt time.Time) error
}

// CartClearer vide le panier d'un utilisateur. Implémenté par cart.Store.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

// Result est retourné au client après une confirmation réussie.
type Result struct {
	OrderID string  `json:"order_id"`
	Status  string  `json:"status"`
	Amount  float64 `json:"amount"`
}

type Service struct {
	Provider Provider
	Orders   OrderFinalizer
	Cart     CartClearer
	Now      func() time.Time
}

func NewService(provider Provider, orders OrderFinalizer, cart CartClearer) *Service {
	return &Service{Provider: provider, Orders: orders, Cart: cart, Now: time.Now}
}

// Confirm vérifie une session auprès du fournisseur et finalise la
// commande : pending → paid. Garde-fou anti-rejeu : même si le
// fournisseur annonce la session payée, la confirmation est refusée si
// les métadonnées ne portent pas l'ID commande ET l'ID utilisateur.
// Rejouable sans danger : les deux mises à jour sont idempotentes.
func (s *Service) Confirm(ctx context.Context, sessionID string) (*Result, error) {
	if sessionID == "" {
		return nil, errVerification("Identifiant de session manquant")
	}

	info, err := s.Provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, errVerification("Session de paiement introuvable")
	}

	if !info.Paid {
		return nil, errVerification("Paiement non confirmé par le fournisseur")
	}

	if info.OrderID == "" || info.UserID == "" {
		return nil, errVerification("Métadonnées de session incomplètes")
	}

	oid, err := uuid.Parse(info.OrderID)
	if err != nil {
		return nil, errVerification("ID commande invalide dans les métadonnées")
	}

	// paid_at vient du fournisseur : rejouer la confirmation réécrit le
	// même horodatage, pas celui du rejeu.
	paidAt := info.PaidAt
	if paidAt.IsZero() {
		paidAt = s.Now()
	}

	if err := s.Orders.MarkPaid(ctx, gocql.UUID(oid), info.ID, info.Fee, info.Net, paidAt); err != nil {
		return nil, &Error{Code: "ORDER_UPDATE_FAILED", Message: "Erreur mise à jour commande: " + err.Error()}
	}

	// Vidage du panier après paiement vérifié. Appel indépendant : en cas
	// d'échec la commande reste correctement payée, seul le panier est
	// périmé (réconcilié à la prochaine session).
	if err := s.Cart.Clear(ctx, info.UserID); err != nil {
		log.Printf("⚠️ Vidage du panier après paiement échoué pour %s: %v", info.UserID, err)
	}

	log.Printf("💳 Paiement confirmé : session %s → commande %s payée", info.ID, info.OrderID)

	return &Result{
		OrderID: info.OrderID,
		Status:  "paid",
		Amount:  info.AmountTotal,
	}, nil
}
