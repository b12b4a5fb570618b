package payment

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"atelier_back_end/internal/models"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
)

// StripeProvider parle au vrai Stripe via les Checkout Sessions.
type StripeProvider struct{}

// amountInCents convertit un montant en euros vers des centimes.
// L'arrondi évite la troncature flottante (19.99 * 100 donne 1998.99...).
func amountInCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateSession crée la session de paiement pour une commande en attente.
// Les métadonnées portent l'ID commande et l'ID utilisateur : c'est ce que
// la confirmation exigera pour accepter la session.
func (StripeProvider) CreateSession(_ context.Context, order models.Order) (sessionID, redirectURL string, err error) {
	baseURL := os.Getenv("STORE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(order.Email),
		SuccessURL:    stripe.String(baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(baseURL + "/checkout/cancel"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("eur"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Commande Atelier %s", order.ID)),
					},
					// Total déjà dérivé côté serveur (port et réduction inclus).
					UnitAmount: stripe.Int64(amountInCents(order.Total)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"order_id": order.ID.String(),
			"user_id":  order.UserID,
		},
	}

	s, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return s.ID, s.URL, nil
}

// RetrieveSession récupère la session en développant les données de
// paiement/frais imbriquées jusqu'à la balance transaction.
func (StripeProvider) RetrieveSession(_ context.Context, sessionID string) (SessionInfo, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("payment_intent.latest_charge.balance_transaction")

	s, err := session.Get(sessionID, params)
	if err != nil {
		return SessionInfo{}, err
	}

	info := SessionInfo{
		ID:          s.ID,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		OrderID:     s.Metadata["order_id"],
		UserID:      s.Metadata["user_id"],
		AmountTotal: float64(s.AmountTotal) / 100,
		PaidAt:      time.Unix(s.Created, 0),
	}

	if s.PaymentIntent != nil {
		info.PaymentIntentID = s.PaymentIntent.ID
		if s.PaymentIntent.LatestCharge != nil {
			// L'horodatage du débit fait foi, pas celui de la session.
			info.PaidAt = time.Unix(s.PaymentIntent.LatestCharge.Created, 0)
			if bt := s.PaymentIntent.LatestCharge.BalanceTransaction; bt != nil {
				info.Fee = float64(bt.Fee) / 100
				info.Net = float64(bt.Net) / 100
			}
		}
	}

	return info, nil
}
