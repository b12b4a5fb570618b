package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusArchived  = "archived" // suppression logique, jamais de DELETE physique
)

// Moyens de paiement
const (
	PaymentMethodCOD    = "COD"
	PaymentMethodStripe = "STRIPE"
	PaymentMethodBank   = "BANK"
)

// Order est une tentative de checkout persistée.
// Invariant : Total = Subtotal + ShippingCost - Discount.
type Order struct {
	ID              gocql.UUID  `json:"id" db:"order_id"`
	UserID          string      `json:"user_id" db:"user_id"`
	Email           string      `json:"email" db:"email"`
	Status          string      `json:"status" db:"status"`
	Subtotal        float64     `json:"subtotal" db:"subtotal"`
	Discount        float64     `json:"discount" db:"discount"`
	ShippingCost    float64     `json:"shipping_cost" db:"shipping_cost"`
	Total           float64     `json:"total" db:"total"`
	PaymentMethod   string      `json:"payment_method" db:"payment_method"`
	CouponCode      string      `json:"coupon_code,omitempty" db:"coupon_code"`
	ShippingAddress string      `json:"shipping_address" db:"shipping_address"`
	BillingAddress  string      `json:"billing_address" db:"billing_address"`
	StripeSessionID string      `json:"stripe_session_id,omitempty" db:"stripe_session_id"`
	StripeFee       float64     `json:"stripe_fee,omitempty" db:"stripe_fee"`
	StripePayout    float64     `json:"stripe_payout,omitempty" db:"stripe_payout"`
	PaidAt          *time.Time  `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem est un instantané immuable d'une ligne de panier au moment
// de l'achat. Jamais modifié incrémentalement : l'édition admin supprime
// et réinsère l'ensemble des lignes.
type OrderItem struct {
	OrderID   gocql.UUID `json:"order_id" db:"order_id"`
	ProductID string     `json:"product_id" db:"product_id"`
	Name      string     `json:"name" db:"name"`
	Price     float64    `json:"price" db:"price"`
	Quantity  int        `json:"quantity" db:"quantity"`
}

// ValidOrderStatus indique si un statut est reconnu.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusArchived:
		return true
	}
	return false
}

// ValidPaymentMethod indique si un moyen de paiement est reconnu.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCOD || m == PaymentMethodStripe || m == PaymentMethodBank
}
