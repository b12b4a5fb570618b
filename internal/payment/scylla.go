package payment

import (
	"context"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaFinalizer applique la transition pending → paid dans ScyllaDB.
type ScyllaFinalizer struct{}

func (ScyllaFinalizer) MarkPaid(ctx context.Context, orderID gocql.UUID, sessionID string, fee, net float64, paidAt time.Time) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	// Mise à jour absolue : rejouer la confirmation réécrit les mêmes
	// valeurs, l'état ne bouge pas. updated_at est calé sur paid_at pour
	// la même raison : pas d'horloge locale dans cette transition.
	if err := session.Query(`UPDATE orders SET status = ?, payment_method = ?,
		stripe_session_id = ?, stripe_fee = ?, stripe_payout = ?, paid_at = ?, updated_at = ?
		WHERE order_id = ?`,
		models.OrderStatusPaid, models.PaymentMethodStripe,
		sessionID, fee, net, paidAt, paidAt, orderID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	var userID string
	if err := session.Query(`SELECT user_id FROM orders WHERE order_id = ?`, orderID).
		WithContext(ctx).Scan(&userID); err == nil {
		_ = session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?`,
			models.OrderStatusPaid, userID, orderID).WithContext(ctx).Exec()
	}

	return nil
}

// GetOrder relit une commande complète (e-mail de confirmation, facture).
func GetOrder(ctx context.Context, orderID gocql.UUID) (models.Order, error) {
	var o models.Order

	session, err := database.GetOrdersSession()
	if err != nil {
		return o, err
	}

	err = session.Query(`SELECT order_id, user_id, email, status, subtotal, discount,
		shipping_cost, total, payment_method, coupon_code, shipping_address, billing_address,
		stripe_session_id, stripe_fee, stripe_payout, paid_at, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID).WithContext(ctx).
		Scan(&o.ID, &o.UserID, &o.Email, &o.Status, &o.Subtotal, &o.Discount,
			&o.ShippingCost, &o.Total, &o.PaymentMethod, &o.CouponCode, &o.ShippingAddress, &o.BillingAddress,
			&o.StripeSessionID, &o.StripeFee, &o.StripePayout, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	iter := session.Query(`SELECT order_id, product_id, name, price, quantity
		FROM order_items WHERE order_id = ?`, orderID).WithContext(ctx).Iter()

	var item models.OrderItem
	for iter.Scan(&item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity) {
		o.Items = append(o.Items, item)
	}
	if err := iter.Close(); err != nil {
		return o, err
	}

	return o, nil
}
