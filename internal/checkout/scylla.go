package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Implémentations ScyllaDB des dépôts du checkout.

type ScyllaCatalog struct{}

func (ScyllaCatalog) Product(ctx context.Context, productID string) (models.Product, error) {
	var p models.Product

	session, err := database.GetProductsSession()
	if err != nil {
		return p, err
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return p, fmt.Errorf("ID produit invalide: %s", productID)
	}

	err = session.Query(`SELECT product_id, name, slug, price, stock, image_urls
		FROM products WHERE product_id = ?`, gocql.UUID(pid)).WithContext(ctx).
		Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Stock, &p.ImageURLs)
	if err == gocql.ErrNotFound {
		return p, ErrNotFound
	}
	return p, err
}

type ScyllaOrders struct{}

func (ScyllaOrders) InsertOrder(ctx context.Context, o models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	query := `INSERT INTO orders (order_id, user_id, email, status, subtotal, discount,
		shipping_cost, total, payment_method, coupon_code, shipping_address, billing_address,
		stripe_session_id, stripe_fee, stripe_payout, paid_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := session.Query(query,
		o.ID, o.UserID, o.Email, o.Status, o.Subtotal, o.Discount,
		o.ShippingCost, o.Total, o.PaymentMethod, o.CouponCode, o.ShippingAddress, o.BillingAddress,
		o.StripeSessionID, o.StripeFee, o.StripePayout, o.PaidAt, o.CreatedAt, o.UpdatedAt,
	).WithContext(ctx).Exec(); err != nil {
		return err
	}

	// Table de lecture par utilisateur (mode ScyllaDB : une table par
	// requête). La ligne porte tout ce que la vue "mes commandes" affiche,
	// sinon ces colonnes ressortiraient à zéro.
	return session.Query(insertOrderByUserCQL,
		o.UserID, o.ID, o.Status, o.Subtotal, o.Discount, o.ShippingCost, o.Total,
		o.PaymentMethod, o.CouponCode, o.StripeSessionID, o.CreatedAt).WithContext(ctx).Exec()
}

const insertOrderByUserCQL = `INSERT INTO orders_by_user (user_id, order_id, status, subtotal, discount,
	shipping_cost, total, payment_method, coupon_code, stripe_session_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (ScyllaOrders) InsertItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	// Insertion en un seul batch : toutes les lignes ou aucune.
	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, item := range items {
		batch.Query(`INSERT INTO order_items (order_id, product_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity)
	}
	return session.ExecuteBatch(batch)
}

func (ScyllaOrders) DeleteOrder(ctx context.Context, orderID gocql.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	var userID string
	if err := session.Query(`SELECT user_id FROM orders WHERE order_id = ?`, orderID).
		WithContext(ctx).Scan(&userID); err == nil {
		_ = session.Query(`DELETE FROM orders_by_user WHERE user_id = ? AND order_id = ?`,
			userID, orderID).WithContext(ctx).Exec()
	}

	return session.Query(`DELETE FROM orders WHERE order_id = ?`, orderID).
		WithContext(ctx).Exec()
}

type ScyllaCoupons struct{}

func (ScyllaCoupons) ByCode(ctx context.Context, code string) (models.Coupon, error) {
	var c models.Coupon

	session, err := database.GetOrdersSession()
	if err != nil {
		return c, err
	}

	err = session.Query(`SELECT id, code, type, amount, min_spend, max_spend, expiry_date,
		usage_limit, usage_count, is_active, created_by, created_at, updated_at
		FROM coupons WHERE code = ?`, strings.ToUpper(code)).WithContext(ctx).
		Scan(&c.ID, &c.Code, &c.Type, &c.Amount, &c.MinSpend, &c.MaxSpend, &c.ExpiryDate,
			&c.UsageLimit, &c.UsageCount, &c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err == gocql.ErrNotFound {
		return c, ErrNotFound
	}
	return c, err
}

const couponCASAttempts = 5

// IncrementUsage incrémente le compteur par compare-and-swap (LWT) :
// l'incrément lecture-puis-écriture nu laisserait deux redemptions
// concurrentes dépasser la limite.
func (ScyllaCoupons) IncrementUsage(ctx context.Context, code string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	code = strings.ToUpper(code)

	for attempt := 0; attempt < couponCASAttempts; attempt++ {
		var count, limit int
		if err := session.Query(`SELECT usage_count, usage_limit FROM coupons WHERE code = ?`, code).
			WithContext(ctx).Scan(&count, &limit); err != nil {
			return err
		}

		if limit > 0 && count >= limit {
			return fmt.Errorf("coupon %s: limite d'utilisation atteinte", code)
		}

		var prev int
		applied, err := session.Query(
			`UPDATE coupons SET usage_count = ?, updated_at = ? WHERE code = ? IF usage_count = ?`,
			count+1, time.Now(), code, count).WithContext(ctx).ScanCAS(&prev)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		// Un autre passage de commande a gagné la course, on rejoue.
	}

	return fmt.Errorf("coupon %s: contention trop forte, incrément abandonné", code)
}

type ScyllaSettings struct{}

func (ScyllaSettings) PaymentSettings(ctx context.Context) (models.PaymentSettings, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.PaymentSettings{}, err
	}

	var s models.PaymentSettings
	err = session.Query(`SELECT cod_enabled, stripe_enabled, bank_enabled, flat_shipping_rate,
		free_shipping_above, bank_beneficiary, bank_iban, bank_bic, updated_at
		FROM settings WHERE id = 'payment'`).WithContext(ctx).
		Scan(&s.CODEnabled, &s.StripeEnabled, &s.BankEnabled, &s.FlatShippingRate,
			&s.FreeShippingAbove, &s.BankBeneficiary, &s.BankIBAN, &s.BankBIC, &s.UpdatedAt)
	if err == gocql.ErrNotFound {
		return models.DefaultPaymentSettings(), nil
	}
	return s, err
}

// SavePaymentSettings écrit la configuration (dashboard admin).
func SavePaymentSettings(ctx context.Context, s models.PaymentSettings) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE settings SET cod_enabled = ?, stripe_enabled = ?, bank_enabled = ?,
		flat_shipping_rate = ?, free_shipping_above = ?, bank_beneficiary = ?, bank_iban = ?,
		bank_bic = ?, updated_at = ? WHERE id = 'payment'`,
		s.CODEnabled, s.StripeEnabled, s.BankEnabled, s.FlatShippingRate,
		s.FreeShippingAbove, s.BankBeneficiary, s.BankIBAN, s.BankBIC, time.Now()).
		WithContext(ctx).Exec()
}
