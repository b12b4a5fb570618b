package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ErrNotFound est retournée par les dépôts quand l'entité n'existe pas.
var ErrNotFound = errors.New("introuvable")

// CartSnapshotter lit l'instantané distant du panier et le vide après une
// commande finalisée. Implémenté par cart.Store.
type CartSnapshotter interface {
	Snapshot(ctx context.Context, userID string) ([]models.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

// CatalogRepo donne accès aux prix et stocks faisant autorité.
type CatalogRepo interface {
	Product(ctx context.Context, productID string) (models.Product, error)
}

// OrderRepo persiste commandes et lignes. DeleteOrder est l'action de
// compensation de la saga quand l'insertion des lignes échoue.
type OrderRepo interface {
	InsertOrder(ctx context.Context, order models.Order) error
	InsertItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, orderID gocql.UUID) error
}

// CouponRepo lit un coupon et incrémente son compteur d'utilisation par
// compare-and-swap borné.
type CouponRepo interface {
	ByCode(ctx context.Context, code string) (models.Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
}

// SettingsRepo lit la configuration paiement/livraison.
type SettingsRepo interface {
	PaymentSettings(ctx context.Context) (models.PaymentSettings, error)
}

// Service convertit un instantané de panier distant en commande persistée
// plus ses lignes, sous saisie validée. Les prix et la réduction sont
// re-dérivés côté serveur depuis le catalogue et l'état du coupon — la
// saisie client n'est jamais crue sur les montants.
type Service struct {
	Cart     CartSnapshotter
	Catalog  CatalogRepo
	Orders   OrderRepo
	Coupons  CouponRepo
	Settings SettingsRepo
	Now      func() time.Time
}

func NewService(cart CartSnapshotter, catalog CatalogRepo, orders OrderRepo, coupons CouponRepo, settings SettingsRepo) *Service {
	return &Service{
		Cart:     cart,
		Catalog:  catalog,
		Orders:   orders,
		Coupons:  coupons,
		Settings: settings,
		Now:      time.Now,
	}
}

// PlaceOrder crée la commande. Effets de bord, dans l'ordre : insertion de
// la commande (pending) → insertion des lignes (échec ⇒ suppression
// compensatoire de la commande) → incrément CAS du coupon → vidage du
// panier pour COD/virement (les commandes carte gardent leur panier
// jusqu'à la confirmation du paiement).
func (s *Service) PlaceOrder(ctx context.Context, userID, email string, in Input) (*models.Order, error) {
	if userID == "" || email == "" {
		return nil, errUnauthorized()
	}

	if fields := ValidateInput(in); fields != nil {
		return nil, errValidation(fields)
	}

	settings, err := s.Settings.PaymentSettings(ctx)
	if err != nil {
		log.Printf("⚠️ Lecture réglages paiement échouée: %v", err)
		settings = models.DefaultPaymentSettings()
	}
	if !settings.MethodEnabled(in.PaymentMethod) {
		return nil, errValidation(map[string]string{
			"payment_method": "Ce moyen de paiement est désactivé",
		})
	}

	// Instantané du panier distant (flush du debounce inclus).
	items, err := s.Cart.Snapshot(ctx, userID)
	if err != nil {
		return nil, errOrderCreation(err.Error())
	}
	if len(items) == 0 {
		return nil, errEmptyCart()
	}

	// Re-tarification depuis le catalogue : les prix du panier ne font
	// pas autorité.
	for i := range items {
		product, err := s.Catalog.Product(ctx, items[i].ProductID)
		if err != nil {
			return nil, errOrderCreation("produit introuvable: " + items[i].ProductID)
		}
		if product.Stock < items[i].Quantity {
			return nil, &Error{
				Code: CodeOutOfStock,
				Message: fmt.Sprintf("Stock insuffisant pour %s (disponible: %d, demandé: %d)",
					product.Name, product.Stock, items[i].Quantity),
			}
		}
		items[i].Name = product.Name
		items[i].Price = product.Price
	}

	subtotal := models.Cart{Items: items}.Subtotal()

	// Re-validation du coupon au moment du passage de commande.
	var discount float64
	var couponCode string
	if in.CouponCode != "" {
		code := strings.ToUpper(strings.TrimSpace(in.CouponCode))
		coupon, err := s.Coupons.ByCode(ctx, code)
		if err != nil {
			return nil, &Error{Code: CodeCouponInvalid, Message: "Code coupon invalide"}
		}
		validation := ValidateCoupon(coupon, subtotal, s.Now())
		if !validation.IsValid {
			return nil, &Error{Code: validation.ErrorCode, Message: validation.ErrorMessage}
		}
		discount = validation.Discount
		couponCode = validation.Code
	}

	shipping := settings.FlatShippingRate
	if settings.FreeShippingAbove > 0 && subtotal >= settings.FreeShippingAbove {
		shipping = 0
	}

	totals := ComputeTotals(items, shipping, discount)
	if !CheckTotals(totals) {
		return nil, errOrderCreation("montants incohérents")
	}

	billing := in.BillingAddress
	if strings.TrimSpace(billing) == "" {
		billing = in.ShippingAddress
	}

	now := s.Now()
	order := models.Order{
		ID:              gocql.TimeUUID(),
		UserID:          userID,
		Email:           email,
		Status:          models.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		ShippingCost:    totals.ShippingCost,
		Total:           totals.Total,
		PaymentMethod:   in.PaymentMethod,
		CouponCode:      couponCode,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  billing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	if err := s.Orders.InsertOrder(ctx, order); err != nil {
		return nil, errOrderCreation(err.Error())
	}

	if err := s.Orders.InsertItems(ctx, order.Items); err != nil {
		// Compensation : pas de commande orpheline sans lignes.
		if delErr := s.Orders.DeleteOrder(ctx, order.ID); delErr != nil {
			log.Printf("❌ Compensation échouée pour la commande %s: %v", order.ID, delErr)
		}
		return nil, errOrderItemsCreation(err.Error())
	}

	if couponCode != "" {
		if err := s.Coupons.IncrementUsage(ctx, couponCode); err != nil {
			// La commande est valide ; on trace seulement.
			log.Printf("⚠️ Incrément du coupon %s échoué: %v", couponCode, err)
		}
	}

	// COD et virement sont finalisés à la création : le panier est vidé
	// tout de suite. Les commandes Stripe attendent la confirmation.
	if in.PaymentMethod != models.PaymentMethodStripe {
		if err := s.Cart.Clear(ctx, userID); err != nil {
			log.Printf("⚠️ Vidage du panier échoué pour %s: %v", userID, err)
		}
	}

	log.Printf("🧾 Commande %s créée (%s, %.2f€) pour %s", order.ID, order.PaymentMethod, order.Total, email)
	return &order, nil
}
