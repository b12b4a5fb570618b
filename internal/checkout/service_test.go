package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// --- Doublures de test ---

type fakeCart struct {
	mu      sync.Mutex
	items   []models.CartItem
	cleared bool
}

func (f *fakeCart) Snapshot(context.Context, string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, nil
}

func (f *fakeCart) Clear(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
	f.cleared = true
	return nil
}

type fakeCatalog struct {
	products map[string]models.Product
}

func (f *fakeCatalog) Product(_ context.Context, id string) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return p, ErrNotFound
	}
	return p, nil
}

type fakeOrders struct {
	orders      map[gocql.UUID]models.Order
	items       map[gocql.UUID][]models.OrderItem
	failItems   bool
	insertCalls int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders: make(map[gocql.UUID]models.Order),
		items:  make(map[gocql.UUID][]models.OrderItem),
	}
}

func (f *fakeOrders) InsertOrder(_ context.Context, o models.Order) error {
	f.insertCalls++
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrders) InsertItems(_ context.Context, items []models.OrderItem) error {
	if f.failItems {
		return errors.New("panne simulée")
	}
	if len(items) > 0 {
		f.items[items[0].OrderID] = items
	}
	return nil
}

func (f *fakeOrders) DeleteOrder(_ context.Context, id gocql.UUID) error {
	delete(f.orders, id)
	delete(f.items, id)
	return nil
}

type fakeCoupons struct {
	coupons    map[string]models.Coupon
	increments int
}

func (f *fakeCoupons) ByCode(_ context.Context, code string) (models.Coupon, error) {
	c, ok := f.coupons[strings.ToUpper(code)]
	if !ok {
		return c, ErrNotFound
	}
	return c, nil
}

func (f *fakeCoupons) IncrementUsage(_ context.Context, code string) error {
	c := f.coupons[strings.ToUpper(code)]
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return errors.New("limite atteinte")
	}
	c.UsageCount++
	f.coupons[strings.ToUpper(code)] = c
	f.increments++
	return nil
}

type fakeSettings struct{ settings models.PaymentSettings }

func (f *fakeSettings) PaymentSettings(context.Context) (models.PaymentSettings, error) {
	return f.settings, nil
}

func testService(cartItems []models.CartItem) (*Service, *fakeCart, *fakeOrders, *fakeCoupons) {
	cart := &fakeCart{items: cartItems}
	catalog := &fakeCatalog{products: map[string]models.Product{
		"p1": {Name: "Bougie artisanale", Price: 35, Stock: 100},
		"p2": {Name: "Savon au lait", Price: 8, Stock: 2},
	}}
	orders := newFakeOrders()
	coupons := &fakeCoupons{coupons: map[string]models.Coupon{
		"SAVE5": {
			Code: "SAVE5", Type: models.CouponTypeFixed, Amount: 5,
			ExpiryDate: time.Now().Add(time.Hour), IsActive: true,
		},
		"FULL": {
			Code: "FULL", Type: models.CouponTypeFixed, Amount: 5,
			ExpiryDate: time.Now().Add(time.Hour), IsActive: true,
			UsageLimit: 3, UsageCount: 3,
		},
	}}
	settings := &fakeSettings{settings: models.PaymentSettings{
		CODEnabled: true, StripeEnabled: true, BankEnabled: true,
		FlatShippingRate: 10,
	}}

	return NewService(cart, catalog, orders, coupons, settings), cart, orders, coupons
}

func codInput() Input {
	in := validInput()
	in.PaymentMethod = models.PaymentMethodCOD
	return in
}

// --- Tests ---

func TestPlaceOrderUnauthorized(t *testing.T) {
	svc, _, orders, _ := testService([]models.CartItem{{ProductID: "p1", Quantity: 1}})

	_, err := svc.PlaceOrder(context.Background(), "", "", codInput())

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != CodeUnauthorized {
		t.Errorf("attendu UNAUTHORIZED, obtenu %v", err)
	}
	if orders.insertCalls != 0 {
		t.Error("aucune écriture ne doit avoir lieu sans identité")
	}
}

func TestPlaceOrderValidationNoPartialWrite(t *testing.T) {
	svc, _, orders, _ := testService([]models.CartItem{{ProductID: "p1", Quantity: 1}})

	in := codInput()
	in.Email = "invalide"
	_, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", in)

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != CodeValidationFailed {
		t.Fatalf("attendu VALIDATION_FAILED, obtenu %v", err)
	}
	if cerr.Fields["email"] == "" {
		t.Errorf("erreur par champ attendue sur email: %v", cerr.Fields)
	}
	if orders.insertCalls != 0 {
		t.Error("échec de validation = aucune écriture partielle")
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, _, orders, _ := testService(nil)

	_, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", codInput())

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != CodeEmptyCart {
		t.Errorf("attendu EMPTY_CART, obtenu %v", err)
	}
	if len(orders.orders) != 0 {
		t.Error("panier vide = aucune commande créée")
	}
}

func TestPlaceOrderExampleScenario(t *testing.T) {
	// Panier [{p1, 35€ × 2}], port 10€, coupon SAVE5 (5€) → total 75€.
	svc, cart, orders, coupons := testService([]models.CartItem{
		{ProductID: "p1", Price: 1, Quantity: 2}, // prix client bidon, re-dérivé
	})

	in := codInput()
	in.CouponCode = "save5" // insensible à la casse

	order, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", in)
	if err != nil {
		t.Fatal(err)
	}

	if order.Subtotal != 70 || order.ShippingCost != 10 || order.Discount != 5 || order.Total != 75 {
		t.Errorf("montants: subtotal=%.2f shipping=%.2f discount=%.2f total=%.2f, attendu 70/10/5/75",
			order.Subtotal, order.ShippingCost, order.Discount, order.Total)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("statut initial = %s, attendu pending", order.Status)
	}
	if order.CouponCode != "SAVE5" {
		t.Errorf("code coupon stocké en majuscules attendu, obtenu %q", order.CouponCode)
	}

	items := orders.items[order.ID]
	if len(items) != 1 || items[0].Price != 35 {
		t.Errorf("les lignes doivent porter le prix catalogue (35), obtenu %+v", items)
	}
	if coupons.increments != 1 {
		t.Errorf("le compteur du coupon doit être incrémenté une fois, obtenu %d", coupons.increments)
	}
	if !cart.cleared {
		t.Error("une commande COD doit vider le panier distant immédiatement")
	}
}

func TestPlaceOrderStripeKeepsCart(t *testing.T) {
	svc, cart, _, _ := testService([]models.CartItem{{ProductID: "p1", Quantity: 1}})

	in := codInput()
	in.PaymentMethod = models.PaymentMethodStripe

	if _, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", in); err != nil {
		t.Fatal(err)
	}
	if cart.cleared {
		t.Error("une commande Stripe ne doit pas toucher au panier avant confirmation")
	}
}

func TestPlaceOrderCompensatesOnItemsFailure(t *testing.T) {
	svc, cart, orders, _ := testService([]models.CartItem{{ProductID: "p1", Quantity: 1}})
	orders.failItems = true

	_, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", codInput())

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != CodeOrderItemsCreation {
		t.Fatalf("attendu ORDER_ITEMS_CREATION_FAILED, obtenu %v", err)
	}
	if len(orders.orders) != 0 {
		t.Error("la compensation doit supprimer la commande orpheline")
	}
	if cart.cleared {
		t.Error("le panier ne doit pas être vidé après un échec")
	}
}

func TestPlaceOrderCouponLimitReached(t *testing.T) {
	svc, _, orders, coupons := testService([]models.CartItem{{ProductID: "p1", Quantity: 2}})

	in := codInput()
	in.CouponCode = "FULL"

	_, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", in)

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != CodeCouponLimitReached {
		t.Fatalf("attendu COUPON_LIMIT_REACHED, obtenu %v", err)
	}
	if coupons.coupons["FULL"].UsageCount != 3 {
		t.Error("un coupon refusé ne doit pas être incrémenté")
	}
	if len(orders.orders) != 0 {
		t.Error("aucune commande ne doit être créée avec un coupon refusé")
	}
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	svc, _, orders, _ := testService([]models.CartItem{{ProductID: "p2", Quantity: 5}})

	_, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", codInput())

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != CodeOutOfStock {
		t.Fatalf("attendu OUT_OF_STOCK, obtenu %v", err)
	}
	if len(orders.orders) != 0 {
		t.Error("stock insuffisant = aucune commande")
	}
}

func TestPlaceOrderDisabledMethod(t *testing.T) {
	svc, _, _, _ := testService([]models.CartItem{{ProductID: "p1", Quantity: 1}})
	svc.Settings = &fakeSettings{settings: models.PaymentSettings{
		StripeEnabled: true, FlatShippingRate: 10, // COD désactivé
	}}

	_, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", codInput())

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != CodeValidationFailed {
		t.Fatalf("attendu VALIDATION_FAILED, obtenu %v", err)
	}
	if cerr.Fields["payment_method"] == "" {
		t.Errorf("erreur attendue sur payment_method: %v", cerr.Fields)
	}
}

func TestPlaceOrderBillingDefaultsToShipping(t *testing.T) {
	svc, _, _, _ := testService([]models.CartItem{{ProductID: "p1", Quantity: 1}})

	order, err := svc.PlaceOrder(context.Background(), "u1", "u1@exemple.fr", codInput())
	if err != nil {
		t.Fatal(err)
	}
	if order.BillingAddress != order.ShippingAddress {
		t.Errorf("adresse de facturation vide = adresse de livraison, obtenu %q", order.BillingAddress)
	}
}
