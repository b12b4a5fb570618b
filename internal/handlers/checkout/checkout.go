package checkout

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"atelier_back_end/internal/cart"
	"atelier_back_end/internal/checkout"
	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"
	"atelier_back_end/internal/payment"
	"atelier_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Handlers expose le passage de commande et la confirmation de paiement.
// Tout est injecté au câblage des routes.
type Handlers struct {
	Orders   *checkout.Service
	Payments *payment.Service
	Stripe   payment.StripeProvider
	Cart     *cart.Store
}

func NewHandlers(orders *checkout.Service, payments *payment.Service, cartStore *cart.Store) *Handlers {
	return &Handlers{
		Orders:   orders,
		Payments: payments,
		Stripe:   payment.StripeProvider{},
		Cart:     cartStore,
	}
}

// statusForCode traduit un code d'erreur métier en statut HTTP.
func statusForCode(code string) int {
	switch code {
	case checkout.CodeUnauthorized:
		return http.StatusUnauthorized
	case checkout.CodeValidationFailed, checkout.CodeEmptyCart,
		checkout.CodeCouponInvalid, checkout.CodeCouponExpired, checkout.CodeCouponLimitReached:
		return http.StatusBadRequest
	case checkout.CodeOutOfStock:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PlaceOrder valide la saisie, crée la commande et, pour un paiement
// carte, ouvre la session Stripe dont l'URL est renvoyée au front.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	email, _ := c.Get("email")
	emailStr, _ := email.(string)

	var input checkout.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	order, err := h.Orders.PlaceOrder(c.Request.Context(), userID, emailStr, input)
	if err != nil {
		var cerr *checkout.Error
		if errors.As(err, &cerr) {
			c.JSON(statusForCode(cerr.Code), gin.H{"error": cerr})
			return
		}
		log.Printf("❌ Erreur passage de commande pour %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur passage de commande"})
		return
	}

	if order.PaymentMethod == models.PaymentMethodStripe {
		sessionID, redirectURL, err := h.Stripe.CreateSession(c.Request.Context(), *order)
		if err != nil {
			log.Printf("❌ Erreur création session Stripe pour %s: %v", order.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
				"code":    checkout.CodeOrderCreation,
				"message": "Erreur création de la session de paiement",
			}})
			return
		}
		if err := attachStripeSession(c.Request.Context(), order, sessionID); err != nil {
			log.Printf("⚠️ Session Stripe non rattachée à %s: %v", order.ID, err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"order":        order,
			"checkout_url": redirectURL,
			"session_id":   sessionID,
		})
		return
	}

	// COD et virement sont finalisés : confirmation par email tout de suite.
	go sendOrderConfirmation(*order)

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func attachStripeSession(ctx context.Context, order *models.Order, sessionID string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}
	order.StripeSessionID = sessionID
	if err := session.Query("UPDATE orders SET stripe_session_id = ?, updated_at = ? WHERE order_id = ?",
		sessionID, time.Now(), order.ID).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query("UPDATE orders_by_user SET stripe_session_id = ? WHERE user_id = ? AND order_id = ?",
		sessionID, order.UserID, order.ID).WithContext(ctx).Exec()
}

// sendOrderConfirmation envoie l'email de confirmation, avec bloc virement
// et facture PDF pour les commandes payées par virement.
func sendOrderConfirmation(order models.Order) {
	ctx := context.Background()

	settings, err := checkout.ScyllaSettings{}.PaymentSettings(ctx)
	if err != nil {
		settings = models.DefaultPaymentSettings()
	}

	bankBlock := ""
	var pdf []byte
	if order.PaymentMethod == models.PaymentMethodBank {
		bankBlock = utils.GenerateBankTransferBlock(settings, order)
		if pdf, err = utils.GenerateInvoicePDF(order, settings); err != nil {
			log.Printf("⚠️ Facture PDF non générée pour %s: %v", order.ID, err)
			pdf = nil
		}
	}

	html := utils.GenerateOrderConfirmationHTML(order, bankBlock)
	if err := utils.SendConfirmationEmail(order.Email, "✅ Commande confirmée - Atelier", html, pdf); err != nil {
		log.Printf("⚠️ Email de confirmation non envoyé pour %s: %v", order.ID, err)
	}
}

// ConfirmPayment vérifie une session Stripe et bascule la commande en
// "paid". Rejouable : reconfirmer une session déjà traitée est sans effet.
func (h *Handlers) ConfirmPayment(c *gin.Context) {
	sessionID := c.Query("session_id")

	result, err := h.Payments.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		var perr *payment.Error
		if errors.As(err, &perr) {
			status := http.StatusPaymentRequired
			if perr.Code != payment.CodeVerificationIncomplete {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": perr})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur confirmation paiement"})
		return
	}

	// Reçu par email, hors du chemin de la réponse.
	go sendPaymentReceipt(result.OrderID)

	c.JSON(http.StatusOK, result)
}

// sendPaymentReceipt envoie le reçu d'un paiement carte confirmé.
func sendPaymentReceipt(orderID string) {
	oid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return
	}
	order, err := payment.GetOrder(context.Background(), oid)
	if err != nil {
		log.Printf("⚠️ Commande %s introuvable pour le reçu: %v", orderID, err)
		return
	}
	html := utils.GenerateOrderConfirmationHTML(order, "")
	if err := utils.SendConfirmationEmail(order.Email, "✅ Paiement confirmé - Atelier", html, nil); err != nil {
		log.Printf("⚠️ Reçu non envoyé pour %s: %v", order.ID, err)
	}
}

// ValidateCouponCode valide un code contre l'état courant du coupon et le
// sous-total du panier. Réponse 200 dans tous les cas : le verdict est
// dans le corps.
func (h *Handlers) ValidateCouponCode(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	items, err := h.Cart.Items(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	subtotal := models.Cart{Items: items}.Subtotal()

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	coupon, err := checkout.ScyllaCoupons{}.ByCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusOK, models.CouponValidation{
			IsValid:      false,
			ErrorCode:    checkout.CodeCouponInvalid,
			ErrorMessage: "Code coupon invalide",
		})
		return
	}

	c.JSON(http.StatusOK, checkout.ValidateCoupon(coupon, subtotal, time.Now()))
}

// GetShippingOptions calcule les options de livraison pour le panier
// courant à partir des réglages et des zones actives.
func (h *Handlers) GetShippingOptions(c *gin.Context) {
	userID := c.GetString("user_id")

	items, err := h.Cart.Items(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	subtotal := models.Cart{Items: items}.Subtotal()

	settings, err := checkout.ScyllaSettings{}.PaymentSettings(c.Request.Context())
	if err != nil {
		settings = models.DefaultPaymentSettings()
	}

	isFree := settings.FreeShippingAbove > 0 && subtotal >= settings.FreeShippingAbove
	price := settings.FlatShippingRate
	if isFree {
		price = 0
	}

	calc := models.ShippingCalculation{
		Options: []models.ShippingOption{
			{
				ID:            "standard",
				Name:          "Livraison standard",
				Description:   "Livraison à domicile sous 3 à 5 jours ouvrés",
				Price:         price,
				EstimatedDays: 5,
			},
		},
		FreeThreshold: settings.FreeShippingAbove,
		CartTotal:     subtotal,
		IsFree:        isFree,
	}

	c.JSON(http.StatusOK, calc)
}
