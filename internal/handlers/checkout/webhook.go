package checkout

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"atelier_back_end/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// StripeWebhook reçoit les événements Stripe et finalise les commandes
// carte par le même chemin que la confirmation côté client. Toujours 200
// une fois la signature vérifiée : Stripe rejoue sinon l'événement.
func (h *Handlers) StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	if event.Type != "checkout.session.completed" {
		log.Printf("ℹ️ Événement Stripe ignoré : %s", event.Type)
		c.Status(http.StatusOK)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Println("❌ Erreur décodage CheckoutSession:", err)
		c.Status(http.StatusOK)
		return
	}

	result, err := h.Payments.Confirm(c.Request.Context(), session.ID)
	if err != nil {
		// La confirmation re-vérifie session et métadonnées auprès de
		// Stripe ; un refus ici n'est pas rejouable utilement.
		var perr *payment.Error
		if errors.As(err, &perr) {
			log.Printf("⚠️ Webhook session %s refusée: %s", session.ID, perr.Code)
		} else {
			log.Printf("❌ Webhook session %s: %v", session.ID, err)
		}
		c.Status(http.StatusOK)
		return
	}

	log.Printf("💳 Commande %s payée via webhook", result.OrderID)
	go sendPaymentReceipt(result.OrderID)
	c.Status(http.StatusOK)
}
