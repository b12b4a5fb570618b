package admin

import (
	"log"
	"net/http"
	"strings"

	"atelier_back_end/internal/checkout"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetPaymentSettings retourne la configuration paiement/livraison.
func GetPaymentSettings(c *gin.Context) {
	settings, err := checkout.ScyllaSettings{}.PaymentSettings(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur lecture réglages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture réglages"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdatePaymentSettings remplace la configuration. Le virement ne peut
// être activé sans coordonnées bancaires complètes.
func UpdatePaymentSettings(c *gin.Context) {
	var req models.PaymentSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !req.CODEnabled && !req.StripeEnabled && !req.BankEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Au moins un moyen de paiement doit rester actif"})
		return
	}
	if req.FlatShippingRate < 0 || req.FreeShippingAbove < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les tarifs de livraison doivent être positifs"})
		return
	}
	if req.BankEnabled {
		if strings.TrimSpace(req.BankIBAN) == "" || strings.TrimSpace(req.BankBeneficiary) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IBAN et bénéficiaire requis pour activer le virement"})
			return
		}
	}

	if err := checkout.SavePaymentSettings(c.Request.Context(), req); err != nil {
		log.Printf("❌ Erreur sauvegarde réglages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde réglages"})
		return
	}

	log.Println("⚙️ Réglages paiement mis à jour")
	c.JSON(http.StatusOK, gin.H{"message": "Réglages mis à jour"})
}
