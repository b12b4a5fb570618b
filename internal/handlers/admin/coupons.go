package admin

import (
	"log"
	"net/http"
	"strings"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateCoupon crée un coupon. Le code est stocké en majuscules.
func CreateCoupon(c *gin.Context) {
	var req struct {
		Code       string    `json:"code" binding:"required"`
		Type       string    `json:"type" binding:"required"`
		Amount     float64   `json:"amount" binding:"required"`
		MinSpend   float64   `json:"min_spend"`
		MaxSpend   *float64  `json:"max_spend"`
		UsageLimit int       `json:"usage_limit"`
		ExpiryDate time.Time `json:"expiry_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.Type != models.CouponTypePercentage && req.Type != models.CouponTypeFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de coupon invalide"})
		return
	}
	if req.Type == models.CouponTypePercentage && (req.Amount <= 0 || req.Amount > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pourcentage doit être entre 1 et 100"})
		return
	}
	if req.Type == models.CouponTypeFixed && req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant fixe doit être positif"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var existing string
	if err := session.Query("SELECT code FROM coupons WHERE code = ?", code).Scan(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code coupon existe déjà"})
		return
	}

	userID := c.GetString("user_id")
	now := time.Now()

	coupon := models.Coupon{
		ID:         gocql.TimeUUID(),
		Code:       code,
		Type:       req.Type,
		Amount:     req.Amount,
		MinSpend:   req.MinSpend,
		MaxSpend:   req.MaxSpend,
		ExpiryDate: req.ExpiryDate,
		UsageLimit: req.UsageLimit,
		UsageCount: 0,
		IsActive:   true,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := session.Query(`INSERT INTO coupons (code, id, type, amount, min_spend, max_spend,
		expiry_date, usage_limit, usage_count, is_active, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		coupon.Code, coupon.ID, coupon.Type, coupon.Amount, coupon.MinSpend, coupon.MaxSpend,
		coupon.ExpiryDate, coupon.UsageLimit, coupon.UsageCount, coupon.IsActive,
		coupon.CreatedBy, coupon.CreatedAt, coupon.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du coupon"})
		return
	}

	log.Printf("🎟️ Coupon %s créé par %s", coupon.Code, userID)
	c.JSON(http.StatusCreated, coupon)
}

// ListCoupons liste tous les coupons.
func ListCoupons(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT code, id, type, amount, min_spend, max_spend, expiry_date,
		usage_limit, usage_count, is_active, created_by, created_at, updated_at FROM coupons`).Iter()

	coupons := []models.Coupon{}
	var cp models.Coupon
	for iter.Scan(&cp.Code, &cp.ID, &cp.Type, &cp.Amount, &cp.MinSpend, &cp.MaxSpend,
		&cp.ExpiryDate, &cp.UsageLimit, &cp.UsageCount, &cp.IsActive,
		&cp.CreatedBy, &cp.CreatedAt, &cp.UpdatedAt) {
		coupons = append(coupons, cp)
		cp.MaxSpend = nil
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture coupons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture coupons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons, "count": len(coupons)})
}

// UpdateCoupon modifie les champs éditables d'un coupon. Le compteur
// d'utilisation n'est jamais modifiable ici : il n'évolue que par le CAS
// du passage de commande.
func UpdateCoupon(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	var req struct {
		Amount     *float64   `json:"amount"`
		MinSpend   *float64   `json:"min_spend"`
		MaxSpend   *float64   `json:"max_spend"`
		UsageLimit *int       `json:"usage_limit"`
		ExpiryDate *time.Time `json:"expiry_date"`
		IsActive   *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var current models.Coupon
	if err := session.Query(`SELECT amount, min_spend, max_spend, usage_limit, expiry_date, is_active
		FROM coupons WHERE code = ?`, code).Scan(&current.Amount, &current.MinSpend,
		&current.MaxSpend, &current.UsageLimit, &current.ExpiryDate, &current.IsActive); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	if req.Amount != nil {
		current.Amount = *req.Amount
	}
	if req.MinSpend != nil {
		current.MinSpend = *req.MinSpend
	}
	if req.MaxSpend != nil {
		current.MaxSpend = req.MaxSpend
	}
	if req.UsageLimit != nil {
		current.UsageLimit = *req.UsageLimit
	}
	if req.ExpiryDate != nil {
		current.ExpiryDate = *req.ExpiryDate
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	if err := session.Query(`UPDATE coupons SET amount = ?, min_spend = ?, max_spend = ?,
		usage_limit = ?, expiry_date = ?, is_active = ?, updated_at = ? WHERE code = ?`,
		current.Amount, current.MinSpend, current.MaxSpend, current.UsageLimit,
		current.ExpiryDate, current.IsActive, time.Now(), code).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour coupon %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon mis à jour", "code": code})
}

// DeleteCoupon supprime un coupon. Les commandes passées gardent leur
// code en texte : rien à nettoyer côté orders.
func DeleteCoupon(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing string
	if err := session.Query("SELECT code FROM coupons WHERE code = ?", code).Scan(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	if err := session.Query("DELETE FROM coupons WHERE code = ?", code).Exec(); err != nil {
		log.Printf("❌ Erreur suppression coupon %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon supprimé", "code": code})
}
