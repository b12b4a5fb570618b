package admin

import (
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateShippingZone crée une zone de livraison.
func CreateShippingZone(c *gin.Context) {
	var req struct {
		Name      string   `json:"name" binding:"required"`
		Countries []string `json:"countries" binding:"required"`
		Rate      float64  `json:"rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if req.Rate < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le tarif doit être positif"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	zone := models.ShippingZone{
		ID:        gocql.TimeUUID(),
		Name:      req.Name,
		Countries: req.Countries,
		Rate:      req.Rate,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := session.Query(`INSERT INTO shipping_zones (id, name, countries, rate, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		zone.ID, zone.Name, zone.Countries, zone.Rate, zone.IsActive, zone.CreatedAt, zone.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création zone: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création zone"})
		return
	}

	c.JSON(http.StatusCreated, zone)
}

// ListShippingZones liste toutes les zones.
func ListShippingZones(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT id, name, countries, rate, is_active, created_at, updated_at
		FROM shipping_zones`).Iter()

	zones := []models.ShippingZone{}
	var z models.ShippingZone
	for iter.Scan(&z.ID, &z.Name, &z.Countries, &z.Rate, &z.IsActive, &z.CreatedAt, &z.UpdatedAt) {
		zones = append(zones, z)
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture zones: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture zones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zones": zones, "count": len(zones)})
}

// UpdateShippingZone modifie une zone.
func UpdateShippingZone(c *gin.Context) {
	zoneID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de zone invalide"})
		return
	}

	var req struct {
		Name      *string   `json:"name"`
		Countries *[]string `json:"countries"`
		Rate      *float64  `json:"rate"`
		IsActive  *bool     `json:"is_active"`
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

	var z models.ShippingZone
	if err := session.Query(`SELECT name, countries, rate, is_active FROM shipping_zones WHERE id = ?`,
		zoneID).Scan(&z.Name, &z.Countries, &z.Rate, &z.IsActive); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Zone introuvable"})
		return
	}

	if req.Name != nil {
		z.Name = *req.Name
	}
	if req.Countries != nil {
		z.Countries = *req.Countries
	}
	if req.Rate != nil {
		if *req.Rate < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le tarif doit être positif"})
			return
		}
		z.Rate = *req.Rate
	}
	if req.IsActive != nil {
		z.IsActive = *req.IsActive
	}

	if err := session.Query(`UPDATE shipping_zones SET name = ?, countries = ?, rate = ?, is_active = ?,
		updated_at = ? WHERE id = ?`,
		z.Name, z.Countries, z.Rate, z.IsActive, time.Now(), zoneID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour zone %s: %v", zoneID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour zone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Zone mise à jour", "id": zoneID.String()})
}

// DeleteShippingZone supprime une zone.
func DeleteShippingZone(c *gin.Context) {
	zoneID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de zone invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var name string
	if err := session.Query("SELECT name FROM shipping_zones WHERE id = ?", zoneID).Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Zone introuvable"})
		return
	}

	if err := session.Query("DELETE FROM shipping_zones WHERE id = ?", zoneID).Exec(); err != nil {
		log.Printf("❌ Erreur suppression zone %s: %v", zoneID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression zone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Zone supprimée", "id": zoneID.String()})
}
