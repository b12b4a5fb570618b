package admin

import (
	"log"
	"net/http"

	"atelier_back_end/internal/cache"
	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListUsers liste tous les comptes.
func ListUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query("SELECT user_id, email, name, phone, role, provider FROM users").Iter()

	users := []models.User{}
	var userID gocql.UUID
	var email, name, phone, role, provider string
	for iter.Scan(&userID, &email, &name, &phone, &role, &provider) {
		users = append(users, models.User{
			ID:       userID.String(),
			Email:    email,
			Name:     name,
			Phone:    phone,
			Role:     role,
			Provider: provider,
		})
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture utilisateurs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// UpdateUserRole change le rôle d'un compte ("customer" ou "admin").
// Un admin ne peut pas se rétrograder lui-même.
func UpdateUserRole(c *gin.Context) {
	targetID := c.Param("id")

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle requis"})
		return
	}
	if req.Role != "customer" && req.Role != "admin" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu: " + req.Role})
		return
	}

	if targetID == c.GetString("user_id") && req.Role != "admin" {
		c.JSON(http.StatusConflict, gin.H{"error": "Impossible de se retirer soi-même le rôle admin"})
		return
	}

	uid, err := gocql.ParseUUID(targetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing string
	if err := session.Query("SELECT email FROM users WHERE user_id = ?", uid).Scan(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if err := session.Query("UPDATE users SET role = ? WHERE user_id = ?", req.Role, uid).Exec(); err != nil {
		log.Printf("❌ Erreur changement de rôle %s: %v", targetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur changement de rôle"})
		return
	}

	cache.InvalidateUserCache(targetID)

	log.Printf("👤 Rôle de %s → %s", targetID, req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour", "user_id": targetID, "role": req.Role})
}
