package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin exige le rôle "admin" (posé par AuthRequired).
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
