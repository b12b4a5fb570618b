package utils

import (
	"os"
	"time"

	"atelier_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signe un token HS256 de 24h portant user_id, email et role.
func GenerateJWT(user models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
