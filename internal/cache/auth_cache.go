package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"atelier_back_end/internal/database"
)

// AuthCacheTTL borne la durée pendant laquelle une vérification argon2id
// réussie reste valable sans être recalculée.
const AuthCacheTTL = 15 * time.Minute

func authCacheKey(email, password string) string {
	passwordHash := sha256.Sum256([]byte(password))
	return "auth:" + email + ":" + hex.EncodeToString(passwordHash[:])
}

// GetPasswordHashFromCache indique si cette combinaison email/mot de passe
// a déjà été vérifiée récemment.
func GetPasswordHashFromCache(email, password string) (bool, error) {
	ctx := context.Background()

	result, err := database.Redis.Get(ctx, authCacheKey(email, password)).Result()
	if err == nil && result == "valid" {
		return true, nil
	}
	return false, err
}

// SetPasswordHashInCache mémorise une vérification réussie.
func SetPasswordHashInCache(email, password string) {
	ctx := context.Background()
	database.Redis.Set(ctx, authCacheKey(email, password), "valid", AuthCacheTTL)
}

// InvalidateAuthCache purge les entrées d'un email (changement de mot de passe).
func InvalidateAuthCache(email string) {
	ctx := context.Background()

	iter := database.Redis.Scan(ctx, 0, "auth:"+email+":*", 100).Iterator()
	for iter.Next(ctx) {
		database.Redis.Del(ctx, iter.Val())
	}
}
