package cache

import (
	"context"
	"encoding/json"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis, sinon ScyllaDB.
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var email, name, phone, role, provider string
	err = session.Query(`SELECT email, name, phone, role, provider FROM users WHERE user_id = ?`,
		gocql.UUID(uid)).Scan(&email, &name, &phone, &role, &provider)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       userID,
		Email:    email,
		Name:     name,
		Phone:    phone,
		Role:     role,
		Provider: provider,
	}

	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur.
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// GetProductNamesFromCache récupère les noms de plusieurs produits,
// utilisé par le dashboard pour enrichir les lignes de commande.
func GetProductNamesFromCache(productIDs []string) map[string]string {
	ctx := context.Background()
	result := make(map[string]string)
	missingIDs := []string{}

	for _, productID := range productIDs {
		name, err := database.Redis.Get(ctx, "product_name:"+productID).Result()
		if err == nil {
			result[productID] = name
		} else {
			missingIDs = append(missingIDs, productID)
		}
	}

	if len(missingIDs) > 0 {
		session, err := database.GetProductsSession()
		if err == nil {
			for _, productID := range missingIDs {
				pid, err := uuid.Parse(productID)
				if err != nil {
					continue
				}
				var name string
				if session.Query("SELECT name FROM products WHERE product_id = ?", gocql.UUID(pid)).Scan(&name) == nil {
					result[productID] = name
					database.Redis.Set(ctx, "product_name:"+productID, name, ProductCacheTTL)
				}
			}
		}
	}

	return result
}

// InvalidateProductCache invalide le cache d'un produit.
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID, "product_name:"+productID)
}
