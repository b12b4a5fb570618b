package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

func cartChannel(userID string) string {
	return "cart_events:" + userID
}

// PublishCartEvent pousse un évènement de panier sur le canal Redis de
// l'utilisateur. Branché comme Notifier du cart.Store : chaque mutation
// réveille les websockets des autres appareils connectés.
func PublishCartEvent(userID, event string) {
	ctx := context.Background()
	if err := database.Redis.Publish(ctx, cartChannel(userID), event).Err(); err != nil {
		log.Printf("⚠️ Publication évènement panier %s: %v", userID, err)
	}
}

// CartWebSocket pousse l'état du panier en temps réel. Chaque appareil
// connecté reçoit le panier complet après chaque mutation, d'où qu'elle
// vienne.
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, cartChannel(userID))
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(gin.H{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			// Relire la réplique locale et pousser l'état complet
			data, err := database.Redis.Get(ctx, "cart:"+userID).Result()

			var items []models.CartItem
			if err == nil && data != "" {
				json.Unmarshal([]byte(data), &items)
			}

			cart := models.Cart{UserID: userID, Items: items}
			response := gin.H{
				"type":        "cart_updated",
				"items":       items,
				"subtotal":    cart.Subtotal(),
				"total_items": cart.TotalItems(),
			}

			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
