package admin

import (
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"
	"atelier_back_end/internal/payment"
	"atelier_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListOrders liste toutes les commandes, éventuellement filtrées par
// statut (?status=pending). Les archivées ne sortent que sur demande
// explicite.
func ListOrders(c *gin.Context) {
	statusFilter := c.Query("status")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT order_id, user_id, email, status, subtotal, discount,
		shipping_cost, total, payment_method, coupon_code, created_at, updated_at FROM orders`).Iter()

	orders := []models.Order{}
	var o models.Order
	for iter.Scan(&o.ID, &o.UserID, &o.Email, &o.Status, &o.Subtotal, &o.Discount,
		&o.ShippingCost, &o.Total, &o.PaymentMethod, &o.CouponCode, &o.CreatedAt, &o.UpdatedAt) {
		if statusFilter != "" {
			if o.Status != statusFilter {
				continue
			}
		} else if o.Status == models.OrderStatusArchived {
			continue
		}
		orders = append(orders, o)
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetOrder retourne une commande complète avec ses lignes.
func GetOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	order, err := payment.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus change le statut d'une commande et notifie le client.
// La mise à jour est absolue sur les deux tables (orders, orders_by_user).
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + req.Status})
		return
	}

	order, err := payment.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	if err := session.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?",
		req.Status, now, orderID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour statut %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}
	if err := session.Query("UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?",
		req.Status, order.UserID, orderID).Exec(); err != nil {
		log.Printf("⚠️ Statut non propagé sur orders_by_user pour %s: %v", orderID, err)
	}

	order.Status = req.Status
	if req.Status != models.OrderStatusArchived {
		go utils.SendOrderStatusEmail(order, order.Email, req.Status)
	}

	log.Printf("📦 Commande %s → %s", orderID, req.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "order_id": orderID.String(), "status": req.Status})
}

// UpdateOrderItems remplace les lignes d'une commande. Les lignes étant
// des instantanés immuables, l'édition supprime tout et réinsère : jamais
// de mise à jour incrémentale ligne à ligne. Les totaux sont recalculés
// avec les frais de livraison et la réduction d'origine.
func UpdateOrderItems(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	var req struct {
		Items []struct {
			ProductID string  `json:"product_id" binding:"required"`
			Name      string  `json:"name"`
			Price     float64 `json:"price"`
			Quantity  int     `json:"quantity"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Au moins une ligne requise"})
		return
	}

	order, err := payment.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if order.Status != models.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Seules les commandes en attente sont éditables"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var subtotal float64
	for _, it := range req.Items {
		if it.Quantity < 1 || it.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ligne invalide pour " + it.ProductID})
			return
		}
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		subtotal += it.Price * float64(it.Quantity)
	}

	discount := order.Discount
	if discount > subtotal {
		discount = subtotal
	}
	total := subtotal + order.ShippingCost - discount

	// Suppression puis réinsertion en batch
	if err := session.Query("DELETE FROM order_items WHERE order_id = ?", orderID).Exec(); err != nil {
		log.Printf("❌ Erreur purge lignes %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur édition des lignes"})
		return
	}

	batch := session.NewBatch(gocql.LoggedBatch)
	for _, item := range items {
		batch.Query(`INSERT INTO order_items (order_id, product_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity)
	}
	if err := session.ExecuteBatch(batch); err != nil {
		log.Printf("❌ Erreur réinsertion lignes %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur édition des lignes"})
		return
	}

	now := time.Now()
	if err := session.Query(`UPDATE orders SET subtotal = ?, discount = ?, total = ?, updated_at = ?
		WHERE order_id = ?`, subtotal, discount, total, now, orderID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour totaux %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour des totaux"})
		return
	}
	if err := session.Query(`UPDATE orders_by_user SET subtotal = ?, discount = ?, total = ?
		WHERE user_id = ? AND order_id = ?`, subtotal, discount, total, order.UserID, orderID).Exec(); err != nil {
		log.Printf("⚠️ Totaux non propagés sur orders_by_user pour %s: %v", orderID, err)
	}

	order.Items = items
	order.Subtotal = subtotal
	order.Discount = discount
	order.Total = total
	order.UpdatedAt = now

	log.Printf("✏️ Lignes de la commande %s remplacées (%d lignes)", orderID, len(items))
	c.JSON(http.StatusOK, order)
}

// ArchiveOrder archive une commande (suppression logique). Aucun DELETE
// physique : l'historique comptable reste intact.
func ArchiveOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	order, err := payment.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	if err := session.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?",
		models.OrderStatusArchived, now, orderID).Exec(); err != nil {
		log.Printf("❌ Erreur archivage %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur archivage"})
		return
	}
	if err := session.Query("UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?",
		models.OrderStatusArchived, order.UserID, orderID).Exec(); err != nil {
		log.Printf("⚠️ Archivage non propagé sur orders_by_user pour %s: %v", orderID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commande archivée", "order_id": orderID.String()})
}
