package user

import (
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GetMyOrders liste les commandes de l'utilisateur connecté, les plus
// récentes d'abord (ordre de clustering de orders_by_user).
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT order_id, status, subtotal, discount, shipping_cost, total,
		payment_method, coupon_code, created_at
		FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	orders := []models.Order{}
	var (
		orderID                            gocql.UUID
		status, paymentMethod, couponCode  string
		subtotal, discount, shipping, tot  float64
		createdAt                          time.Time
	)
	for iter.Scan(&orderID, &status, &subtotal, &discount, &shipping, &tot,
		&paymentMethod, &couponCode, &createdAt) {
		if status == models.OrderStatusArchived {
			continue
		}
		orders = append(orders, models.Order{
			ID:            orderID,
			UserID:        userID,
			Status:        status,
			Subtotal:      subtotal,
			Discount:      discount,
			ShippingCost:  shipping,
			Total:         tot,
			PaymentMethod: paymentMethod,
			CouponCode:    couponCode,
			CreatedAt:     createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture commandes de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetMyOrder retourne une commande avec ses lignes, seulement si elle
// appartient à l'utilisateur connecté.
func GetMyOrder(c *gin.Context) {
	userID := c.GetString("user_id")

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var order models.Order
	order.ID = orderID
	err = session.Query(`SELECT user_id, email, status, subtotal, discount, shipping_cost, total,
		payment_method, coupon_code, shipping_address, billing_address, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID).Scan(
		&order.UserID, &order.Email, &order.Status, &order.Subtotal, &order.Discount,
		&order.ShippingCost, &order.Total, &order.PaymentMethod, &order.CouponCode,
		&order.ShippingAddress, &order.BillingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.UserID != userID || order.Status == models.OrderStatusArchived {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	itemsIter := session.Query(`SELECT product_id, name, price, quantity
		FROM order_items WHERE order_id = ?`, orderID).Iter()

	var item models.OrderItem
	item.OrderID = orderID
	for itemsIter.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity) {
		order.Items = append(order.Items, item)
	}
	if err := itemsIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture lignes commande %s: %v", orderID, err)
	}

	c.JSON(http.StatusOK, order)
}
