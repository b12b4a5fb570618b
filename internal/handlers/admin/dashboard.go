package admin

import (
	"log"
	"net/http"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GetDashboardStats agrège les chiffres du dashboard admin : commandes,
// chiffre d'affaires, stocks et comptes clients.
func GetDashboardStats(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var totalOrders int
	var totalRevenue, totalFees float64
	statusCount := make(map[string]int)
	methodCount := make(map[string]int)

	iter := session.Query("SELECT status, total, payment_method, stripe_fee FROM orders").Iter()
	var status, method string
	var total, fee float64
	for iter.Scan(&status, &total, &method, &fee) {
		if status == models.OrderStatusArchived {
			continue
		}
		totalOrders++
		statusCount[status]++
		methodCount[method]++
		if status == models.OrderStatusPaid || status == models.OrderStatusShipped ||
			status == models.OrderStatusDelivered {
			totalRevenue += total
			totalFees += fee
		}
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats commandes: %v", err)
	}

	productsSession, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var totalProducts, lowStockProducts, outOfStockProducts int
	prodIter := productsSession.Query("SELECT stock FROM products").Iter()
	var stock int
	for prodIter.Scan(&stock) {
		totalProducts++
		if stock == 0 {
			outOfStockProducts++
		} else if stock < 10 {
			lowStockProducts++
		}
	}
	if err := prodIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats produits: %v", err)
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var totalUsers int
	usersIter := usersSession.Query("SELECT user_id FROM users").Iter()
	var userID gocql.UUID
	for usersIter.Scan(&userID) {
		totalUsers++
	}
	if err := usersIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats utilisateurs: %v", err)
	}

	var averageOrderValue float64
	if paidOrders := statusCount[models.OrderStatusPaid] + statusCount[models.OrderStatusShipped] +
		statusCount[models.OrderStatusDelivered]; paidOrders > 0 {
		averageOrderValue = totalRevenue / float64(paidOrders)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": gin.H{
			"total":               totalOrders,
			"by_status":           statusCount,
			"by_payment_method":   methodCount,
			"total_revenue":       totalRevenue,
			"total_stripe_fees":   totalFees,
			"average_order_value": averageOrderValue,
		},
		"products": gin.H{
			"total":        totalProducts,
			"low_stock":    lowStockProducts,
			"out_of_stock": outOfStockProducts,
		},
		"users": gin.H{
			"total": totalUsers,
		},
	})
}
