package user

import (
	"log"
	"net/http"

	"atelier_back_end/internal/cart"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// CartHandlers expose le magasin de panier sur HTTP. Le store est injecté
// au câblage des routes, pas résolu via un global.
type CartHandlers struct {
	Store *cart.Store
}

func NewCartHandlers(store *cart.Store) *CartHandlers {
	return &CartHandlers{Store: store}
}

func cartResponse(userID string, items []models.CartItem) gin.H {
	c := models.Cart{UserID: userID, Items: items}
	return gin.H{
		"items":       items,
		"total_items": c.TotalItems(),
		"subtotal":    c.Subtotal(),
	}
}

// GetCart charge et réconcilie les deux répliques du panier.
func (h *CartHandlers) GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	items, err := h.Store.Open(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur chargement panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(userID, items))
}

// AddToCart ajoute un produit (quantités cumulées si déjà présent).
func (h *CartHandlers) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string  `json:"product_id" binding:"required"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		ImageURL  string  `json:"image_url"`
		Slug      string  `json:"slug"`
		Category  string  `json:"category"`
		Quantity  int     `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	item := models.CartItem{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		ImageURL:  input.ImageURL,
		Slug:      input.Slug,
		Category:  input.Category,
	}

	items, err := h.Store.Add(c.Request.Context(), userID, item, input.Quantity)
	if err != nil {
		log.Printf("❌ Erreur ajout panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout au panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(userID, items))
}

// UpdateQuantity remplace la quantité d'une ligne (jamais sous 1).
func (h *CartHandlers) UpdateQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("product_id")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	items, err := h.Store.UpdateQuantity(c.Request.Context(), userID, productID, input.Quantity)
	if err != nil {
		log.Printf("❌ Erreur mise à jour panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(userID, items))
}

// RemoveFromCart retire une ligne (idempotent).
func (h *CartHandlers) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("product_id")

	items, err := h.Store.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		log.Printf("❌ Erreur suppression ligne panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression du panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(userID, items))
}

// ClearCart vide le panier sur les deux répliques.
func (h *CartHandlers) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.Store.Clear(c.Request.Context(), userID); err != nil {
		log.Printf("❌ Erreur vidage panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vidage panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(userID, nil))
}

// SyncCart réconcilie le panier posté par un appareil avec l'état serveur
// (priorité au serveur). Appelé à la connexion ou au retour en ligne.
func (h *CartHandlers) SyncCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Items []models.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	items, err := h.Store.SyncDevice(c.Request.Context(), userID, input.Items)
	if err != nil {
		log.Printf("❌ Erreur sync panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur synchronisation panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(userID, items))
}
