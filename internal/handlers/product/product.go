package product

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"atelier_back_end/internal/cache"
	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"
	"atelier_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const productListCacheKey = "products:all"

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// slugify transforme un nom en slug URL (ex: "Tasse Émail 250ml" -> "tasse-email-250ml").
func slugify(name string) string {
	s := strings.ToLower(name)
	replacer := strings.NewReplacer(
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"à", "a", "â", "a", "ç", "c", "î", "i", "ï", "i",
		"ô", "o", "ö", "o", "ù", "u", "û", "u", "ü", "u",
	)
	s = replacer.Replace(s)
	s = slugCleaner.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// invalidateProductListCache supprime la liste mise en cache après toute écriture.
func invalidateProductListCache() {
	database.Redis.Del(context.Background(), productListCacheKey)
}

// scanProduct lit une ligne complète de la table products.
func scanProduct(iter *gocql.Iter, p *models.Product) bool {
	return iter.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&p.SKU, &p.CategoryID, &p.BrandID, &p.ImageURLs, &p.Tags, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
}

const productColumns = `product_id, name, slug, description, price, stock, sku,
	category_id, brand_id, image_urls, tags, is_active, created_at, updated_at`

// GetAllProducts liste les produits actifs, avec cache Redis d'une heure.
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	if val, err := database.Redis.Get(ctx, productListCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if json.Unmarshal([]byte(val), &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()

	products := []models.Product{}
	var p models.Product
	for scanProduct(iter, &p) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, productListCacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct retourne un produit par son identifiant.
func GetProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).
		Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
			&p.SKU, &p.CategoryID, &p.BrandID, &p.ImageURLs, &p.Tags, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt)
	if err == gocql.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetProductBySlug retourne un produit par son slug (pages produit de la boutique).
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var productID gocql.UUID
	if err := session.Query(`SELECT product_id FROM products_by_slug WHERE slug = ?`, slug).
		Scan(&productID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).
		Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
			&p.SKU, &p.CategoryID, &p.BrandID, &p.ImageURLs, &p.Tags, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetProductsByCategory liste les produits actifs d'une catégorie.
func GetProductsByCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT `+productColumns+` FROM products WHERE category_id = ? ALLOW FILTERING`,
		categoryID).Iter()

	products := []models.Product{}
	var p models.Product
	for scanProduct(iter, &p) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

// SearchProducts recherche via Elasticsearch, avec fallback Scylla si l'index
// est vide ou indisponible.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// Fallback : balayage Scylla, filtrage en mémoire.
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()

	needle := strings.ToLower(query)
	products := []models.Product{}
	var p models.Product
	for scanProduct(iter, &p) {
		if p.IsActive && productMatches(p, needle) {
			products = append(products, p)
		}
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Aucun produit trouvé"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func productMatches(p models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// CreateProduct crée un produit (admin).
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}
	if p.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Vérifie que la catégorie existe.
	var catName string
	if err := session.Query("SELECT name FROM categories WHERE category_id = ?", p.CategoryID).
		Scan(&catName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	p.ID = gocql.TimeUUID()
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	if err := session.Query(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.SKU,
		p.CategoryID, p.BrandID, p.ImageURLs, p.Tags, p.IsActive,
		p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := session.Query(`INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?)`,
		p.Slug, p.ID).Exec(); err != nil {
		log.Printf("⚠️ Erreur index slug pour %s: %v", p.Slug, err)
	}

	go services.IndexProduct(p)
	invalidateProductListCache()

	log.Printf("🛍️ Produit créé: %s (%s)", p.Name, p.ID)
	c.JSON(http.StatusCreated, p)
}

// UpdateProduct modifie un produit (admin).
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de produit invalide"})
		return
	}

	var req struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		Stock       *int      `json:"stock"`
		SKU         *string   `json:"sku"`
		ImageURLs   *[]string `json:"image_urls"`
		Tags        *[]string `json:"tags"`
		IsActive    *bool     `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).
		Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
			&p.SKU, &p.CategoryID, &p.BrandID, &p.ImageURLs, &p.Tags, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
			return
		}
		p.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock doit être positif"})
			return
		}
		p.Stock = *req.Stock
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.ImageURLs != nil {
		p.ImageURLs = *req.ImageURLs
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	now := time.Now()
	p.UpdatedAt = &now

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, stock = ?,
		sku = ?, image_urls = ?, tags = ?, is_active = ?, updated_at = ? WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.Stock, p.SKU, p.ImageURLs, p.Tags,
		p.IsActive, p.UpdatedAt, productID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour produit %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go services.IndexProduct(p)
	cache.InvalidateProductCache(productID.String())
	invalidateProductListCache()

	c.JSON(http.StatusOK, p)
}

// DeleteProduct supprime un produit (admin).
func DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var slug string
	var imageURLs []string
	if err := session.Query("SELECT slug, image_urls FROM products WHERE product_id = ?", productID).
		Scan(&slug, &imageURLs); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if err := session.Query("DELETE FROM products WHERE product_id = ?", productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	session.Query("DELETE FROM products_by_slug WHERE slug = ?", slug).Exec()

	// Nettoyage best-effort des images et de l'index de recherche.
	go func() {
		for _, u := range imageURLs {
			if err := services.DeleteImage(context.Background(), u); err != nil {
				log.Printf("⚠️ Erreur suppression image %s: %v", u, err)
			}
		}
		services.RemoveProductFromIndex(productID.String())
	}()

	cache.InvalidateProductCache(productID.String())
	invalidateProductListCache()

	log.Printf("🗑️ Produit supprimé: %s", productID)
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé", "id": productID.String()})
}
