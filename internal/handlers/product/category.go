package product

import (
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GetAllCategories liste les catégories de la boutique.
func GetAllCategories(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT category_id, name, slug, description, image_url, created_at
		FROM categories`).Iter()

	categories := []models.Category{}
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ImageURL, &cat.CreatedAt) {
		categories = append(categories, cat)
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory crée une catégorie (admin).
func CreateCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cat.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	cat.ID = gocql.TimeUUID()
	if cat.Slug == "" {
		cat.Slug = slugify(cat.Name)
	}
	now := time.Now()
	cat.CreatedAt = &now

	if err := session.Query(`INSERT INTO categories (category_id, name, slug, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.ImageURL, cat.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

// UpdateCategory modifie une catégorie (admin).
func UpdateCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
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

	var cat models.Category
	if err := session.Query(`SELECT name, description, image_url FROM categories WHERE category_id = ?`,
		categoryID).Scan(&cat.Name, &cat.Description, &cat.ImageURL); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.ImageURL != nil {
		cat.ImageURL = *req.ImageURL
	}

	if err := session.Query(`UPDATE categories SET name = ?, description = ?, image_url = ?
		WHERE category_id = ?`,
		cat.Name, cat.Description, cat.ImageURL, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie mise à jour", "id": categoryID.String()})
}

// DeleteCategory supprime une catégorie vide (admin).
func DeleteCategory(c *gin.Context) {
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

	// Refuse la suppression si des produits y sont encore rattachés.
	var count int
	if err := session.Query(`SELECT COUNT(*) FROM products WHERE category_id = ? ALLOW FILTERING`,
		categoryID).Scan(&count); err == nil && count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Des produits sont encore rattachés à cette catégorie"})
		return
	}

	if err := session.Query("DELETE FROM categories WHERE category_id = ?", categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée", "id": categoryID.String()})
}

// GetAllBrands liste les marques.
func GetAllBrands(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT brand_id, name, slug, logo_url, created_at FROM brands`).Iter()

	brands := []models.Brand{}
	var b models.Brand
	for iter.Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL, &b.CreatedAt) {
		brands = append(brands, b)
		b = models.Brand{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, brands)
}

// CreateBrand crée une marque (admin).
func CreateBrand(c *gin.Context) {
	var b models.Brand
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if b.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	b.ID = gocql.TimeUUID()
	if b.Slug == "" {
		b.Slug = slugify(b.Name)
	}
	now := time.Now()
	b.CreatedAt = &now

	if err := session.Query(`INSERT INTO brands (brand_id, name, slug, logo_url, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Slug, b.LogoURL, b.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, b)
}

// DeleteBrand supprime une marque (admin).
func DeleteBrand(c *gin.Context) {
	brandID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de marque invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("DELETE FROM brands WHERE brand_id = ?", brandID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marque supprimée", "id": brandID.String()})
}

// GetAllTags liste les étiquettes produit.
func GetAllTags(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT tag_id, name, slug FROM tags`).Iter()

	tags := []models.Tag{}
	var t models.Tag
	for iter.Scan(&t.ID, &t.Name, &t.Slug) {
		tags = append(tags, t)
		t = models.Tag{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tags)
}

// CreateTag crée une étiquette (admin).
func CreateTag(c *gin.Context) {
	var t models.Tag
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if t.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	t.ID = gocql.TimeUUID()
	if t.Slug == "" {
		t.Slug = slugify(t.Name)
	}

	if err := session.Query(`INSERT INTO tags (tag_id, name, slug) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.Slug).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, t)
}

// DeleteTag supprime une étiquette (admin).
func DeleteTag(c *gin.Context) {
	tagID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID d'étiquette invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("DELETE FROM tags WHERE tag_id = ?", tagID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Étiquette supprimée", "id": tagID.String()})
}
