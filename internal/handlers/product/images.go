package product

import (
	"log"
	"net/http"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const maxImageSize = 5 << 20 // 5 Mo

// UploadProductImage reçoit une image multipart, la stocke dans MinIO et
// ajoute son URL au produit (admin).
func UploadProductImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'image' manquant"})
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop lourde (5 Mo max)"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format non supporté (jpeg, png, webp uniquement)"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var imageURLs []string
	if err := session.Query("SELECT image_urls FROM products WHERE product_id = ?", productID).
		Scan(&imageURLs); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	imageURL, err := services.UploadImage(c.Request.Context(), file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur stockage image"})
		return
	}

	imageURLs = append(imageURLs, imageURL)
	if err := session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		imageURLs, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateProductListCache()
	log.Printf("🖼️ Image ajoutée au produit %s: %s", productID, imageURL)
	c.JSON(http.StatusCreated, gin.H{"url": imageURL, "image_urls": imageURLs})
}

// DeleteProductImage retire une URL d'image du produit et supprime l'objet MinIO (admin).
func DeleteProductImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de produit invalide"})
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'url' manquant"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var imageURLs []string
	if err := session.Query("SELECT image_urls FROM products WHERE product_id = ?", productID).
		Scan(&imageURLs); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	remaining := make([]string, 0, len(imageURLs))
	found := false
	for _, u := range imageURLs {
		if u == req.URL {
			found = true
			continue
		}
		remaining = append(remaining, u)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image non rattachée à ce produit"})
		return
	}

	if err := session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		remaining, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := services.DeleteImage(c.Request.Context(), req.URL); err != nil {
		log.Printf("⚠️ Erreur suppression objet MinIO %s: %v", req.URL, err)
	}

	invalidateProductListCache()
	c.JSON(http.StatusOK, gin.H{"message": "Image supprimée", "image_urls": remaining})
}

// GetSignedImageURL génère une URL signée à durée limitée (aperçus admin).
func GetSignedImageURL(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'url' manquant"})
		return
	}

	signedURL, err := services.GenerateSignedURL(c.Request.Context(), req.URL, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL signée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"signed_url": signedURL})
}
