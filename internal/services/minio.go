package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"atelier_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadImage stocke une image produit dans le bucket MinIO et retourne
// son URL publique. Le nom d'objet est préfixé d'un UUID pour éviter les
// collisions entre uploads du même fichier.
func UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := uuid.NewString() + path.Ext(file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}

// DeleteImage supprime un objet du bucket à partir de son URL publique.
func DeleteImage(ctx context.Context, imageURL string) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	key := objectKeyFromURL(imageURL, bucket)
	if key == "" {
		return fmt.Errorf("URL d'image invalide: %s", imageURL)
	}

	return database.MinIO.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// GenerateSignedURL génère une URL signée à durée limitée pour un objet,
// à partir de son URL publique ou de sa clé.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	key := objectKeyFromURL(objectPath, bucket)
	if key == "" {
		key = objectPath
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, make(url.Values))
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

// objectKeyFromURL extrait la clé d'objet d'une URL publique MinIO.
func objectKeyFromURL(imageURL, bucket string) string {
	marker := "/" + bucket + "/"
	idx := strings.Index(imageURL, marker)
	if idx < 0 {
		return ""
	}
	return imageURL[idx+len(marker):]
}
