package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"atelier_back_end/internal/cache"
	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"
	"atelier_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis et mot de passe de 8 caractères minimum"})
		return
	}

	// email déjà pris ?
	lookup, err := database.GetPreparedGetUserByEmail()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	var existingID gocql.UUID
	if err := lookup.Bind(input.Email).Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("❌ Erreur hash mot de passe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	userID := gocql.TimeUUID()
	now := time.Now()

	insertUser, err := database.GetPreparedInsertUser()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	if err := insertUser.Bind(userID, input.Email, hashedPassword, input.Name, input.Phone,
		"customer", "local", now, now).Exec(); err != nil {
		log.Printf("❌ Erreur création utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	insertByEmail, err := database.GetPreparedInsertUserByEmail()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	if err := insertByEmail.Bind(input.Email, userID).Exec(); err != nil {
		log.Printf("❌ Erreur index email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		ID:       userID.String(),
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     "customer",
		Provider: "local",
	}

	go func() {
		if err := utils.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Printf("⚠️ Email de bienvenue non envoyé à %s: %v", user.Email, err)
		}
	}()

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	lookup, err := database.GetPreparedGetUserByEmail()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	var userID gocql.UUID
	if err := lookup.Bind(input.Email).Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	getUser, err := database.GetPreparedGetUserByID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	var email, password, name, phone, role, provider string
	if err := getUser.Bind(userID).Scan(&email, &password, &name, &phone, &role, &provider); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	if provider != "local" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ce compte utilise une connexion " + provider})
		return
	}

	// Fast path : vérification déjà faite récemment
	valid, _ := cache.GetPasswordHashFromCache(input.Email, input.Password)
	if !valid {
		valid, err = utils.VerifyPassword(input.Password, password)
		if err != nil || !valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
			return
		}
		cache.SetPasswordHashInCache(input.Email, input.Password)
	}

	user := models.User{
		ID:       userID.String(),
		Name:     name,
		Email:    email,
		Phone:    phone,
		Role:     role,
		Provider: provider,
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

// Me retourne le profil de l'utilisateur connecté.
func Me(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword change le mot de passe du compte local connecté.
func ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mot de passe de 8 caractères minimum"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id invalide"})
		return
	}

	var email, storedHash, provider string
	if err := session.Query("SELECT email, password, provider FROM users WHERE user_id = ?", uid).
		Scan(&email, &storedHash, &provider); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if provider != "local" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ce compte n'a pas de mot de passe local"})
		return
	}

	valid, err := utils.VerifyPassword(input.CurrentPassword, storedHash)
	if err != nil || !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe actuel incorrect"})
		return
	}

	newHash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur changement de mot de passe"})
		return
	}

	if err := session.Query("UPDATE users SET password = ?, updated_at = ? WHERE user_id = ?",
		newHash, time.Now(), uid).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour mot de passe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur changement de mot de passe"})
		return
	}

	cache.InvalidateAuthCache(email)
	cache.InvalidateUserCache(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe modifié"})
}
