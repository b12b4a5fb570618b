package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"atelier_back_end/internal/config"
	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"
	"atelier_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
)

// InitOAuth enregistre les providers goth et le store de session gothic.
// Appelé une fois au démarrage.
func InitOAuth() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	key := os.Getenv("SESSION_SECRET")
	if key == "" {
		key = "session_secret_dev"
	}
	store := sessions.NewCookieStore([]byte(key))
	store.MaxAge(600)
	store.Options.HttpOnly = true
	gothic.Store = store

	goth.UseProviders(
		google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			baseURL+"/api/auth/google/callback",
		),
		facebook.New(
			os.Getenv("FACEBOOK_CLIENT_ID"),
			os.Getenv("FACEBOOK_CLIENT_SECRET"),
			baseURL+"/api/auth/facebook/callback",
		),
	)
}

// ================== AUTH SOCIALE (WEB) ==================

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur callback OAuth %s: %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification " + provider + " échouée"})
		return
	}

	user, err := findOrCreateOAuthUser(provider, gothUser.Email, gothUser.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	frontURL := os.Getenv("STORE_BASE_URL")
	if frontURL == "" {
		frontURL = "http://localhost:3000"
	}
	c.Redirect(http.StatusTemporaryRedirect, frontURL+"/auth/callback?token="+token)
}

// ================== AUTH SOCIALE (MOBILE) ==================

// GoogleMobileLogin échange un code d'autorisation Google (flow natif,
// sans redirection web) contre un JWT maison.
func GoogleMobileLogin(c *gin.Context) {
	var body struct {
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code manquant"})
		return
	}

	conf := *config.GoogleOAuthConfig
	conf.RedirectURL = body.RedirectURI

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	oauthToken, err := conf.Exchange(ctx, body.Code)
	if err != nil {
		log.Printf("❌ Erreur échange code Google: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code Google invalide"})
		return
	}

	client := conf.Client(ctx, oauthToken)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification Google"})
		return
	}
	defer resp.Body.Close()

	var gu struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil || gu.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profil Google invalide"})
		return
	}

	user, err := findOrCreateOAuthUser("google", gu.Email, gu.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "email": user.Email, "name": user.Name})
}

// findOrCreateOAuthUser retrouve un compte par email ou le crée pour un
// provider social. Pas de mot de passe local sur ces comptes.
func findOrCreateOAuthUser(provider, email, name string) (models.User, error) {
	lookup, err := database.GetPreparedGetUserByEmail()
	if err != nil {
		return models.User{}, err
	}

	var userID gocql.UUID
	if err := lookup.Bind(email).Scan(&userID); err == nil {
		getUser, err := database.GetPreparedGetUserByID()
		if err != nil {
			return models.User{}, err
		}
		var storedEmail, storedName, phone, role, storedProvider string
		var password string
		if err := getUser.Bind(userID).Scan(&storedEmail, &password, &storedName, &phone, &role, &storedProvider); err != nil {
			return models.User{}, err
		}
		return models.User{
			ID:       userID.String(),
			Name:     storedName,
			Email:    storedEmail,
			Phone:    phone,
			Role:     role,
			Provider: storedProvider,
		}, nil
	}

	userID = gocql.TimeUUID()
	now := time.Now()

	insertUser, err := database.GetPreparedInsertUser()
	if err != nil {
		return models.User{}, err
	}
	if err := insertUser.Bind(userID, email, "", name, "", "customer", provider, now, now).Exec(); err != nil {
		return models.User{}, err
	}
	insertByEmail, err := database.GetPreparedInsertUserByEmail()
	if err != nil {
		return models.User{}, err
	}
	if err := insertByEmail.Bind(email, userID).Exec(); err != nil {
		return models.User{}, err
	}

	go func() {
		if err := utils.SendWelcomeEmail(email, name); err != nil {
			log.Printf("⚠️ Email de bienvenue non envoyé à %s: %v", email, err)
		}
	}()

	log.Printf("✅ Compte %s créé via %s", email, provider)

	return models.User{
		ID:       userID.String(),
		Name:     name,
		Email:    email,
		Role:     "customer",
		Provider: provider,
	}, nil
}
