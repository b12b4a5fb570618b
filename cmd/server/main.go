package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier_back_end/internal/cart"
	"atelier_back_end/internal/checkout"
	"atelier_back_end/internal/config"
	"atelier_back_end/internal/database"
	checkouth "atelier_back_end/internal/handlers/checkout"
	"atelier_back_end/internal/handlers/user"
	"atelier_back_end/internal/payment"
	"atelier_back_end/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
)

// Délai avant qu'une mutation du panier soit recopiée dans le profil Scylla.
const cartFlushDelay = 2 * time.Second

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()
	database.InitPreparedStatements()
	warmupRedisCache()

	user.InitOAuth()

	// Panier : réplique Redis immédiate, réplique profil Scylla différée,
	// notification websocket via pub/sub Redis.
	cartStore := cart.NewStore(
		&cart.RedisReplica{Client: database.Redis},
		&cart.ProfileReplica{},
		cartFlushDelay,
		user.PublishCartEvent,
	)

	orderService := checkout.NewService(
		cartStore,
		checkout.ScyllaCatalog{},
		checkout.ScyllaOrders{},
		checkout.ScyllaCoupons{},
		checkout.ScyllaSettings{},
	)

	paymentService := payment.NewService(
		payment.StripeProvider{},
		payment.ScyllaFinalizer{},
		cartStore,
	)

	r := gin.Default()
	routes.RegisterRoutes(r,
		user.NewCartHandlers(cartStore),
		checkouth.NewHandlers(orderService, paymentService, cartStore),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Println("🚀 Serveur Atelier lancé sur le port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Erreur serveur: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Arrêt en cours...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}

	// Vide les écritures de panier encore en attente avant de couper Scylla.
	cartStore.Close()
	database.CloseScylla()
	log.Println("👋 Serveur arrêté proprement")
}

// warmupRedisCache établit la connexion Redis dès le démarrage pour éviter
// la latence du premier appel.
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
