package main

import (
	"encoding/gob"
	"fmt"
	"log"
	"net/http"

	"festival-ticketing-platform/internal/config"
	"festival-ticketing-platform/internal/database"
	"festival-ticketing-platform/internal/handlers"
	"festival-ticketing-platform/internal/middleware"
	"festival-ticketing-platform/internal/models"
	"festival-ticketing-platform/internal/repositories"
	"festival-ticketing-platform/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

func main() {
	// Register types for session serialization
	gob.Register(&services.StoreSession{})
	gob.Register(&models.Cart{})
	gob.Register(&models.DiscountSlot{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Load the price catalog, falling back to the built-in table when no
	// catalog database is reachable
	catalog := loadCatalog(cfg)

	// Create session store
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day; store sessions are short-lived
		HttpOnly: true,
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	// Initialize services
	storeService := services.NewStoreService(catalog)
	checkoutService := services.NewCheckoutService(services.CheckoutConfig{
		BaseURL: cfg.Orders.BaseURL,
	})

	// Initialize handlers
	storeHandler := handlers.NewStoreHandler(storeService, checkoutService, sessionStore)

	// Set up router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	storeHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Festival ticket store listening on %s (env: %s)", addr, cfg.Server.Env)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("Server failed:", err)
	}
}

// loadCatalog reads the price table from the catalog database when one is
// configured and reachable; otherwise it serves the built-in defaults so the
// store can still start.
func loadCatalog(cfg *config.Config) models.PriceCatalog {
	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Printf("Warning: catalog database unavailable: %v", err)
		log.Println("Continuing with the built-in price catalog...")
		return models.DefaultPriceCatalog()
	}
	defer db.Close()

	catalog, err := repositories.NewCatalogRepository(db.DB).LoadPriceCatalog()
	if err != nil {
		log.Printf("Warning: failed to load price catalog: %v", err)
		log.Println("Continuing with the built-in price catalog...")
		return models.DefaultPriceCatalog()
	}

	log.Printf("Loaded price catalog for %d events", len(catalog))
	return catalog
}
