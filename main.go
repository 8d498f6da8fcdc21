package main

import (
	"context"
	"log"
	"os"

	"stocklens/analysis"
	"stocklens/auth"
	"stocklens/config"
	"stocklens/handlers"
	"stocklens/normalize"
	"stocklens/routes"
	"stocklens/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

// warmFromStorage restores the password set, the latest product master
// and the most recent archived GA4 exports so the service comes back
// with data after a restart.
func warmFromStorage(store *analysis.Store, passwords *auth.Manager) {
	if !config.IsStorageEnabled() {
		log.Println("Object storage not configured, starting empty")
		return
	}
	ctx := context.Background()
	sc, err := storage.NewClient(ctx)
	if err != nil {
		log.Printf("Could not create storage client: %v", err)
		return
	}

	if set, err := sc.LoadPasswords(ctx); err != nil {
		log.Printf("Could not load stored passwords: %v", err)
	} else if set != nil {
		passwords.Restore(*set)
		log.Println("Restored passwords from storage")
	}

	raw, key, err := sc.DownloadProductMaster(ctx)
	if err != nil {
		log.Printf("No product master in storage: %v", err)
		return
	}
	records, err := normalize.LoadProductMaster(raw)
	if err != nil {
		log.Printf("Stored product master %s could not be parsed: %v", key, err)
		return
	}
	store.SetProductMaster(records)
	log.Printf("Restored product master from %s (%d records)", key, len(records))

	loaded := 0
	for _, brand := range config.Brands {
		batch, err := sc.LoadLatestFactExport(ctx, brand)
		if err != nil || batch == nil {
			continue
		}
		if err := store.SetFacts(config.DefaultPeriodType, brand, analysis.SlotCurrent, batch); err != nil {
			log.Printf("Could not restore facts for %s: %v", brand, err)
			continue
		}
		loaded++
	}
	if loaded == 0 {
		return
	}
	if _, err := store.Reconcile(config.DefaultPeriodType); err != nil {
		log.Printf("Warm reconcile failed: %v", err)
		return
	}
	if err := store.SwitchActive(config.DefaultPeriodType); err != nil {
		log.Printf("Could not activate warm data: %v", err)
		return
	}
	log.Printf("Restored GA4 exports for %d brands", loaded)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	config.Load()
	if config.AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	passwords, err := auth.NewManager()
	if err != nil {
		log.Fatalf("Could not initialize passwords: %v", err)
	}
	store := analysis.NewStore()

	warmFromStorage(store, passwords)

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app, handlers.New(store, passwords))

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}
	log.Fatal(app.Listen(addr))
}
