package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/agrolink/quote-service/internal/db"
	"github.com/agrolink/quote-service/internal/handlers"
	"github.com/agrolink/quote-service/internal/repository"
	"github.com/agrolink/quote-service/internal/router"
	"github.com/agrolink/quote-service/internal/router/config"
	"github.com/agrolink/quote-service/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	var (
		quoteRepo     repository.QuoteRepository
		addressRepo   repository.AddressRepository
		promotionRepo repository.PromotionRepository
		profileRepo   repository.ProfileRepository
		productRepo   repository.ProductRepository
	)

	if cfg.StoreBackend == "memory" {
		store := repository.NewMemoryStore()
		quoteRepo = store
		addressRepo = store
		promotionRepo = store
		profileRepo = store
		productRepo = store
		logger.Println("using in-memory store, state resets on restart")
	} else {
		runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

		dbPool, err := db.InitDb(cfg)
		if err != nil {
			log.Fatalf("error initializing database: %v", err)
		}
		defer dbPool.Close()

		quoteRepo = repository.NewPostgresQuoteRepository(dbPool)
		addressRepo = repository.NewPostgresAddressRepository(dbPool)
		promotionRepo = repository.NewPostgresPromotionRepository(dbPool)
		profileRepo = repository.NewPostgresProfileRepository(dbPool)
		productRepo = repository.NewPostgresProductRepository(dbPool)
	}

	quoteService := services.NewQuoteService(quoteRepo)
	addressService := services.NewAddressService(addressRepo)
	promotionService := services.NewPromotionService(promotionRepo)
	catalogService := services.NewCatalogService(productRepo)

	quoteHandler := handlers.NewQuoteHandler(quoteService, profileRepo, logger, 5*time.Second)
	addressHandler := handlers.NewAddressHandler(addressService, profileRepo, logger, 5*time.Second)
	promotionHandler := handlers.NewPromotionHandler(promotionService, profileRepo, logger, 5*time.Second)
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger, 5*time.Second)

	routes := router.InitRoutes(quoteHandler, addressHandler, promotionHandler, catalogHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
