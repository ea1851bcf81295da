package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"voyago/internal/config"
	"voyago/internal/database"
	"voyago/internal/handler"
	"voyago/internal/middleware"
	"voyago/internal/queue"
	"voyago/internal/repository"
	"voyago/internal/router"
	"voyago/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: rate limiting and the catalog cache degrade to
	// pass-through when it is absent.
	rdb := config.NewRedisClient()

	inventory := repository.NewInventoryStore(db)
	catalog := repository.NewCatalogRepo(db)
	ledger := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)

	notifier := queue.NewPublisher()
	reservations := service.NewReservationService(catalog, inventory, ledger, notifier)
	cancellations := service.NewCancellationService(inventory, ledger, notifier)

	authHandler := handler.NewAuthHandler(cfg, users)
	reservationHandler := handler.NewReservationHandler(reservations, cancellations, ledger)
	catalogHandler := handler.NewCatalogHandler(catalog, inventory)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, catalogHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterReservations(e, reservationHandler, cfg.JWTSecret)

	// Consume reservation events into the audit log alongside the API.
	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
