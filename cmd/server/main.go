package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/config"
	"github.com/vmartins/escala-service/internal/database"
	"github.com/vmartins/escala-service/internal/handler"
	"github.com/vmartins/escala-service/internal/middleware"
	"github.com/vmartins/escala-service/internal/queue"
	"github.com/vmartins/escala-service/internal/repository"
	"github.com/vmartins/escala-service/internal/router"
	"github.com/vmartins/escala-service/internal/scheduler"
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

	// Redis is optional: without it rate limiting and response caching
	// switch themselves off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	shiftRepo := repository.NewShiftRepo(db)
	crewRepo := repository.NewCrewRepo(db)
	vehicleRepo := repository.NewVehicleRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	personnelRepo := repository.NewPersonnelRepo(db)
	dailyRepo := repository.NewDailyServiceRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	resolver := &scheduler.ContextResolver{Vehicles: vehicleRepo, Units: unitRepo}
	sched := scheduler.NewScheduler(resolver, shiftRepo, crewRepo, vehicleRepo, personnelRepo)
	daily := scheduler.NewDailyService(dailyRepo, personnelRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	shiftHandler := handler.NewShiftHandler(sched, shiftRepo, crewRepo)
	dailyHandler := handler.NewDailyServiceHandler(daily)
	refHandler := handler.NewReferenceHandler(unitRepo, vehicleRepo, personnelRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterShifts(e, shiftHandler, cfg.JWTSecret)
	router.RegisterDailyService(e, dailyHandler, cfg.JWTSecret, cacheMW)
	router.RegisterReference(e, refHandler, cfg.JWTSecret, cacheMW)

	// Audit trail consumer; it reconnects on its own and never stops the
	// server.
	go func() {
		if err := queue.StartShiftConsumer(); err != nil {
			log.Printf("shift consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
