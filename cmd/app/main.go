package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carpool-matching-service/internal/config"
	geoAdapter "carpool-matching-service/internal/infra/adapters/geocode"
	pg "carpool-matching-service/internal/infra/db/postgres"
	"carpool-matching-service/internal/infra/logging"
	"carpool-matching-service/internal/infra/metrics"
	red "carpool-matching-service/internal/infra/redis"
	"carpool-matching-service/internal/infra/web"
	"carpool-matching-service/internal/infra/worker"
	"carpool-matching-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	jobRepo := pg.NewJobRepo(pool, tm)
	resultRepo := pg.NewResultRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	accountRepo := pg.NewAccountRepo(pool)

	// ---- Geocode cache (optional; searches fall through when redis is absent) ----
	var geocodeCache *red.GeocodeCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		geocodeCache = red.NewGeocodeCache(redisClient, cfg.Redis.TTL)
	} else {
		logger.Warn().Msg("redis.url not set; geocode responses will not be cached")
	}

	// ---- Use cases ----
	accountUC := usecase.NewAccountUseCase(accountRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	optimizeUC := usecase.NewOptimizeUseCase(jobRepo, resultRepo, userRepo)

	nominatim := geoAdapter.NewNominatimAdapter(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent)
	var geocodeUC *usecase.GeocodeUseCase
	if geocodeCache != nil {
		geocodeUC = usecase.NewGeocodeUseCase(nominatim, geocodeCache)
	} else {
		geocodeUC = usecase.NewGeocodeUseCase(nominatim, nil)
	}

	// ---- Job dispatcher ----
	dispatcher := worker.NewDispatcher(cfg.Worker.PollInterval, jobRepo, optimizeUC, logger)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	server := web.NewServer(accountUC, userUC, optimizeUC, geocodeUC, auth, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
