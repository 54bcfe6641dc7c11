package main

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"lyra/internal/cache"
	"lyra/internal/clients"
	"lyra/internal/config"
	"lyra/internal/handlers"
	"lyra/internal/middleware"
	"lyra/internal/repository"
	"lyra/internal/service"
	"lyra/internal/worker"
	"lyra/pkg/database"
	"lyra/pkg/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Lyra Dashboard Starting ===")

	cfg := config.Load()

	// PostgreSQL
	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Redis
	redisClient, err := redis.Connect(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Репозитории и кэш
	issRepo := repository.NewIssRepository(db)
	osdrRepo := repository.NewOsdrRepository(db)
	cacheStore := cache.NewRedisStore(redisClient)

	// Клиенты внешних API
	computeClient := clients.NewComputeClient(clients.ComputeConfig{
		BaseURL:    cfg.Upstream.URL,
		Timeout:    cfg.Upstream.Timeout,
		Retries:    cfg.Upstream.Retries,
		RetryDelay: cfg.Upstream.RetryDelay,
	})
	jwstClient := clients.NewJWSTClient(clients.JWSTConfig{
		Host:       cfg.JWST.Host,
		APIKey:     cfg.JWST.APIKey,
		Email:      cfg.JWST.Email,
		Timeout:    cfg.Upstream.Timeout,
		Retries:    cfg.Upstream.Retries,
		RetryDelay: cfg.Upstream.RetryDelay,
	})
	astroClient := clients.NewAstroClient(clients.AstroConfig{
		AppID:      cfg.Astro.AppID,
		Secret:     cfg.Astro.Secret,
		BaseURL:    cfg.Astro.BaseURL,
		Timeout:    cfg.Upstream.Timeout,
		Retries:    cfg.Upstream.Retries,
		RetryDelay: cfg.Upstream.RetryDelay,
	})

	// Сервисы
	issService := service.NewISSService(issRepo, cacheStore, computeClient)
	osdrService := service.NewOSDRService(osdrRepo, cacheStore, computeClient)
	jwstService := service.NewJWSTService(cacheStore, computeClient, jwstClient, cfg.JWST.ProgramID)
	astroService := service.NewAstroService(cacheStore, astroClient)
	legacyService := service.NewLegacyService(cfg.Legacy.Dir, issRepo)

	// Фоновые задачи
	scheduler := worker.NewScheduler()
	if cfg.Workers.ISSEnabled {
		scheduler.AddWorker(worker.NewISSWorker(issService, cfg.Workers.ISSInterval))
		log.Printf("ISS Worker enabled (interval: %v)", cfg.Workers.ISSInterval)
	}
	if cfg.Workers.OSDREnabled {
		scheduler.AddWorker(worker.NewOSDRWorker(osdrService, osdrRepo, cfg.Workers.OSDRInterval))
		log.Printf("OSDR Worker enabled (interval: %v)", cfg.Workers.OSDRInterval)
	}

	go scheduler.Start()
	defer scheduler.Stop()

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	})
	r.LoadHTMLGlob("web/templates/*.html")

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting только для продакшена
	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	handlers.SetupRouter(r, handlers.Handlers{
		ISS:       handlers.NewISSHandler(issService),
		OSDR:      handlers.NewOSDRHandler(osdrService),
		JWST:      handlers.NewJWSTHandler(jwstService),
		Astro:     handlers.NewAstroHandler(astroService),
		Proxy:     handlers.NewProxyHandler(computeClient),
		Legacy:    handlers.NewLegacyHandler(legacyService),
		Dashboard: handlers.NewDashboardHandler(issService, osdrService, jwstService, astroService),
		CMS:       handlers.NewCMSHandler(),
	}, cfg.App.Debug)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
