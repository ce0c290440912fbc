package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/auth"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/cache"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/cart"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/catalog"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/config"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/events"
	h "github.com/alexanderyanthar/cardz-galore-app-backend/internal/http"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/repository"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/session"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	catalogRepo := repository.NewCatalogRepository(mongoDB)
	userRepo := repository.NewUserRepository(mongoDB)
	lineRepo := repository.NewCartLineRepository(mongoDB)
	txn := repository.NewTxnRunner(mongoDB.Client())

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kp.Close()
		publisher = kp
		log.Printf("Publishing cart events to %v", cfg.KafkaBrokers)
	}

	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)
	cartCache := cache.NewBreakerCache(cache.NewRedisCache(redisClient))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	authService := auth.NewService(userRepo, sessions)
	catalogService := catalog.NewService(catalogRepo, rng)
	cartService := cart.NewService(lineRepo, userRepo, catalogRepo, txn, cartCache, publisher, cfg.StockCoupling)

	authHandler := h.NewAuthHandler(authService, cfg.RequestTimeout, cfg.SessionTTL)
	cardHandler := h.NewCardHandler(catalogService, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)

	router := h.NewRouter(authHandler, cardHandler, cartHandler, sessions, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "cardz-galore"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server started on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}
	log.Println("server exited")
}
