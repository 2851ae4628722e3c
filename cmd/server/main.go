package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alvin669/prickleys-store/internal/cart"
	"github.com/alvin669/prickleys-store/internal/catalog"
	"github.com/alvin669/prickleys-store/internal/checkout"
	"github.com/alvin669/prickleys-store/internal/orders"
	"github.com/alvin669/prickleys-store/internal/sink"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	h "github.com/alvin669/prickleys-store/internal/http"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	CartID      string
	CartStorage string // redis | mongo | memory
	RedisAddr   string
	RedisPass   string
	CartTTL     time.Duration
	MongoURI    string
	MongoDBName string

	CatalogDBPath     string // empty means seeded memory catalog
	CatalogMigrations string

	OrderSink    string // log | mail | kafka
	Destination  string
	KafkaBrokers []string
	KafkaTopic   string
	SMTP         sink.SMTPConfig

	OrdersDBHost       string
	OrdersDBPort       int
	OrdersDBUser       string
	OrdersDBPassword   string
	OrdersDBName       string
	OrdersMigrations   string
	CheckoutResetDelay time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		CartID:      getEnv("CART_ID", "prickleys-cart"),
		CartStorage: getEnv("CART_STORAGE", "memory"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),
		CartTTL:     getEnvDuration("CART_TTL", 30*24*time.Hour),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storedb"),

		CatalogDBPath:     getEnv("CATALOG_DB", ""),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS", "./migrations/catalog"),

		OrderSink:    getEnv("ORDER_SINK", "log"),
		Destination:  getEnv("ORDER_DESTINATION", sink.DefaultDestination),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "orders"),
		SMTP: sink.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@prickleys.ke"),
			To:       getEnv("ORDER_DESTINATION", sink.DefaultDestination),
		},

		OrdersDBHost:       getEnv("ORDERS_DB_HOST", ""),
		OrdersDBPort:       getEnvInt("ORDERS_DB_PORT", 5432),
		OrdersDBUser:       getEnv("ORDERS_DB_USER", "postgres"),
		OrdersDBPassword:   getEnv("ORDERS_DB_PASSWORD", ""),
		OrdersDBName:       getEnv("ORDERS_DB_NAME", "orders"),
		OrdersMigrations:   getEnv("ORDERS_MIGRATIONS", "./migrations/orders"),
		CheckoutResetDelay: getEnvDuration("CHECKOUT_RESET_DELAY", checkout.DefaultResetDelay),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(".env"); err == nil {
		log.Println(".env loaded")
	}

	cfg := loadConfig()
	ctx := context.Background()

	// Catalog feed
	catalogRepo := buildCatalogRepository(cfg)
	defer catalogRepo.Close()
	catalogService := catalog.NewService(catalogRepo)

	// Cart store over the configured storage backend
	storage := buildCartStorage(ctx, cfg)
	store := cart.NewStore(ctx, storage)
	log.Printf("cart rehydrated with %d item(s)", store.TotalItemCount())

	// Order sink chain: dispatch sink behind the breaker, composed with the
	// archive when an orders database is configured.
	orderSink, cleanupSink := buildOrderSink(cfg)
	defer cleanupSink()

	flow := checkout.NewFlow(store, orderSink, cfg.CheckoutResetDelay)
	defer flow.Close()

	// Router
	productHandler := h.NewProductHandler(catalogService, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(store, catalogService, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(flow, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.Get)
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetState)
			r.Post("/open", checkoutHandler.Open)
			r.Put("/customer", checkoutHandler.SetCustomer)
			r.Post("/submit", checkoutHandler.Submit)
			r.Post("/retry", checkoutHandler.Retry)
			r.Post("/cancel", checkoutHandler.Cancel)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
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

	log.Println("server exited")
}

func buildCatalogRepository(cfg *Config) catalog.Repository {
	if cfg.CatalogDBPath == "" {
		log.Println("no catalog database configured, serving the seeded product range")
		return catalog.NewMemoryRepository(catalog.DefaultProducts())
	}

	repo, err := catalog.NewSQLiteRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	if err := repo.RunMigrations(cfg.CatalogMigrations); err != nil {
		log.Fatalf("failed to migrate catalog database: %v", err)
	}
	log.Printf("catalog database ready at %s", cfg.CatalogDBPath)
	return repo
}

func buildCartStorage(ctx context.Context, cfg *Config) cart.Storage {
	switch cfg.CartStorage {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("cart storage: redis at %s", cfg.RedisAddr)
		return cart.NewRedisStorage(client, cfg.CartID, cfg.CartTTL)
	case "mongo":
		db, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("failed to connect to MongoDB: %v", err)
		}
		log.Printf("cart storage: mongodb at %s", cfg.MongoURI)
		return cart.NewMongoStorage(db, cfg.CartID)
	default:
		log.Println("cart storage: in-memory (cart will not survive restarts)")
		return cart.NewMemoryStorage()
	}
}

func buildOrderSink(cfg *Config) (sink.OrderSink, func()) {
	cleanup := func() {}

	var dispatch sink.OrderSink
	switch cfg.OrderSink {
	case "mail":
		mailSink, err := sink.NewMailSink(cfg.SMTP)
		if err != nil {
			log.Fatalf("failed to build mail sink: %v", err)
		}
		dispatch = mailSink
		log.Printf("order sink: mail to %s via %s", cfg.SMTP.To, cfg.SMTP.Host)
	case "kafka":
		kafkaSink := sink.NewKafkaSink(cfg.KafkaTopic, cfg.KafkaBrokers...)
		cleanup = kafkaSink.Close
		dispatch = kafkaSink
		log.Printf("order sink: kafka topic %s", cfg.KafkaTopic)
	default:
		dispatch = sink.NewLogSink(cfg.Destination)
		log.Printf("order sink: log, destination %s", cfg.Destination)
	}

	sinks := sink.Multi{dispatch}
	if cfg.OrdersDBHost != "" {
		cred := &orders.Credentials{
			Host:              cfg.OrdersDBHost,
			Port:              cfg.OrdersDBPort,
			User:              cfg.OrdersDBUser,
			Password:          cfg.OrdersDBPassword,
			DBName:            cfg.OrdersDBName,
			MigrationsDirPath: cfg.OrdersMigrations,
		}
		repo, err := orders.NewRepository(cred)
		if err != nil {
			log.Fatalf("failed to connect to orders database: %v", err)
		}
		if err := repo.RunMigrations(cred); err != nil {
			log.Fatalf("failed to migrate orders database: %v", err)
		}
		prev := cleanup
		cleanup = func() {
			prev()
			repo.Close()
		}
		sinks = append(sinks, orders.NewArchiveSink(repo))
		log.Println("order archive enabled")
	}

	return sink.NewBreaker(sinks, sink.DefaultRetries, sink.DefaultBackoff), cleanup
}
