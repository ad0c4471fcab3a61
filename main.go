package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianmwiruki/Thrills/auth"
	"github.com/brianmwiruki/Thrills/cache"
	"github.com/brianmwiruki/Thrills/cart"
	"github.com/brianmwiruki/Thrills/catalog"
	"github.com/brianmwiruki/Thrills/checkout"
	"github.com/brianmwiruki/Thrills/config"
	"github.com/brianmwiruki/Thrills/logger"
	"github.com/brianmwiruki/Thrills/paypal"
	"github.com/brianmwiruki/Thrills/pricing"
	"github.com/brianmwiruki/Thrills/printify"
	"github.com/brianmwiruki/Thrills/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	sweepInterval   = 10 * time.Minute
	pendingOrderTTL = 3 * time.Hour
)

func main() {
	cfg, cfgErr := config.Load()

	log, err := logger.New(cfg != nil && cfg.Production())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfgErr != nil {
		log.Fatal("invalid configuration", zap.Error(cfgErr))
	}
	log.Info("starting application", zap.String("env", cfg.AppEnv))

	printifyClient, err := printify.NewClient(cfg.PrintifyToken,
		printify.WithBaseURL(cfg.PrintifyBaseURL),
		printify.WithLogger(log.Named("printify")))
	if err != nil {
		log.Fatal("printify client", zap.Error(err))
	}
	paypalClient, err := paypal.NewClient(cfg.PayPalClientID, cfg.PayPalSecret,
		paypal.WithBaseURL(cfg.PayPalBaseURL),
		paypal.WithLogger(log.Named("paypal")))
	if err != nil {
		log.Fatal("paypal client", zap.Error(err))
	}

	products := catalog.NewService(printifyClient, initCache(cfg, log), log.Named("catalog"))
	carts := cart.NewRegistry()
	calc := pricing.NewCalculator(cfg.Policy, cfg.PromoRegistry())
	orders := checkout.NewService(products, paypalClient, calc, log.Named("checkout"))

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.Gin(log), logger.Recovery(log))

	// CORS settings
	r.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))

	routes.SetupRoutes(r, &routes.Deps{
		Issuer:      auth.NewIssuer(cfg.JWTSecret, cfg.CartIdleTTL),
		Carts:       carts,
		Catalog:     products,
		Checkout:    orders,
		Shipping:    printifyClient,
		AdminAPIKey: cfg.AdminAPIKey,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go startSweeper(ctx, log, carts, orders, cfg.CartIdleTTL)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// initCache keeps the catalog in postgres when a database is configured,
// in memory otherwise.
// corsConfig never allows credentials: sessions travel in the Authorization
// header, not in cookies, so a wildcard origin stays safe.
func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
}

func initCache(cfg *config.Config, log *zap.Logger) cache.Cache {
	if cfg.DatabaseDSN == "" {
		log.Info("no database configured, catalog cache in memory")
		return cache.NewMemoryCache()
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	c, err := cache.NewGormCache(db)
	if err != nil {
		log.Fatal("AutoMigrate failed", zap.Error(err))
	}
	return c
}

// startSweeper drops idle carts and abandoned payment orders.
func startSweeper(ctx context.Context, log *zap.Logger, carts *cart.Registry, orders *checkout.Service, idle time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := carts.Sweep(idle)
			m := orders.ExpirePending(pendingOrderTTL)
			if n > 0 || m > 0 {
				log.Info("swept", zap.Int("carts", n), zap.Int("pending_orders", m), zap.Int("active_carts", carts.Len()))
			}
		}
	}
}
