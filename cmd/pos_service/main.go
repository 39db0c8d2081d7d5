package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	dashboardAPI "github.com/ridloal/retail-pos/internal/dashboard/api"
	dashboardRepo "github.com/ridloal/retail-pos/internal/dashboard/repository"
	dashboardService "github.com/ridloal/retail-pos/internal/dashboard/service"
	invoiceAPI "github.com/ridloal/retail-pos/internal/invoice/api"
	invoiceRepo "github.com/ridloal/retail-pos/internal/invoice/repository"
	invoiceService "github.com/ridloal/retail-pos/internal/invoice/service"
	"github.com/ridloal/retail-pos/internal/platform/cache"
	"github.com/ridloal/retail-pos/internal/platform/clock"
	"github.com/ridloal/retail-pos/internal/platform/config"
	"github.com/ridloal/retail-pos/internal/platform/database"
	"github.com/ridloal/retail-pos/internal/platform/logger"
	productAPI "github.com/ridloal/retail-pos/internal/product/api"
	productRepo "github.com/ridloal/retail-pos/internal/product/repository"
	productService "github.com/ridloal/retail-pos/internal/product/service"
)

func main() {
	// Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", err)
		os.Exit(1)
	}

	// Setup Logger
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting POS Service...", "store_timezone", cfg.Store.Location.String(), "invoice_prefix", cfg.Store.InvoicePrefix)

	ctx := context.Background()

	// Setup Database
	db, err := database.Connect(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for POS Service", err)
		os.Exit(1)
	}
	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			logger.Error("Failed to apply migrations", err)
			db.Close()
			os.Exit(1)
		}
	}

	// Cache analytics di Redis jika dikonfigurasi
	var analyticsCache cache.Cache = cache.Noop{}
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, analytics will not be cached", "error", err)
		} else {
			analyticsCache = cache.NewRedisCache(client, "pos:", cfg.Cache.TTL)
			logger.Info("Analytics cache enabled", "redis_addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL.String())
		}
	}

	// Setup Dependencies
	clk := clock.NewRealClock()
	dashSvc := dashboardService.NewDashboardService(dashboardRepo.NewPostgresDashboardRepository(db), analyticsCache, clk, cfg.Store.Location)
	invSvc := invoiceService.NewInvoiceService(invoiceRepo.NewPostgresInvoiceRepository(db), clk,
		invoiceService.Options{Prefix: cfg.Store.InvoicePrefix, Location: cfg.Store.Location}, dashSvc)
	prodSvc := productService.NewProductService(productRepo.NewPostgresProductRepository(db))

	scheduler, err := dashboardService.NewScheduler(dashSvc, cfg.Cache.RefreshSpec)
	if err != nil {
		logger.Error("Failed to create analytics scheduler", err)
		os.Exit(1)
	}
	scheduler.Start()

	// Setup Gin Router
	router := newRouter(db, routerOptions{AllowedOrigins: cfg.AllowedOrigins, JWTSecret: cfg.Auth.JWTSecret},
		productAPI.NewProductHandler(prodSvc),
		invoiceAPI.NewInvoiceHandler(invSvc),
		dashboardAPI.NewDashboardHandler(dashSvc),
	)
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("AUTH_JWT_SECRET not set, /api/v1 is unauthenticated")
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("POS Service running on port " + cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to run POS Service server", err)
			os.Exit(1)
		}
	}()

	// Urutan penting: hentikan HTTP dulu, baru scheduler, cache, lalu DB
	wait := gfshutdown.GracefulShutdown(ctx, cfg.Server.ShutdownTimeout, map[string]gfshutdown.Operation{
		"pos-service": func(ctx context.Context) error {
			logger.Info("Graceful shutdown initiated...")
			var errs []error
			if err := server.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
			if err := scheduler.Stop(ctx); err != nil {
				errs = append(errs, err)
			}
			if err := analyticsCache.Close(); err != nil {
				errs = append(errs, err)
			}
			if err := db.Close(); err != nil {
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	})

	exitCode := <-wait
	logger.Info("POS Service stopped", "exit_code", exitCode)
	os.Exit(exitCode)
}
