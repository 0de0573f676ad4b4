package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/outletplus/pos-backend/api/routes"
	"github.com/outletplus/pos-backend/internal/auth"
	"github.com/outletplus/pos-backend/internal/customers"
	"github.com/outletplus/pos-backend/internal/dashboard"
	"github.com/outletplus/pos-backend/internal/installments"
	"github.com/outletplus/pos-backend/internal/inventory"
	"github.com/outletplus/pos-backend/internal/printing"
	"github.com/outletplus/pos-backend/internal/pricing"
	"github.com/outletplus/pos-backend/internal/rates"
	"github.com/outletplus/pos-backend/internal/sales"
	"github.com/outletplus/pos-backend/internal/settings"
	"github.com/outletplus/pos-backend/internal/shopping"
	"github.com/outletplus/pos-backend/internal/suppliers"
	"github.com/outletplus/pos-backend/internal/users"
	"github.com/outletplus/pos-backend/pkg/auth/session"
	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/db"
	"github.com/outletplus/pos-backend/pkg/devicecheck"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/metrics"
	"github.com/outletplus/pos-backend/pkg/migrate"
	"github.com/outletplus/pos-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	unitsRepo := inventory.NewRepository(gormDB)
	customersRepo := customers.NewRepository(gormDB)
	suppliersRepo := suppliers.NewRepository(gormDB)
	shoppingRepo := shopping.NewRepository(gormDB)
	cartsRepo := sales.NewCartRepository(gormDB)
	salesRepo := sales.NewSaleRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	ratesRepo := rates.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		Repo:     usersRepo,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.ServiceParams{
		Repo:    settingsRepo,
		Sales:   cfg.Sales,
		Pricing: cfg.Pricing,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	var analyzer *devicecheck.Client
	if cfg.DeviceCheck.Enabled {
		analyzer, err = devicecheck.NewClient(cfg.DeviceCheck.APIKey,
			devicecheck.WithBaseURL(cfg.DeviceCheck.BaseURL),
			devicecheck.WithTimeout(cfg.DeviceCheck.Timeout))
		if err != nil {
			logg.Error(context.Background(), "failed to create devicecheck client", err)
			os.Exit(1)
		}
	}

	inventoryParams := inventory.ServiceParams{
		Repo:   unitsRepo,
		Logger: logg,
	}
	if analyzer != nil {
		inventoryParams.Analyzer = analyzer
	}
	inventoryService, err := inventory.NewService(inventoryParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customers.ServiceParams{
		Repo:   customersRepo,
		Sales:  salesRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	suppliersService, err := suppliers.NewService(suppliers.ServiceParams{
		Repo:   suppliersRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}

	shoppingService, err := shopping.NewService(shopping.ServiceParams{
		Repo:   shoppingRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shopping service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(sales.ServiceParams{
		DB:        dbClient,
		Carts:     cartsRepo,
		Sales:     salesRepo,
		Units:     unitsRepo,
		Customers: customersRepo,
		Warranty:  settingsService,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Repo:      dashboardRepo,
		Cache:     redisClient,
		Logger:    logg,
		CacheMiss: redis.IsNil,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	printingService, err := printing.NewService(printing.ServiceParams{
		Units:  unitsRepo,
		Sales:  salesRepo,
		Store:  settingsService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create printing service", err)
		os.Exit(1)
	}

	installmentsCalc, err := installments.NewCalculator(ratesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create installments calculator", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		Sessions:         sessionManager,
		DBPinger:         dbClient,
		RedisPinger:      redisClient,
		AuthService:      authService,
		UsersService:     usersService,
		InventoryService: inventoryService,
		CustomersService: customersService,
		SuppliersService: suppliersService,
		ShoppingService:  shoppingService,
		SalesService:     salesService,
		SettingsService:  settingsService,
		DashboardService: dashboardService,
		PrintingService:  printingService,
		PricingEngine:    pricing.NewEngine(settingsService.RoundingIncrement(context.Background())),
		Installments:     installmentsCalc,
		RatesRepo:        ratesRepo,
		HTTPMetrics:      httpMetrics,
		Registry:         registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
