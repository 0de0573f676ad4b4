package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/outletplus/pos-backend/api/controllers"
	"github.com/outletplus/pos-backend/api/middleware"
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
	"github.com/outletplus/pos-backend/pkg/enums"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/metrics"
)

// Deps carries everything the HTTP surface needs. Optional fields
// (Metrics, Registry) may be nil.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger

	AuthService      auth.Service
	UsersService     users.Service
	InventoryService inventory.Service
	CustomersService customers.Service
	SuppliersService suppliers.Service
	ShoppingService  shopping.Service
	SalesService     sales.Service
	SettingsService  settings.Service
	DashboardService dashboard.Service
	PrintingService  printing.Service

	PricingEngine *pricing.Engine
	Installments  *installments.Calculator
	RatesRepo     *rates.Repository

	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessDeps(deps.DBPinger, deps.RedisPinger)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.InventoryService, logg))
			r.Get("/{unitId}", controllers.InventoryGet(deps.InventoryService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(enums.PermissionManageInventory, logg))
				r.Post("/", controllers.InventoryCreate(deps.InventoryService, logg))
				r.Put("/{unitId}", controllers.InventoryUpdate(deps.InventoryService, logg))
				r.Delete("/{unitId}", controllers.InventoryDelete(deps.InventoryService, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(deps.CustomersService, logg))
			r.Get("/{customerId}", controllers.CustomerGet(deps.CustomersService, logg))
			r.Post("/", controllers.CustomerCreate(deps.CustomersService, logg))
			r.Put("/{customerId}", controllers.CustomerUpdate(deps.CustomersService, logg))
			r.Delete("/{customerId}", controllers.CustomerDelete(deps.CustomersService, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionManageSuppliers, logg))
			r.Get("/", controllers.SupplierList(deps.SuppliersService, logg))
			r.Get("/{supplierId}", controllers.SupplierGet(deps.SuppliersService, logg))
			r.Post("/", controllers.SupplierCreate(deps.SuppliersService, logg))
			r.Put("/{supplierId}", controllers.SupplierUpdate(deps.SuppliersService, logg))
			r.Delete("/{supplierId}", controllers.SupplierDelete(deps.SuppliersService, logg))
		})

		r.Route("/shopping", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionManageSuppliers, logg))
			r.Get("/", controllers.ShoppingList(deps.ShoppingService, logg))
			r.Get("/{itemId}", controllers.ShoppingGet(deps.ShoppingService, logg))
			r.Post("/", controllers.ShoppingCreate(deps.ShoppingService, logg))
			r.Put("/{itemId}", controllers.ShoppingUpdate(deps.ShoppingService, logg))
			r.Put("/{itemId}/status", controllers.ShoppingSetStatus(deps.ShoppingService, logg))
			r.Delete("/{itemId}", controllers.ShoppingDelete(deps.ShoppingService, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CartCreate(deps.SalesService, logg))
			r.Get("/{cartId}", controllers.CartGet(deps.SalesService, logg))
			r.Put("/{cartId}/customer", controllers.CartSetCustomer(deps.SalesService, logg))
			r.Post("/{cartId}/lines", controllers.CartAddLine(deps.SalesService, logg))
			r.Delete("/{cartId}/lines/{lineId}", controllers.CartRemoveLine(deps.SalesService, logg))
			r.Post("/{cartId}/payments", controllers.CartAddPayment(deps.SalesService, logg))
			r.Delete("/{cartId}/payments/{paymentId}", controllers.CartRemovePayment(deps.SalesService, logg))
			r.Post("/{cartId}/finalize", controllers.CartFinalize(deps.SalesService, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(deps.SalesService, logg))
			r.Get("/{saleId}", controllers.SaleGet(deps.SalesService, logg))
		})

		r.Route("/calculator", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionAccessCalculator, logg))
			r.Post("/quote", controllers.CalculatorQuote(deps.PricingEngine, logg))
			r.Post("/installments", controllers.CalculatorInstallments(deps.Installments, logg))
			r.Post("/gross-up", controllers.CalculatorGrossUp(logg))
			r.Post("/net-down", controllers.CalculatorNetDown(logg))
			r.Get("/settings", controllers.CalculatorSettingsGet(deps.SettingsService, logg))
			r.Put("/settings", controllers.CalculatorSettingsPut(deps.SettingsService, logg))
			r.Get("/rates", controllers.RatesList(deps.RatesRepo, logg))
			r.Put("/rates", controllers.RatesReplace(deps.RatesRepo, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionViewDashboard, logg))
			r.Get("/summary", controllers.DashboardSummary(deps.DashboardService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionManageTeam, logg))
			r.Get("/", controllers.UserList(deps.UsersService, logg))
			r.Get("/{userId}", controllers.UserGet(deps.UsersService, logg))
			r.Post("/", controllers.UserCreate(deps.UsersService, logg))
			r.Put("/{userId}", controllers.UserUpdate(deps.UsersService, logg))
			r.Delete("/{userId}", controllers.UserDeactivate(deps.UsersService, logg))
		})

		r.Route("/print", func(r chi.Router) {
			r.Get("/labels", controllers.PrintLabels(deps.PrintingService, logg))
			r.Get("/report", controllers.PrintReport(deps.PrintingService, logg))
			r.Get("/receipt/{saleId}", controllers.PrintReceipt(deps.PrintingService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/store", controllers.StoreSettingsGet(deps.SettingsService, logg))
			r.With(middleware.RequireRole(enums.UserRoleAdmin, logg)).
				Put("/store", controllers.StoreSettingsUpdate(deps.SettingsService, logg))
		})
	})

	return r
}
