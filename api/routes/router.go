package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/stockroom-backend/api/controllers"
	authcontrollers "github.com/angelmondragon/stockroom-backend/api/controllers/auth"
	ordercontrollers "github.com/angelmondragon/stockroom-backend/api/controllers/orders"
	purchasecontrollers "github.com/angelmondragon/stockroom-backend/api/controllers/purchases"
	reportcontrollers "github.com/angelmondragon/stockroom-backend/api/controllers/reports"
	"github.com/angelmondragon/stockroom-backend/api/middleware"
	"github.com/angelmondragon/stockroom-backend/internal/audit"
	"github.com/angelmondragon/stockroom-backend/internal/auth"
	"github.com/angelmondragon/stockroom-backend/internal/authz"
	"github.com/angelmondragon/stockroom-backend/internal/catalog"
	"github.com/angelmondragon/stockroom-backend/internal/company"
	"github.com/angelmondragon/stockroom-backend/internal/customers"
	"github.com/angelmondragon/stockroom-backend/internal/expenses"
	"github.com/angelmondragon/stockroom-backend/internal/orders"
	"github.com/angelmondragon/stockroom-backend/internal/purchases"
	"github.com/angelmondragon/stockroom-backend/internal/reports"
	"github.com/angelmondragon/stockroom-backend/internal/users"
	"github.com/angelmondragon/stockroom-backend/pkg/auth/session"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	pkgmetrics "github.com/angelmondragon/stockroom-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/stockroom-backend/pkg/redis"
)

// Params carries everything the router wires. Nil services answer 500 on their routes.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	Readiness      map[string]controllers.Pinger
	MetricsHandler http.Handler
	HTTPMetrics    *pkgmetrics.HTTPMetrics

	Sessions    session.AccessSessionChecker
	Idempotency pkgredis.IdempotencyStore
	RateLimiter pkgredis.RateLimiter
	Checker     authz.Checker

	Auth         auth.Service
	Users        users.Service
	Products     catalog.ProductService
	Suppliers    catalog.SupplierService
	Categories   catalog.CategoryService
	Customers    customers.Service
	Company      company.Service
	ExpenseTypes expenses.TypeService
	Expenses     expenses.OtherService
	Orders       orders.Service
	Purchases    purchases.Service
	Reports      reports.Service
	Audit        audit.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Readiness))
	})
	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).Post("/auth/login", authcontrollers.Login(p.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Use(middleware.Idempotency(p.Idempotency, logg))

			can := func(capability authz.Capability) func(http.Handler) http.Handler {
				return middleware.RequireCapability(p.Checker, capability, logg)
			}

			r.Post("/auth/logout", authcontrollers.Logout(p.Auth, logg))
			r.Get("/auth/me", authcontrollers.Me(logg))

			r.With(can(authz.UsersManage)).Route("/users", func(r chi.Router) {
				r.Get("/", controllers.ListUsers(p.Users, logg))
				r.Post("/", controllers.CreateUser(p.Users, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.With(can(authz.CatalogRead)).Get("/", controllers.ListProducts(p.Products, logg))
				r.With(can(authz.CatalogWrite)).Post("/", controllers.CreateProduct(p.Products, logg))
				r.With(can(authz.CatalogRead)).Get("/{id}", controllers.GetProduct(p.Products, logg))
				r.With(can(authz.CatalogWrite)).Patch("/{id}", controllers.UpdateProduct(p.Products, logg))
				r.With(can(authz.CatalogWrite)).Delete("/{id}", controllers.DeleteProduct(p.Products, logg))
				r.With(can(authz.CatalogWrite)).Post("/{id}/restock", controllers.RestockProduct(p.Products, logg))
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.With(can(authz.CatalogRead)).Get("/", controllers.ListSuppliers(p.Suppliers, logg))
				r.With(can(authz.CatalogWrite)).Post("/", controllers.CreateSupplier(p.Suppliers, logg))
				r.With(can(authz.CatalogRead)).Get("/{id}", controllers.GetSupplier(p.Suppliers, logg))
				r.With(can(authz.CatalogWrite)).Patch("/{id}", controllers.UpdateSupplier(p.Suppliers, logg))
				r.With(can(authz.CatalogWrite)).Delete("/{id}", controllers.DeleteSupplier(p.Suppliers, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.With(can(authz.CatalogRead)).Get("/", controllers.ListCategories(p.Categories, logg))
				r.With(can(authz.CatalogWrite)).Post("/", controllers.CreateCategory(p.Categories, logg))
				r.With(can(authz.CatalogRead)).Get("/{id}", controllers.GetCategory(p.Categories, logg))
				r.With(can(authz.CatalogWrite)).Patch("/{id}", controllers.RenameCategory(p.Categories, logg))
				r.With(can(authz.CatalogWrite)).Delete("/{id}", controllers.DeleteCategory(p.Categories, logg))
			})

			r.Route("/customers", func(r chi.Router) {
				r.With(can(authz.CustomersRead)).Get("/", controllers.ListCustomers(p.Customers, logg))
				r.With(can(authz.CustomersWrite)).Post("/", controllers.CreateCustomer(p.Customers, logg))
				r.With(can(authz.CustomersRead)).Get("/{id}", controllers.GetCustomer(p.Customers, logg))
				r.With(can(authz.CustomersWrite)).Patch("/{id}", controllers.UpdateCustomer(p.Customers, logg))
				r.With(can(authz.CustomersDelete)).Delete("/{id}", controllers.DeleteCustomer(p.Customers, logg))
			})

			r.Route("/company", func(r chi.Router) {
				r.With(can(authz.CompanyRead)).Get("/", controllers.ListCompanies(p.Company, logg))
				r.With(can(authz.CompanyWrite)).Post("/", controllers.CreateCompany(p.Company, logg))
				r.With(can(authz.CompanyRead)).Get("/{id}", controllers.GetCompany(p.Company, logg))
				r.With(can(authz.CompanyWrite)).Patch("/{id}", controllers.UpdateCompany(p.Company, logg))
				r.With(can(authz.CompanyWrite)).Delete("/{id}", controllers.DeleteCompany(p.Company, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.With(can(authz.OrdersRead)).Get("/", ordercontrollers.List(p.Orders, logg))
				r.With(can(authz.OrdersWrite)).Post("/", ordercontrollers.Place(p.Orders, logg))
				r.With(can(authz.OrdersRead)).Get("/{id}", ordercontrollers.Detail(p.Orders, logg))
				r.With(can(authz.OrdersWrite)).Put("/{id}", ordercontrollers.Update(p.Orders, logg))
				r.With(can(authz.OrdersWrite)).Delete("/{id}", ordercontrollers.Delete(p.Orders, logg))
				r.With(can(authz.OrdersWrite)).Patch("/{id}/status", ordercontrollers.SetStatus(p.Orders, logg))
			})

			r.Route("/order-items", func(r chi.Router) {
				r.With(can(authz.OrdersRead)).Get("/", ordercontrollers.ListItems(p.Orders, logg))
				r.With(can(authz.OrdersRead)).Get("/{id}", ordercontrollers.ItemDetail(p.Orders, logg))
				r.With(can(authz.OrdersWrite)).Patch("/{id}", ordercontrollers.UpdateItem(p.Orders, logg))
				r.With(can(authz.OrdersWrite)).Delete("/{id}", ordercontrollers.DeleteItem(p.Orders, logg))
			})

			r.Route("/expense-types", func(r chi.Router) {
				r.With(can(authz.ExpensesRead)).Get("/", controllers.ListExpenseTypes(p.ExpenseTypes, logg))
				r.With(can(authz.ExpensesWrite)).Post("/", controllers.CreateExpenseType(p.ExpenseTypes, logg))
				r.With(can(authz.ExpensesRead)).Get("/{id}", controllers.GetExpenseType(p.ExpenseTypes, logg))
				r.With(can(authz.ExpensesWrite)).Patch("/{id}", controllers.RenameExpenseType(p.ExpenseTypes, logg))
				r.With(can(authz.ExpensesWrite)).Delete("/{id}", controllers.DeleteExpenseType(p.ExpenseTypes, logg))
			})

			r.Route("/other-expenses", func(r chi.Router) {
				r.With(can(authz.ExpensesRead)).Get("/", controllers.ListOtherExpenses(p.Expenses, logg))
				r.With(can(authz.ExpensesWrite)).Post("/", controllers.CreateOtherExpense(p.Expenses, logg))
				r.With(can(authz.ExpensesRead)).Get("/{id}", controllers.GetOtherExpense(p.Expenses, logg))
				r.With(can(authz.ExpensesWrite)).Patch("/{id}", controllers.UpdateOtherExpense(p.Expenses, logg))
				r.With(can(authz.ExpensesWrite)).Delete("/{id}", controllers.DeleteOtherExpense(p.Expenses, logg))
			})

			r.Route("/purchase-expenses", func(r chi.Router) {
				r.With(can(authz.PurchasesRead)).Get("/", purchasecontrollers.ListExpenses(p.Purchases, logg))
				r.With(can(authz.PurchasesWrite)).Post("/", purchasecontrollers.CreateExpense(p.Purchases, logg))
				r.With(can(authz.PurchasesRead)).Get("/{id}", purchasecontrollers.ExpenseDetail(p.Purchases, logg))
				r.With(can(authz.PurchasesWrite)).Delete("/{id}", purchasecontrollers.DeleteExpense(p.Purchases, logg))
				r.With(can(authz.PurchasesWrite)).Patch("/{id}/payment", purchasecontrollers.UpdatePayment(p.Purchases, logg))
			})

			r.Route("/purchase-products", func(r chi.Router) {
				r.With(can(authz.PurchasesRead)).Get("/", purchasecontrollers.ListLines(p.Purchases, logg))
				r.With(can(authz.PurchasesWrite)).Post("/", purchasecontrollers.SaveLine(p.Purchases, logg))
				r.With(can(authz.PurchasesRead)).Get("/{id}", purchasecontrollers.LineDetail(p.Purchases, logg))
				r.With(can(authz.PurchasesWrite)).Put("/{id}", purchasecontrollers.UpdateLine(p.Purchases, logg))
				r.With(can(authz.PurchasesWrite)).Delete("/{id}", purchasecontrollers.DeleteLine(p.Purchases, logg))
			})

			r.With(can(authz.ReportsRead)).Route("/reports", func(r chi.Router) {
				r.Get("/revenue", reportcontrollers.Revenue(p.Reports, logg))
				r.Get("/profit", reportcontrollers.Profit(p.Reports, logg))
				r.Get("/low-stock", reportcontrollers.LowStock(p.Reports, logg))
				r.Get("/low-stock/count", reportcontrollers.LowStockCount(p.Reports, logg))
				r.Get("/product-cost", reportcontrollers.ProductCost(p.Reports, logg))
				r.Get("/suppliers/{id}/products", reportcontrollers.SupplierProducts(p.Reports, logg))
				r.Get("/sales", reportcontrollers.Sales(p.Reports, logg))
				r.Get("/products", reportcontrollers.Products(p.Reports, logg))
				r.Get("/order-log", reportcontrollers.OrderLog(p.Audit, logg))
			})
		})
	})

	return r
}
