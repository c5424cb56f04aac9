package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stockroom-backend/api/controllers"
	"github.com/angelmondragon/stockroom-backend/api/routes"
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
	"github.com/angelmondragon/stockroom-backend/internal/stock"
	"github.com/angelmondragon/stockroom-backend/internal/users"
	"github.com/angelmondragon/stockroom-backend/pkg/auth/session"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/db"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	pkgmetrics "github.com/angelmondragon/stockroom-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/stockroom-backend/pkg/redis"
)

// Sessions opens, revokes and checks access sessions. *session.Manager satisfies it.
type Sessions interface {
	session.AccessSessionChecker
	Open(ctx context.Context, accessID string, userID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

// Cache is the redis surface used by request middleware. *redis.Client satisfies it.
type Cache interface {
	pkgredis.IdempotencyStore
	pkgredis.RateLimiter
	pkgredis.Pinger
}

// Deps are the process-wide resources the HTTP handler is built from.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Cache    Cache
	Sessions Sessions
	// Registry receives application metrics and backs /metrics. Optional.
	Registry *prometheus.Registry
}

// NewHandler builds every service on top of deps and returns the routed handler.
func NewHandler(deps Deps) (http.Handler, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if deps.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	cfg, conn := deps.Config, deps.DB.DB()

	var reg prometheus.Registerer
	var metricsHandler http.Handler
	if deps.Registry != nil {
		reg = deps.Registry
		metricsHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}
	stockMetrics := pkgmetrics.NewStockMetrics(reg)
	aggregateMetrics := pkgmetrics.NewAggregateMetrics(reg)
	ledger := stock.NewLedger(stockMetrics)

	usersRepo := users.NewRepository(conn)
	usersSvc, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("users service: %w", err)
	}
	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: deps.Sessions,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	products, err := catalog.NewProductService(conn, deps.DB, ledger)
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}
	suppliers, err := catalog.NewSupplierService(conn, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("supplier service: %w", err)
	}
	categories, err := catalog.NewCategoryService(conn, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("category service: %w", err)
	}
	customersSvc, err := customers.NewService(conn, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("customer service: %w", err)
	}
	companySvc, err := company.NewService(conn)
	if err != nil {
		return nil, fmt.Errorf("company service: %w", err)
	}
	expenseTypes, err := expenses.NewTypeService(conn, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("expense type service: %w", err)
	}
	otherExpenses, err := expenses.NewOtherService(conn)
	if err != nil {
		return nil, fmt.Errorf("other expense service: %w", err)
	}

	auditSvc, err := audit.NewService(audit.NewRepository(conn), aggregateMetrics)
	if err != nil {
		return nil, fmt.Errorf("audit service: %w", err)
	}
	reportsSvc, err := reports.NewService(reports.NewRepository(conn), cfg.Reports.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("reports service: %w", err)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(conn), deps.DB, ledger, auditSvc, reportsSvc, aggregateMetrics)
	if err != nil {
		return nil, fmt.Errorf("orders service: %w", err)
	}
	purchasesSvc, err := purchases.NewService(purchases.NewRepository(conn), deps.DB, aggregateMetrics)
	if err != nil {
		return nil, fmt.Errorf("purchases service: %w", err)
	}

	return routes.NewRouter(routes.Params{
		Config: cfg,
		Logger: deps.Logger,
		Readiness: map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Cache,
		},
		MetricsHandler: metricsHandler,
		HTTPMetrics:    pkgmetrics.NewHTTPMetrics(reg),
		Sessions:       deps.Sessions,
		Idempotency:    deps.Cache,
		RateLimiter:    deps.Cache,
		Checker:        authz.NewChecker(authz.DefaultPolicy()),
		Auth:           authSvc,
		Users:          usersSvc,
		Products:       products,
		Suppliers:      suppliers,
		Categories:     categories,
		Customers:      customersSvc,
		Company:        companySvc,
		ExpenseTypes:   expenseTypes,
		Expenses:       otherExpenses,
		Orders:         ordersSvc,
		Purchases:      purchasesSvc,
		Reports:        reportsSvc,
		Audit:          auditSvc,
	}), nil
}
