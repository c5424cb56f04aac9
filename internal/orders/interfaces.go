package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/internal/audit"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	ListOrders(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Order, error)

	CreateItem(ctx context.Context, item *models.OrderItem) error
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error)
	SaveItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListItems(ctx context.Context, filter ItemFilter, limit int, cursor *pagination.Cursor) ([]models.OrderItem, error)

	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
}

// StockLedger applies line quantity deltas to product stock.
type StockLedger interface {
	Adjust(ctx context.Context, tx *gorm.DB, productID *uuid.UUID, delta int) error
}

// AuditRecorder appends order log entries inside the mutation transaction.
type AuditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error
}

// SalesRecorder writes the flat sales report row for a placed line.
type SalesRecorder interface {
	RecordSale(ctx context.Context, tx *gorm.DB, row *models.SalesReport) error
}

// Metrics observes aggregate recomputation.
type Metrics interface {
	IncRecompute(aggregate string)
	IncOrderDeletedOnEmpty()
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ItemFilter narrows order item listings.
type ItemFilter struct {
	OrderID *uuid.UUID
}
