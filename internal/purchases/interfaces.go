package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

// Repository persists purchase expenses and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateExpense(ctx context.Context, expense *models.PurchaseExpense) error
	FindExpense(ctx context.Context, expenseID uuid.UUID) (*models.PurchaseExpense, error)
	LockExpense(ctx context.Context, expenseID uuid.UUID) (*models.PurchaseExpense, error)
	UpdateExpense(ctx context.Context, expenseID uuid.UUID, updates map[string]any) error
	DeleteExpense(ctx context.Context, expenseID uuid.UUID) error
	ListExpenses(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.PurchaseExpense, error)

	CreateLine(ctx context.Context, line *models.PurchaseProduct) error
	FindLine(ctx context.Context, lineID uuid.UUID) (*models.PurchaseProduct, error)
	UpdateLine(ctx context.Context, line *models.PurchaseProduct) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	ListLinesByExpense(ctx context.Context, expenseID uuid.UUID) ([]models.PurchaseProduct, error)
	ListLines(ctx context.Context, filter LineFilter, limit int, cursor *pagination.Cursor) ([]models.PurchaseProduct, error)
}

// Metrics observes expense recomputation.
type Metrics interface {
	IncRecompute(aggregate string)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LineFilter narrows purchase product listings.
type LineFilter struct {
	ExpenseID *uuid.UUID
}
