package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

// Metrics receives ledger movements. *metrics.StockMetrics satisfies it.
type Metrics interface {
	AddReserved(qty int)
	AddRestored(qty int)
	IncRejected(reason string)
}

// Ledger applies quantity deltas to products.stock inside the caller's transaction.
type Ledger interface {
	// Adjust reserves delta units when delta > 0 and restores |delta| units when delta < 0.
	// A nil product id is a no-op.
	Adjust(ctx context.Context, tx *gorm.DB, productID *uuid.UUID, delta int) error
	// Restock returns qty units to a product outside of any order.
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type ledger struct {
	metrics Metrics
}

// NewLedger builds the default ledger. metrics may be nil.
func NewLedger(metrics Metrics) Ledger {
	return &ledger{metrics: metrics}
}

// InsufficientStockDetails is attached to INSUFFICIENT_STOCK errors.
type InsufficientStockDetails struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

// ValidateQuantity rejects non-positive line quantities before the ledger runs.
func ValidateQuantity(qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be greater than zero").
			WithDetails(map[string]any{"quantity": qty})
	}
	return nil
}

func (l *ledger) Adjust(ctx context.Context, tx *gorm.DB, productID *uuid.UUID, delta int) error {
	if productID == nil || delta == 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock adjustment")
	}
	if delta < 0 {
		return l.restore(ctx, tx, *productID, -delta)
	}
	return l.reserve(ctx, tx, *productID, delta)
}

func (l *ledger) Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for restock")
	}
	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock product")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	l.restored(qty)
	return nil
}

func (l *ledger) reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
	}
	if res.RowsAffected == 1 {
		if l.metrics != nil {
			l.metrics.AddReserved(qty)
		}
		return nil
	}

	var product models.Product
	err := tx.WithContext(ctx).Select("id", "name", "stock").First(&product, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.rejected("not_found")
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stock")
	}

	l.rejected("insufficient_stock")
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for "+product.Name).
		WithDetails(InsufficientStockDetails{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		})
}

// restore never fails on stock grounds; a vanished product is skipped.
func (l *ledger) restore(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restore stock")
	}
	if res.RowsAffected > 0 {
		l.restored(qty)
	}
	return nil
}

func (l *ledger) restored(qty int) {
	if l.metrics != nil {
		l.metrics.AddRestored(qty)
	}
}

func (l *ledger) rejected(reason string) {
	if l.metrics != nil {
		l.metrics.IncRejected(reason)
	}
}
