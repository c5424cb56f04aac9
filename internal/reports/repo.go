package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
)

// Repository runs the aggregate report queries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSale(ctx context.Context, row *models.SalesReport) error
	Revenue(ctx context.Context) (decimal.Decimal, error)
	Profit(ctx context.Context) (decimal.Decimal, error)
	TotalProductCost(ctx context.Context) (decimal.Decimal, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	ProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error)
	SalesRows(ctx context.Context) ([]models.SalesReport, error)
	ProductRows(ctx context.Context) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSale(ctx context.Context, row *models.SalesReport) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, &models.OrderItem{}, "COALESCE(SUM(price), 0)")
}

func (r *repository) Profit(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, &models.OrderItem{}, "COALESCE(SUM(price - cost), 0)")
}

func (r *repository) TotalProductCost(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, &models.Product{}, "COALESCE(SUM(buying_price), 0)")
}

func (r *repository) sum(ctx context.Context, model any, expr string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).Model(model).Select(expr).Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *repository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("stock <= ?", threshold).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Where("supplier_id = ?", supplierID).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) SalesRows(ctx context.Context) ([]models.SalesReport, error) {
	var rows []models.SalesReport
	if err := r.db.WithContext(ctx).Order("order_date DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ProductRows(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
