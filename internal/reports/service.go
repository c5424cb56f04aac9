package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

// DefaultLowStockThreshold is the stock level at or below which a product is reported.
const DefaultLowStockThreshold = 3

// Service answers the read-only dashboard queries and records sales rows.
type Service interface {
	RecordSale(ctx context.Context, tx *gorm.DB, row *models.SalesReport) error
	Revenue(ctx context.Context) (decimal.Decimal, error)
	Profit(ctx context.Context) (decimal.Decimal, error)
	TotalProductCost(ctx context.Context) (decimal.Decimal, error)
	LowStock(ctx context.Context) ([]models.Product, error)
	LowStockCount(ctx context.Context) (int64, error)
	ProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error)
	SalesRows(ctx context.Context) ([]models.SalesReport, error)
	ProductRows(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo      Repository
	threshold int
}

// NewService builds the report service. A non-positive threshold falls back to the default.
func NewService(repo Repository, lowStockThreshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &service{repo: repo, threshold: lowStockThreshold}, nil
}

// RecordSale appends a sales row inside the order transaction.
func (s *service) RecordSale(ctx context.Context, tx *gorm.DB, row *models.SalesReport) error {
	if row == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sales row required")
	}
	return s.repo.WithTx(tx).CreateSale(ctx, row)
}

func (s *service) Revenue(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.repo.Revenue(ctx)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	return total, nil
}

func (s *service) Profit(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.repo.Profit(ctx)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum profit")
	}
	return total, nil
}

func (s *service) TotalProductCost(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.repo.TotalProductCost(ctx)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum product cost")
	}
	return total, nil
}

func (s *service) LowStock(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.LowStock(ctx, s.threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	return products, nil
}

func (s *service) LowStockCount(ctx context.Context) (int64, error) {
	count, err := s.repo.CountLowStock(ctx, s.threshold)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}
	return count, nil
}

// ProductsBySupplier returns NOT_FOUND when the supplier has no products.
func (s *service) ProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	products, err := s.repo.ProductsBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier products")
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no products found for this supplier")
	}
	return products, nil
}

func (s *service) SalesRows(ctx context.Context) ([]models.SalesReport, error) {
	rows, err := s.repo.SalesRows(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales rows")
	}
	return rows, nil
}

func (s *service) ProductRows(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ProductRows(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product rows")
	}
	return rows, nil
}
