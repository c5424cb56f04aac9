package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/internal/repo"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

// Restocker returns units to a product outside of any order.
type Restocker interface {
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductService manages the product catalog. Stock is only set on create;
// afterwards it moves through Restock or order operations.
type ProductService interface {
	Create(ctx context.Context, actor string, input CreateProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params) (*ProductList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restock(ctx context.Context, id uuid.UUID, qty int) (*models.Product, error)
}

type CreateProductInput struct {
	Name         string
	CategoryID   *uuid.UUID
	Description  *string
	BuyingPrice  *decimal.Decimal
	SellingPrice decimal.Decimal
	Stock        int
	SupplierID   *uuid.UUID
	Receipt      bool
}

// UpdateProductInput holds optional product changes. Clear flags null the reference.
type UpdateProductInput struct {
	Name          *string
	CategoryID    *uuid.UUID
	ClearCategory bool
	Description   *string
	BuyingPrice   *decimal.Decimal
	SellingPrice  *decimal.Decimal
	SupplierID    *uuid.UUID
	ClearSupplier bool
	Receipt       *bool
}

type ProductList struct {
	Products   []models.Product
	NextCursor string
}

type productService struct {
	products   repo.Store[models.Product]
	categories repo.Store[models.Category]
	suppliers  repo.Store[models.Supplier]
	tx         txRunner
	restocker  Restocker
}

func NewProductService(conn *gorm.DB, tx txRunner, restocker Restocker) (ProductService, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if restocker == nil {
		return nil, fmt.Errorf("restocker required")
	}
	return &productService{
		products:   repo.NewStore[models.Product](conn, "Category", "Supplier"),
		categories: repo.NewStore[models.Category](conn),
		suppliers:  repo.NewStore[models.Supplier](conn),
		tx:         tx,
		restocker:  restocker,
	}, nil
}

func (s *productService) Create(ctx context.Context, actor string, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrices(&input.SellingPrice, input.BuyingPrice); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	if err := s.ensureRefs(ctx, input.CategoryID, input.SupplierID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         name,
		CategoryID:   input.CategoryID,
		Description:  input.Description,
		BuyingPrice:  input.BuyingPrice,
		SellingPrice: input.SellingPrice,
		Stock:        input.Stock,
		SupplierID:   input.SupplierID,
		Receipt:      input.Receipt,
		CreatedBy:    actor,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, repo.MapError(err, "product", "create product")
	}
	return s.Get(ctx, product.ID)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.Find(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "product", "load product")
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, params pagination.Params) (*ProductList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.products.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "product", "list products")
	}
	kept, next := repo.Page(rows, limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return &ProductList{Products: kept, NextCursor: next}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if err := validatePrices(input.SellingPrice, input.BuyingPrice); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.BuyingPrice != nil {
		updates["buying_price"] = *input.BuyingPrice
	}
	if input.SellingPrice != nil {
		updates["selling_price"] = *input.SellingPrice
	}
	if input.Receipt != nil {
		updates["receipt"] = *input.Receipt
	}
	if err := s.ensureRefs(ctx, input.CategoryID, input.SupplierID); err != nil {
		return nil, err
	}
	switch {
	case input.ClearCategory:
		updates["category_id"] = nil
	case input.CategoryID != nil:
		updates["category_id"] = *input.CategoryID
	}
	switch {
	case input.ClearSupplier:
		updates["supplier_id"] = nil
	case input.SupplierID != nil:
		updates["supplier_id"] = *input.SupplierID
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.products.Update(ctx, id, updates); err != nil {
		return nil, repo.MapError(err, "product", "update product")
	}
	return s.Get(ctx, id)
}

// Delete removes the product and detaches it from order items, which keep their stored prices.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		if err := products.Nullify(ctx, &models.OrderItem{}, "product_id", id); err != nil {
			return repo.MapError(err, "product", "detach order items")
		}
		if err := products.Delete(ctx, id); err != nil {
			return repo.MapError(err, "product", "delete product")
		}
		return nil
	})
}

func (s *productService) Restock(ctx context.Context, id uuid.UUID, qty int) (*models.Product, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.products.WithTx(tx).Find(ctx, id); err != nil {
			return repo.MapError(err, "product", "load product")
		}
		return s.restocker.Restock(ctx, tx, id, qty)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) ensureRefs(ctx context.Context, categoryID, supplierID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categories.Find(ctx, *categoryID); err != nil {
			return repo.MapError(err, "category", "load category")
		}
	}
	if supplierID != nil {
		if _, err := s.suppliers.Find(ctx, *supplierID); err != nil {
			return repo.MapError(err, "supplier", "load supplier")
		}
	}
	return nil
}

func validatePrices(selling, buying *decimal.Decimal) error {
	if selling != nil && selling.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "selling price must not be negative")
	}
	if buying != nil && buying.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "buying price must not be negative")
	}
	return nil
}
