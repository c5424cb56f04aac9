package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/internal/repo"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

type SupplierService interface {
	Create(ctx context.Context, actor string, input SupplierInput) (*models.Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, params pagination.Params) (*SupplierList, error)
	Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*models.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SupplierInput struct {
	Name        *string
	ContactInfo *string
}

type SupplierList struct {
	Suppliers  []models.Supplier
	NextCursor string
}

type supplierService struct {
	store repo.Store[models.Supplier]
	tx    txRunner
}

func NewSupplierService(conn *gorm.DB, tx txRunner) (SupplierService, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &supplierService{store: repo.NewStore[models.Supplier](conn), tx: tx}, nil
}

func (s *supplierService) Create(ctx context.Context, actor string, input SupplierInput) (*models.Supplier, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	supplier := &models.Supplier{
		Name:        strings.TrimSpace(*input.Name),
		ContactInfo: input.ContactInfo,
		CreatedBy:   actor,
	}
	if err := s.store.Create(ctx, supplier); err != nil {
		return nil, repo.MapError(err, "supplier", "create supplier")
	}
	return supplier, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "supplier", "load supplier")
	}
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context, params pagination.Params) (*SupplierList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "supplier", "list suppliers")
	}
	kept, next := repo.Page(rows, limit, func(row models.Supplier) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return &SupplierList{Suppliers: kept, NextCursor: next}, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*models.Supplier, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.ContactInfo != nil {
		updates["contact_info"] = *input.ContactInfo
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, repo.MapError(err, "supplier", "update supplier")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the supplier; its products stay in the catalog without one.
func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.store.WithTx(tx)
		if err := store.Nullify(ctx, &models.Product{}, "supplier_id", id); err != nil {
			return repo.MapError(err, "supplier", "detach products")
		}
		if err := store.Delete(ctx, id); err != nil {
			return repo.MapError(err, "supplier", "delete supplier")
		}
		return nil
	})
}
