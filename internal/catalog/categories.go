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

type CategoryService interface {
	Create(ctx context.Context, actor, name string) (*models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, params pagination.Params) (*CategoryList, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryList struct {
	Categories []models.Category
	NextCursor string
}

type categoryService struct {
	store repo.Store[models.Category]
	tx    txRunner
}

func NewCategoryService(conn *gorm.DB, tx txRunner) (CategoryService, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &categoryService{store: repo.NewStore[models.Category](conn), tx: tx}, nil
}

func (s *categoryService) Create(ctx context.Context, actor, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	category := &models.Category{Name: name, CreatedBy: actor}
	if err := s.store.Create(ctx, category); err != nil {
		return nil, repo.MapError(err, "category", "create category")
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "category", "load category")
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, params pagination.Params) (*CategoryList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "category", "list categories")
	}
	kept, next := repo.Page(rows, limit, func(row models.Category) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return &CategoryList{Categories: kept, NextCursor: next}, nil
}

func (s *categoryService) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.store.Update(ctx, id, map[string]any{"name": name}); err != nil {
		return nil, repo.MapError(err, "category", "rename category")
	}
	return s.Get(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.store.WithTx(tx)
		if err := store.Nullify(ctx, &models.Product{}, "category_id", id); err != nil {
			return repo.MapError(err, "category", "detach products")
		}
		if err := store.Delete(ctx, id); err != nil {
			return repo.MapError(err, "category", "delete category")
		}
		return nil
	})
}
