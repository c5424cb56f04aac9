package expenses

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

type TypeService interface {
	Create(ctx context.Context, actor, name string) (*models.ExpenseType, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ExpenseType, error)
	List(ctx context.Context, params pagination.Params) (*TypeList, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.ExpenseType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TypeList struct {
	Types      []models.ExpenseType
	NextCursor string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type typeService struct {
	store repo.Store[models.ExpenseType]
	tx    txRunner
}

func NewTypeService(conn *gorm.DB, tx txRunner) (TypeService, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &typeService{store: repo.NewStore[models.ExpenseType](conn), tx: tx}, nil
}

func (s *typeService) Create(ctx context.Context, actor, name string) (*models.ExpenseType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	expenseType := &models.ExpenseType{Name: name, CreatedBy: actor}
	if err := s.store.Create(ctx, expenseType); err != nil {
		return nil, repo.MapError(err, "expense type", "create expense type")
	}
	return expenseType, nil
}

func (s *typeService) Get(ctx context.Context, id uuid.UUID) (*models.ExpenseType, error) {
	expenseType, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "expense type", "load expense type")
	}
	return expenseType, nil
}

func (s *typeService) List(ctx context.Context, params pagination.Params) (*TypeList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "expense type", "list expense types")
	}
	kept, next := repo.Page(rows, limit, func(row models.ExpenseType) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return &TypeList{Types: kept, NextCursor: next}, nil
}

func (s *typeService) Rename(ctx context.Context, id uuid.UUID, name string) (*models.ExpenseType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.store.Update(ctx, id, map[string]any{"name": name}); err != nil {
		return nil, repo.MapError(err, "expense type", "rename expense type")
	}
	return s.Get(ctx, id)
}

// Delete removes the type; expenses filed under it keep their cost with no type.
func (s *typeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.store.WithTx(tx)
		if err := store.Nullify(ctx, &models.OtherExpense{}, "expense_type_id", id); err != nil {
			return repo.MapError(err, "expense type", "detach expenses")
		}
		if err := store.Delete(ctx, id); err != nil {
			return repo.MapError(err, "expense type", "delete expense type")
		}
		return nil
	})
}
