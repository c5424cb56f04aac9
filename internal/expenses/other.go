package expenses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/internal/repo"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

// OtherService records operating costs that are not stock purchases.
type OtherService interface {
	Create(ctx context.Context, actor string, input OtherInput) (*models.OtherExpense, error)
	Get(ctx context.Context, id uuid.UUID) (*models.OtherExpense, error)
	List(ctx context.Context, params pagination.Params) (*OtherList, error)
	Update(ctx context.Context, id uuid.UUID, input OtherInput) (*models.OtherExpense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OtherInput struct {
	ExpenseTypeID *uuid.UUID
	ClearType     bool
	Cost          *decimal.Decimal
}

type OtherList struct {
	Expenses   []models.OtherExpense
	NextCursor string
}

type otherService struct {
	store repo.Store[models.OtherExpense]
	types repo.Store[models.ExpenseType]
}

func NewOtherService(conn *gorm.DB) (OtherService, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &otherService{
		store: repo.NewStore[models.OtherExpense](conn, "ExpenseType"),
		types: repo.NewStore[models.ExpenseType](conn),
	}, nil
}

func (s *otherService) Create(ctx context.Context, actor string, input OtherInput) (*models.OtherExpense, error) {
	if input.Cost == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost is required")
	}
	if err := validateCost(*input.Cost); err != nil {
		return nil, err
	}
	if err := s.ensureType(ctx, input.ExpenseTypeID); err != nil {
		return nil, err
	}
	expense := &models.OtherExpense{
		ExpenseTypeID: input.ExpenseTypeID,
		Cost:          input.Cost.Round(2),
		CreatedBy:     actor,
	}
	if err := s.store.Create(ctx, expense); err != nil {
		return nil, repo.MapError(err, "expense", "create expense")
	}
	return s.Get(ctx, expense.ID)
}

func (s *otherService) Get(ctx context.Context, id uuid.UUID) (*models.OtherExpense, error) {
	expense, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "expense", "load expense")
	}
	return expense, nil
}

func (s *otherService) List(ctx context.Context, params pagination.Params) (*OtherList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "expense", "list expenses")
	}
	kept, next := repo.Page(rows, limit, func(row models.OtherExpense) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return &OtherList{Expenses: kept, NextCursor: next}, nil
}

func (s *otherService) Update(ctx context.Context, id uuid.UUID, input OtherInput) (*models.OtherExpense, error) {
	updates := map[string]any{}
	if input.Cost != nil {
		if err := validateCost(*input.Cost); err != nil {
			return nil, err
		}
		updates["cost"] = input.Cost.Round(2)
	}
	switch {
	case input.ClearType:
		updates["expense_type_id"] = nil
	case input.ExpenseTypeID != nil:
		if err := s.ensureType(ctx, input.ExpenseTypeID); err != nil {
			return nil, err
		}
		updates["expense_type_id"] = *input.ExpenseTypeID
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, repo.MapError(err, "expense", "update expense")
		}
	}
	return s.Get(ctx, id)
}

func (s *otherService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return repo.MapError(err, "expense", "delete expense")
	}
	return nil
}

func (s *otherService) ensureType(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.types.Find(ctx, *id); err != nil {
		return repo.MapError(err, "expense type", "load expense type")
	}
	return nil
}

func validateCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
	}
	return nil
}
