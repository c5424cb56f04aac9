package customers

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

type Service interface {
	Create(ctx context.Context, actor string, input Input) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, params pagination.Params) (*List, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Input carries customer fields. Nil fields are left unchanged on update.
type Input struct {
	Name      *string
	Phone     *string
	TINNumber *string
	Address   *string
}

type List struct {
	Customers  []models.Customer
	NextCursor string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	store repo.Store[models.Customer]
	tx    txRunner
}

func NewService(conn *gorm.DB, tx txRunner) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{store: repo.NewStore[models.Customer](conn), tx: tx}, nil
}

func (s *service) Create(ctx context.Context, actor string, input Input) (*models.Customer, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	customer := &models.Customer{
		Name:      strings.TrimSpace(*input.Name),
		Phone:     input.Phone,
		TINNumber: input.TINNumber,
		Address:   input.Address,
		CreatedBy: actor,
	}
	if err := s.store.Create(ctx, customer); err != nil {
		return nil, repo.MapError(err, "customer", "create customer")
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "customer", "load customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "customer", "list customers")
	}
	kept, next := repo.Page(rows, limit, func(c models.Customer) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	return &List{Customers: kept, NextCursor: next}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.Customer, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.TINNumber != nil {
		updates["tin_number"] = *input.TINNumber
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, repo.MapError(err, "customer", "update customer")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the customer. Their orders remain and become anonymous.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.store.WithTx(tx)
		if err := store.Nullify(ctx, &models.Order{}, "customer_id", id); err != nil {
			return repo.MapError(err, "customer", "detach orders")
		}
		if err := store.Delete(ctx, id); err != nil {
			return repo.MapError(err, "customer", "delete customer")
		}
		return nil
	})
}
