package company

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

// Service manages the company letterhead records printed on receipts.
type Service interface {
	Create(ctx context.Context, actor string, input Input) (*models.CompanyInfo, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CompanyInfo, error)
	List(ctx context.Context, params pagination.Params) (*List, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.CompanyInfo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Input struct {
	Name      *string
	Email     *string
	Phone1    *string
	Phone2    *string
	TINNumber *string
	Country   *string
	City      *string
}

type List struct {
	Companies  []models.CompanyInfo
	NextCursor string
}

type service struct {
	store repo.Store[models.CompanyInfo]
}

func NewService(conn *gorm.DB) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{store: repo.NewStore[models.CompanyInfo](conn)}, nil
}

func (s *service) Create(ctx context.Context, actor string, input Input) (*models.CompanyInfo, error) {
	if blank(input.Name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if blank(input.TINNumber) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tin_number is required")
	}
	info := &models.CompanyInfo{
		Name:      strings.TrimSpace(*input.Name),
		Email:     input.Email,
		Phone1:    input.Phone1,
		Phone2:    input.Phone2,
		TINNumber: strings.TrimSpace(*input.TINNumber),
		Country:   input.Country,
		City:      input.City,
		CreatedBy: actor,
	}
	if err := s.store.Create(ctx, info); err != nil {
		return nil, repo.MapError(err, "company info", "create company info")
	}
	return info, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.CompanyInfo, error) {
	info, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "company info", "load company info")
	}
	return info, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "company info", "list company info")
	}
	kept, next := repo.Page(rows, limit, func(c models.CompanyInfo) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	return &List{Companies: kept, NextCursor: next}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.CompanyInfo, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if blank(input.Name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.TINNumber != nil {
		if blank(input.TINNumber) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tin_number must not be empty")
		}
		updates["tin_number"] = strings.TrimSpace(*input.TINNumber)
	}
	for column, value := range map[string]*string{
		"email":   input.Email,
		"phone1":  input.Phone1,
		"phone2":  input.Phone2,
		"country": input.Country,
		"city":    input.City,
	} {
		if value != nil {
			updates[column] = *value
		}
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, repo.MapError(err, "company info", "update company info")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return repo.MapError(err, "company info", "delete company info")
	}
	return nil
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
