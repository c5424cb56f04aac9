package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/angelmondragon/stockroom-backend/internal/repo"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
	"github.com/angelmondragon/stockroom-backend/pkg/security"
)

const minPasswordLength = 8

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, params pagination.Params) (*List, error)
}

// CreateInput describes a new staff account. Role may be empty only for superusers.
type CreateInput struct {
	Email       string
	Name        string
	Password    string
	Role        enums.StaffRole
	IsSuperuser bool
	IsActive    *bool
}

type List struct {
	Users      []models.User
	NextCursor string
}

type service struct {
	repo     *Repository
	password config.PasswordConfig
	validate *validator.Validate
}

func NewService(repo *Repository, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, password: password, validate: validator.New()}, nil
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email").
			WithDetails(map[string]any{"field": "email"})
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength)).
			WithDetails(map[string]any{"field": "password"})
	}
	if input.Role != "" || !input.IsSuperuser {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
				WithDetails(map[string]any{"field": "role"})
		}
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = email
	}
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         input.Role,
		IsSuperuser:  input.IsSuperuser,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, repo.MapError(err, "user", "create user")
	}
	// is_active carries a column default, so false has to be written explicitly.
	if input.IsActive != nil && !*input.IsActive {
		if err := s.repo.SetActive(ctx, user.ID, false); err != nil {
			return nil, repo.MapError(err, "user", "deactivate user")
		}
		user.IsActive = false
	}
	return user, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.MapError(err, "user", "load user")
	}
	return user, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, repo.MapError(err, "user", "list users")
	}
	kept, next := repo.Page(rows, limit, func(u models.User) pagination.Cursor {
		return pagination.Cursor{CreatedAt: u.CreatedAt, ID: u.ID}
	})
	return &List{Users: kept, NextCursor: next}, nil
}
