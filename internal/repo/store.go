package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

// Store is a typed CRUD repository for reference data keyed by a uuid id
// column and listed newest first by created_at.
type Store[T any] struct {
	Base
	preloads []string
}

// NewStore builds a store. preloads are applied to Find and List.
func NewStore[T any](db *gorm.DB, preloads ...string) Store[T] {
	return Store[T]{Base: NewBase(db), preloads: preloads}
}

func (s Store[T]) WithTx(tx *gorm.DB) Store[T] {
	return Store[T]{Base: s.Base.WithTx(tx), preloads: s.preloads}
}

func (s Store[T]) Create(ctx context.Context, row *T) error {
	return s.DB(ctx).Omit(clause.Associations).Create(row).Error
}

func (s Store[T]) Find(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := s.query(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update applies column updates to the row and reports gorm.ErrRecordNotFound when nothing matched.
func (s Store[T]) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	var model T
	res := s.DB(ctx).Model(&model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.exists(ctx, id)
	}
	return nil
}

func (s Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var model T
	res := s.DB(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s Store[T]) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]T, error) {
	query := s.query(ctx)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []T
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Nullify clears column on every row of model that references id.
func (s Store[T]) Nullify(ctx context.Context, model any, column string, id uuid.UUID) error {
	return s.DB(ctx).Model(model).Where(column+" = ?", id).Update(column, nil).Error
}

func (s Store[T]) query(ctx context.Context) *gorm.DB {
	var model T
	q := s.DB(ctx).Model(&model)
	for _, preload := range s.preloads {
		q = q.Preload(preload)
	}
	return q
}

func (s Store[T]) exists(ctx context.Context, id uuid.UUID) error {
	var model T
	var count int64
	if err := s.DB(ctx).Model(&model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Page trims a limit+1 result to limit rows and encodes the cursor of the last kept row.
func Page[T any](rows []T, limit int, key func(T) pagination.Cursor) ([]T, string) {
	if len(rows) <= limit {
		return rows, ""
	}
	kept := rows[:limit]
	return kept, pagination.EncodeCursor(key(kept[limit-1]))
}
