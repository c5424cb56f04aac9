package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchases repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateExpense(ctx context.Context, expense *models.PurchaseExpense) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(expense).Error
}

func (r *repository) FindExpense(ctx context.Context, expenseID uuid.UUID) (*models.PurchaseExpense, error) {
	var expense models.PurchaseExpense
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
		Where("id = ?", expenseID).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repository) LockExpense(ctx context.Context, expenseID uuid.UUID) (*models.PurchaseExpense, error) {
	var expense models.PurchaseExpense
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", expenseID).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repository) UpdateExpense(ctx context.Context, expenseID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseExpense{}).
		Where("id = ?", expenseID).
		Updates(updates).Error
}

func (r *repository) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("expense_id = ?", expenseID).Delete(&models.PurchaseProduct{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", expenseID).Delete(&models.PurchaseExpense{}).Error
}

func (r *repository) ListExpenses(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.PurchaseExpense, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseExpense{})
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var expenses []models.PurchaseExpense
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repository) CreateLine(ctx context.Context, line *models.PurchaseProduct) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) FindLine(ctx context.Context, lineID uuid.UUID) (*models.PurchaseProduct, error) {
	var line models.PurchaseProduct
	if err := r.db.WithContext(ctx).Where("id = ?", lineID).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) UpdateLine(ctx context.Context, line *models.PurchaseProduct) error {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseProduct{}).
		Where("id = ?", line.ID).
		Updates(map[string]any{
			"product":     line.Product,
			"unit":        line.Unit,
			"description": line.Description,
			"quantity":    line.Quantity,
			"unit_price":  line.UnitPrice,
			"total_price": line.TotalPrice,
		}).Error
}

func (r *repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", lineID).Delete(&models.PurchaseProduct{}).Error
}

func (r *repository) ListLinesByExpense(ctx context.Context, expenseID uuid.UUID) ([]models.PurchaseProduct, error) {
	var lines []models.PurchaseProduct
	err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) ListLines(ctx context.Context, filter LineFilter, limit int, cursor *pagination.Cursor) ([]models.PurchaseProduct, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseProduct{})
	if filter.ExpenseID != nil {
		query = query.Where("expense_id = ?", *filter.ExpenseID)
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var lines []models.PurchaseProduct
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
