package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseType struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedBy string    `gorm:"column:created_by;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *ExpenseType) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// OtherExpense is an operating cost outside purchases (rent, utilities).
type OtherExpense struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ExpenseTypeID *uuid.UUID      `gorm:"column:expense_type_id;type:uuid"`
	ExpenseType   *ExpenseType    `gorm:"foreignKey:ExpenseTypeID;constraint:OnDelete:SET NULL"`
	Cost          decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
	CreatedBy     string          `gorm:"column:created_by;not null;default:''"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *OtherExpense) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
