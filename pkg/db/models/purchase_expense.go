package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// PurchaseExpense aggregates supplier purchase lines. All amounts are derived.
type PurchaseExpense struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SubTotal      decimal.Decimal     `gorm:"column:sub_total;type:numeric(12,2);not null;default:0"`
	VAT           decimal.Decimal     `gorm:"column:vat;type:numeric(12,2);not null;default:0"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'Pending'"`
	PaidAmount    decimal.Decimal     `gorm:"column:paid_amount;type:numeric(12,2);not null;default:0"`
	UnpaidAmount  decimal.Decimal     `gorm:"column:unpaid_amount;type:numeric(12,2);not null;default:0"`
	CreatedBy     string              `gorm:"column:created_by;not null;default:''"`
	Lines         []PurchaseProduct   `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *PurchaseExpense) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// PurchaseProduct is a purchased line. Product is a free-text name, not a catalog reference.
type PurchaseProduct struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ExpenseID   uuid.UUID       `gorm:"column:expense_id;type:uuid;not null"`
	Product     string          `gorm:"column:product;not null;default:'Pcs'"`
	Unit        string          `gorm:"column:unit;not null;default:'Pcs'"`
	Description *string         `gorm:"column:description"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	CreatedBy   string          `gorm:"column:created_by;not null;default:''"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PurchaseProduct) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
