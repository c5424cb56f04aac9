package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// Order is a sales order. TotalAmount is derived from its items and never set by callers.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID  *uuid.UUID        `gorm:"column:customer_id;type:uuid"`
	Customer    *Customer         `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'Pending'"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	CreatedBy   string            `gorm:"column:created_by;not null;default:''"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	OrderDate   time.Time         `gorm:"column:order_date;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem is one product line of an order. Price and Cost are computed on every save.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID    *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Product      *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:numeric(12,2);not null;default:0"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Cost         decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null;default:0"`
	Receipt      bool            `gorm:"column:receipt;not null;default:false"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
