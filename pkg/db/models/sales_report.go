package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesReport is a flattened sales row written once per placed order line.
type SalesReport struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	User              string          `gorm:"column:user_name;not null"`
	CustomerName      string          `gorm:"column:customer_name;not null"`
	CustomerPhone     string          `gorm:"column:customer_phone;not null"`
	CustomerTINNumber string          `gorm:"column:customer_tin_number;not null"`
	OrderDate         time.Time       `gorm:"column:order_date;not null"`
	ProductName       string          `gorm:"column:product_name;not null"`
	ProductPrice      decimal.Decimal `gorm:"column:product_price;type:numeric(12,2);not null"`
	Quantity          int             `gorm:"column:quantity;not null"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (r *SalesReport) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
