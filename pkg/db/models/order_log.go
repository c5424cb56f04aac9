package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// OrderLog is an append-only audit entry for order and order item mutations.
type OrderLog struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	User            string            `gorm:"column:user_name;not null"`
	Action          enums.AuditAction `gorm:"column:action;not null"`
	ModelName       string            `gorm:"column:model_name;not null"`
	ObjectID        string            `gorm:"column:object_id;not null"`
	CustomerInfo    *string           `gorm:"column:customer_info"`
	ProductName     *string           `gorm:"column:product_name"`
	Quantity        *int              `gorm:"column:quantity"`
	Price           *decimal.Decimal  `gorm:"column:price;type:numeric(12,2)"`
	ChangesOnUpdate *string           `gorm:"column:changes_on_update"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (l *OrderLog) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
