package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog item. Stock is only changed through the stock ledger.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name         string           `gorm:"column:name;not null;uniqueIndex:products_name_category_key"`
	CategoryID   *uuid.UUID       `gorm:"column:category_id;type:uuid;uniqueIndex:products_name_category_key"`
	Category     *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Description  *string          `gorm:"column:description"`
	BuyingPrice  *decimal.Decimal `gorm:"column:buying_price;type:numeric(12,2)"`
	SellingPrice decimal.Decimal  `gorm:"column:selling_price;type:numeric(12,2);not null"`
	Stock        int              `gorm:"column:stock;not null;default:0;check:stock >= 0"`
	SupplierID   *uuid.UUID       `gorm:"column:supplier_id;type:uuid"`
	Supplier     *Supplier        `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL"`
	Receipt      bool             `gorm:"column:receipt;not null;default:false"`
	CreatedBy    string           `gorm:"column:created_by;not null;default:''"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// UnitCost returns the buying price, treating an unset price as zero.
func (p *Product) UnitCost() decimal.Decimal {
	if p == nil || p.BuyingPrice == nil {
		return decimal.Zero
	}
	return *p.BuyingPrice
}
