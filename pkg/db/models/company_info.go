package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyInfo holds the selling company's letterhead details.
type CompanyInfo struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:company_info_name_tin_key"`
	Email     *string   `gorm:"column:email"`
	Phone1    *string   `gorm:"column:phone1"`
	Phone2    *string   `gorm:"column:phone2"`
	TINNumber string    `gorm:"column:tin_number;not null;uniqueIndex:company_info_name_tin_key"`
	Country   *string   `gorm:"column:country"`
	City      *string   `gorm:"column:city"`
	CreatedBy string    `gorm:"column:created_by;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CompanyInfo) TableName() string {
	return "company_info"
}

func (c *CompanyInfo) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
