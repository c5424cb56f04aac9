package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// ProductOption mutates a fixture product before insert.
type ProductOption func(*models.Product)

func WithBuyingPrice(price string) ProductOption {
	return func(p *models.Product) {
		v := decimal.RequireFromString(price)
		p.BuyingPrice = &v
	}
}

func WithSupplier(id uuid.UUID) ProductOption {
	return func(p *models.Product) { p.SupplierID = &id }
}

func WithCategory(id uuid.UUID) ProductOption {
	return func(p *models.Product) { p.CategoryID = &id }
}

func WithReceipt() ProductOption {
	return func(p *models.Product) { p.Receipt = true }
}

// MustCreateProduct inserts a product with the given stock and selling price.
func MustCreateProduct(t testing.TB, conn *gorm.DB, stock int, sellingPrice string, opts ...ProductOption) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         fmt.Sprintf("product-%s", uuid.NewString()[:8]),
		SellingPrice: decimal.RequireFromString(sellingPrice),
		Stock:        stock,
		CreatedBy:    "fixture",
	}
	for _, opt := range opts {
		opt(product)
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func MustCreateSupplier(t testing.TB, conn *gorm.DB, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{Name: name, CreatedBy: "fixture"}
	if err := conn.Create(supplier).Error; err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return supplier
}

func MustCreateCustomer(t testing.TB, conn *gorm.DB, name string) *models.Customer {
	t.Helper()
	phone := "0911000000"
	tin := "0012345678"
	customer := &models.Customer{Name: name, Phone: &phone, TINNumber: &tin, CreatedBy: "fixture"}
	if err := conn.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func MustCreateUser(t testing.TB, conn *gorm.DB, email string, role enums.StaffRole, superuser bool) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		Name:         "Fixture User",
		PasswordHash: "hash",
		Role:         role,
		IsSuperuser:  superuser,
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// ReloadProduct reads the product row back from the database.
func ReloadProduct(t testing.TB, conn *gorm.DB, id uuid.UUID) models.Product {
	t.Helper()
	var product models.Product
	if err := conn.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product
}
