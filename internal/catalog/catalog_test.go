package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/internal/stock"
	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

type services struct {
	products   ProductService
	suppliers  SupplierService
	categories CategoryService
}

func newServices(t *testing.T) (services, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	client := dbtest.Client(conn)
	products, err := NewProductService(conn, client, stock.NewLedger(nil))
	require.NoError(t, err)
	suppliers, err := NewSupplierService(conn, client)
	require.NoError(t, err)
	categories, err := NewCategoryService(conn, client)
	require.NoError(t, err)
	return services{products: products, suppliers: suppliers, categories: categories}, conn
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func strPtr(v string) *string { return &v }

func TestCreateProductWithReferences(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	category, err := svc.categories.Create(ctx, "alice", "Hygiene")
	require.NoError(t, err)
	supplier, err := svc.suppliers.Create(ctx, "alice", SupplierInput{Name: strPtr("Acme")})
	require.NoError(t, err)

	buying := dec("1.20")
	product, err := svc.products.Create(ctx, "alice", CreateProductInput{
		Name:         " Soap ",
		CategoryID:   &category.ID,
		SupplierID:   &supplier.ID,
		BuyingPrice:  &buying,
		SellingPrice: dec("2.00"),
		Stock:        12,
	})
	require.NoError(t, err)
	assert.Equal(t, "Soap", product.Name)
	assert.Equal(t, 12, product.Stock)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Hygiene", product.Category.Name)
	require.NotNil(t, product.Supplier)
	assert.Equal(t, "Acme", product.Supplier.Name)

	_, err = svc.products.Create(ctx, "alice", CreateProductInput{Name: "Soap", CategoryID: &category.ID, SellingPrice: dec("3.00")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	missing := uuid.New()
	negative := dec("-1")

	cases := map[string]CreateProductInput{
		"empty name":     {Name: " ", SellingPrice: dec("1")},
		"negative price": {Name: "x", SellingPrice: dec("-1")},
		"negative buy":   {Name: "x", SellingPrice: dec("1"), BuyingPrice: &negative},
		"negative stock": {Name: "x", SellingPrice: dec("1"), Stock: -1},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.products.Create(ctx, "alice", input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}

	_, err := svc.products.Create(ctx, "alice", CreateProductInput{Name: "x", SellingPrice: dec("1"), SupplierID: &missing})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateProductLeavesStockAlone(t *testing.T) {
	svc, conn := newServices(t)
	ctx := context.Background()
	product := dbtest.MustCreateProduct(t, conn, 9, "2.00")

	price := dec("2.50")
	updated, err := svc.products.Update(ctx, product.ID, UpdateProductInput{SellingPrice: &price, Name: strPtr("Green Tea")})
	require.NoError(t, err)
	assert.True(t, updated.SellingPrice.Equal(price))
	assert.Equal(t, "Green Tea", updated.Name)
	assert.Equal(t, 9, updated.Stock)

	_, err = svc.products.Update(ctx, uuid.New(), UpdateProductInput{SellingPrice: &price})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRestock(t *testing.T) {
	svc, conn := newServices(t)
	ctx := context.Background()
	product := dbtest.MustCreateProduct(t, conn, 2, "1.00")

	restocked, err := svc.products.Restock(ctx, product.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 10, restocked.Stock)

	_, err = svc.products.Restock(ctx, product.ID, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity))
	_, err = svc.products.Restock(ctx, uuid.New(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteProductDetachesOrderItems(t *testing.T) {
	svc, conn := newServices(t)
	ctx := context.Background()
	product := dbtest.MustCreateProduct(t, conn, 5, "3.00")

	order := &models.Order{CreatedBy: "alice"}
	require.NoError(t, conn.Create(order).Error)
	item := &models.OrderItem{OrderID: order.ID, ProductID: &product.ID, Quantity: 1, Price: dec("3.00"), ProductPrice: dec("3.00")}
	require.NoError(t, conn.Create(item).Error)

	require.NoError(t, svc.products.Delete(ctx, product.ID))

	var reloaded models.OrderItem
	require.NoError(t, conn.First(&reloaded, "id = ?", item.ID).Error)
	assert.Nil(t, reloaded.ProductID)
	assert.True(t, reloaded.Price.Equal(dec("3.00")))

	assert.True(t, pkgerrors.IsCode(svc.products.Delete(ctx, product.ID), pkgerrors.CodeNotFound))
}

func TestDeleteSupplierAndCategoryNullifyProducts(t *testing.T) {
	svc, conn := newServices(t)
	ctx := context.Background()
	supplier := dbtest.MustCreateSupplier(t, conn, "Acme")
	category, err := svc.categories.Create(ctx, "alice", "Drinks")
	require.NoError(t, err)
	product := dbtest.MustCreateProduct(t, conn, 1, "1.00", dbtest.WithSupplier(supplier.ID), dbtest.WithCategory(category.ID))

	require.NoError(t, svc.suppliers.Delete(ctx, supplier.ID))
	require.NoError(t, svc.categories.Delete(ctx, category.ID))

	reloaded := dbtest.ReloadProduct(t, conn, product.ID)
	assert.Nil(t, reloaded.SupplierID)
	assert.Nil(t, reloaded.CategoryID)

	_, err = svc.suppliers.Get(ctx, supplier.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCategoryNamesAreUnique(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	first, err := svc.categories.Create(ctx, "alice", "Snacks")
	require.NoError(t, err)
	_, err = svc.categories.Create(ctx, "alice", "Snacks")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	renamed, err := svc.categories.Rename(ctx, first.ID, "Sweets")
	require.NoError(t, err)
	assert.Equal(t, "Sweets", renamed.Name)

	_, err = svc.categories.Rename(ctx, first.ID, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSupplierUpdateAndList(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.suppliers.Create(ctx, "alice", SupplierInput{Name: strPtr(name)})
		require.NoError(t, err)
	}
	page, err := svc.suppliers.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Suppliers, 2)
	assert.NotEmpty(t, page.NextCursor)

	updated, err := svc.suppliers.Update(ctx, page.Suppliers[0].ID, SupplierInput{ContactInfo: strPtr("+251 911")})
	require.NoError(t, err)
	require.NotNil(t, updated.ContactInfo)
	assert.Equal(t, "+251 911", *updated.ContactInfo)

	_, err = svc.suppliers.Create(ctx, "alice", SupplierInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
