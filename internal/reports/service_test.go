package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), 0)
	require.NoError(t, err)
	return svc, conn
}

func seedItem(t *testing.T, conn *gorm.DB, price, cost string) {
	t.Helper()
	order := &models.Order{CreatedBy: "alice"}
	require.NoError(t, conn.Create(order).Error)
	item := &models.OrderItem{OrderID: order.ID, Quantity: 1, Price: dec(price), Cost: dec(cost), ProductPrice: dec(price)}
	require.NoError(t, conn.Create(item).Error)
}

func TestRevenueAndProfit(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	revenue, err := svc.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())

	seedItem(t, conn, "15.00", "9.00")
	seedItem(t, conn, "10.50", "4.25")

	revenue, err = svc.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(dec("25.50")), revenue.String())

	profit, err := svc.Profit(ctx)
	require.NoError(t, err)
	assert.True(t, profit.Equal(dec("12.25")), profit.String())
}

func TestLowStockUsesInclusiveThreshold(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	dbtest.MustCreateProduct(t, conn, 0, "1.00")
	dbtest.MustCreateProduct(t, conn, 3, "1.00")
	dbtest.MustCreateProduct(t, conn, 4, "1.00")

	products, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	count, err := svc.LowStockCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTotalProductCostSkipsMissingBuyingPrice(t *testing.T) {
	svc, conn := newTestService(t)
	dbtest.MustCreateProduct(t, conn, 1, "5.00", dbtest.WithBuyingPrice("2.50"))
	dbtest.MustCreateProduct(t, conn, 1, "5.00", dbtest.WithBuyingPrice("1.25"))
	dbtest.MustCreateProduct(t, conn, 1, "5.00")

	total, err := svc.TotalProductCost(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("3.75")), total.String())
}

func TestProductsBySupplier(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	supplier := dbtest.MustCreateSupplier(t, conn, "Acme")
	empty := dbtest.MustCreateSupplier(t, conn, "Empty")
	dbtest.MustCreateProduct(t, conn, 5, "2.00", dbtest.WithSupplier(supplier.ID))
	dbtest.MustCreateProduct(t, conn, 5, "2.00")

	products, err := svc.ProductsBySupplier(ctx, supplier.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, products[0].Supplier)
	assert.Equal(t, "Acme", products[0].Supplier.Name)

	_, err = svc.ProductsBySupplier(ctx, empty.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.ProductsBySupplier(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRecordSaleWritesInsideTransaction(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	row := &models.SalesReport{
		User:              "alice",
		CustomerName:      "Anonymous Customer",
		CustomerPhone:     "0000000000",
		CustomerTINNumber: "1111",
		OrderDate:         time.Now().UTC(),
		ProductName:       "Soap",
		ProductPrice:      dec("2.00"),
		Quantity:          3,
		Price:             dec("6.00"),
	}
	err := dbtest.Client(conn).WithTx(ctx, func(tx *gorm.DB) error {
		return svc.RecordSale(ctx, tx, row)
	})
	require.NoError(t, err)

	rows, err := svc.SalesRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Soap", rows[0].ProductName)

	assert.True(t, pkgerrors.IsCode(svc.RecordSale(ctx, conn, nil), pkgerrors.CodeValidation))
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, 3)
	assert.Error(t, err)
}

func TestSalesWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSalesXLSX(&buf, []models.SalesReport{{
		User:              "alice",
		CustomerName:      "Abebe",
		CustomerPhone:     "0911000000",
		CustomerTINNumber: "0012345678",
		OrderDate:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		ProductName:       "Soap",
		ProductPrice:      dec("2"),
		Quantity:          3,
		Price:             dec("6"),
	}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, salesHeaders, rows[0])
	assert.Equal(t, "Abebe", rows[1][1])
	assert.Equal(t, "2026-03-01 09:30:00", rows[1][4])
	assert.Equal(t, "6.00", rows[1][8])
}

func TestProductsWorkbook(t *testing.T) {
	buying := dec("1.5")
	var buf bytes.Buffer
	err := WriteProductsXLSX(&buf, []models.Product{
		{ID: uuid.New(), Name: "Soap", SellingPrice: dec("2"), BuyingPrice: &buying, Stock: 7, Category: &models.Category{Name: "Hygiene"}},
		{ID: uuid.New(), Name: "Tea", SellingPrice: dec("1"), Stock: 0},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, productHeaders, rows[0])
	assert.Equal(t, "Hygiene", rows[1][2])
	assert.Equal(t, "1.50", rows[1][4])
	assert.Equal(t, "7", rows[1][6])
}
