package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/api/middleware"
	"github.com/angelmondragon/stockroom-backend/internal/catalog"
	"github.com/angelmondragon/stockroom-backend/internal/customers"
	"github.com/angelmondragon/stockroom-backend/internal/expenses"
	"github.com/angelmondragon/stockroom-backend/internal/stock"
	"github.com/angelmondragon/stockroom-backend/internal/users"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

func asManager(req *http.Request) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), uuid.NewString(), "manager@example.com", enums.StaffRoleManager, false)
	return req.WithContext(ctx)
}

func withID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
}

func newProductService(t *testing.T) (catalog.ProductService, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := catalog.NewProductService(conn, dbtest.Client(conn), stock.NewLedger(nil))
	require.NoError(t, err)
	return svc, conn
}

func TestProductCreateAndRestock(t *testing.T) {
	svc, conn := newProductService(t)
	supplier := dbtest.MustCreateSupplier(t, conn, "Acme")

	body := `{"name":"Widget","selling_price":"5.00","buying_price":"3.00","stock":10,"supplier_id":"` + supplier.ID.String() + `"}`
	resp := httptest.NewRecorder()
	CreateProduct(svc, nil).ServeHTTP(resp, asManager(httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	assert.Contains(t, resp.Body.String(), `"selling_price":"5.00"`)
	assert.Contains(t, resp.Body.String(), `"buying_price":"3.00"`)

	var product catalog.ProductDTO
	decodeData(t, resp, &product)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, "manager@example.com", product.CreatedBy)
	require.NotNil(t, product.Supplier)
	assert.Equal(t, "Acme", product.Supplier.Name)

	resp = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+product.ID+"/restock", strings.NewReader(`{"quantity":4}`))
	RestockProduct(svc, nil).ServeHTTP(resp, withID(asManager(req), product.ID))
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &product)
	assert.Equal(t, 14, product.Stock)

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/products/"+product.ID+"/restock", strings.NewReader(`{"quantity":0}`))
	RestockProduct(svc, nil).ServeHTTP(resp, withID(asManager(req), product.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestProductCreateValidation(t *testing.T) {
	svc, _ := newProductService(t)

	cases := map[string]string{
		"missing selling price": `{"name":"Widget"}`,
		"missing name":          `{"selling_price":"1.00"}`,
		"negative stock":        `{"name":"Widget","selling_price":"1.00","stock":-1}`,
		"unknown field":         `{"name":"Widget","selling_price":"1.00","sku":"x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			CreateProduct(svc, nil).ServeHTTP(resp, asManager(httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))))
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestProductGetNotFound(t *testing.T) {
	svc, _ := newProductService(t)
	id := uuid.NewString()
	resp := httptest.NewRecorder()
	GetProduct(svc, nil).ServeHTTP(resp, withID(httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil), id))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCategoryDeleteDetachesProducts(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := catalog.NewCategoryService(conn, dbtest.Client(conn))
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	CreateCategory(svc, nil).ServeHTTP(resp, asManager(httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":"Tools"}`))))
	require.Equal(t, http.StatusCreated, resp.Code)
	var category catalog.CategoryDTO
	decodeData(t, resp, &category)

	categoryID := uuid.MustParse(category.ID)
	product := dbtest.MustCreateProduct(t, conn, 1, "1.00", dbtest.WithCategory(categoryID))

	resp = httptest.NewRecorder()
	DeleteCategory(svc, nil).ServeHTTP(resp, withID(asManager(httptest.NewRequest(http.MethodDelete, "/", nil)), category.ID))
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Nil(t, dbtest.ReloadProduct(t, conn, product.ID).CategoryID)

	resp = httptest.NewRecorder()
	CreateCategory(svc, nil).ServeHTTP(resp, asManager(httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":""}`))))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCustomerListPaginates(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := customers.NewService(conn, dbtest.Client(conn))
	require.NoError(t, err)
	for _, name := range []string{"Abebe", "Sara", "Kebede"} {
		dbtest.MustCreateCustomer(t, conn, name)
	}

	resp := httptest.NewRecorder()
	ListCustomers(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/customers?limit=2", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var page customers.PageDTO
	decodeData(t, resp, &page)
	assert.Len(t, page.Customers, 2)
	assert.NotEmpty(t, page.NextCursor)

	resp = httptest.NewRecorder()
	ListCustomers(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/customers?limit=500", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestOtherExpenseCreate(t *testing.T) {
	conn := dbtest.Open(t)
	types, err := expenses.NewTypeService(conn, dbtest.Client(conn))
	require.NoError(t, err)
	other, err := expenses.NewOtherService(conn)
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	CreateExpenseType(types, nil).ServeHTTP(resp, asManager(httptest.NewRequest(http.MethodPost, "/api/v1/expense-types", strings.NewReader(`{"name":"Rent"}`))))
	require.Equal(t, http.StatusCreated, resp.Code)
	var expenseType expenses.ExpenseTypeDTO
	decodeData(t, resp, &expenseType)

	body := `{"expense_type_id":"` + expenseType.ID + `","cost":"1200.505"}`
	resp = httptest.NewRecorder()
	CreateOtherExpense(other, nil).ServeHTTP(resp, asManager(httptest.NewRequest(http.MethodPost, "/api/v1/other-expenses", strings.NewReader(body))))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var expense expenses.OtherExpenseDTO
	decodeData(t, resp, &expense)
	require.NotNil(t, expense.ExpenseType)
	assert.Equal(t, "Rent", expense.ExpenseType.Name)
	assert.True(t, decimal.RequireFromString("1200.51").Equal(expense.Cost.Decimal), expense.Cost.String())
}

func TestCreateUser(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := users.NewService(users.NewRepository(conn), config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16})
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	body := `{"email":"new@example.com","password":"supersecret","role":"Salesman"}`
	CreateUser(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var user users.UserDTO
	decodeData(t, resp, &user)
	assert.Equal(t, enums.StaffRoleSalesman, user.Role)
	assert.NotContains(t, resp.Body.String(), "password")

	resp = httptest.NewRecorder()
	CreateUser(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = httptest.NewRecorder()
	body = `{"email":"other@example.com","password":"supersecret","role":"Cashier"}`
	CreateUser(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": pingFunc(func(context.Context) error { return nil })}).
		ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-Stockroom-Env"))

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"redis": pingFunc(func(context.Context) error { return errors.New("down") })}).
		ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
