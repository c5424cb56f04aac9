package purchases

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockroom-backend/api/middleware"
	internalpurchases "github.com/angelmondragon/stockroom-backend/internal/purchases"
	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

func newService(t *testing.T) internalpurchases.Service {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := internalpurchases.NewService(internalpurchases.NewRepository(conn), dbtest.Client(conn), nil)
	require.NoError(t, err)
	return svc
}

func staffRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithIdentity(req.Context(), uuid.NewString(), "buyer@example.com", enums.StaffRoleManager, false)
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

func TestPurchaseFlowTotalsAndPayment(t *testing.T) {
	svc := newService(t)

	resp := httptest.NewRecorder()
	CreateExpense(svc, nil).ServeHTTP(resp, staffRequest(http.MethodPost, "/api/v1/purchase-expenses", `{}`))
	require.Equal(t, http.StatusCreated, resp.Code)
	var expense internalpurchases.PurchaseExpenseDTO
	decodeData(t, resp, &expense)
	assert.Equal(t, "Pending", expense.PaymentStatus)

	for _, body := range []string{
		`{"expense_id":"` + expense.ID + `","product":"Flour","unit":"kg","quantity":2,"unit_price":"10.00"}`,
		`{"expense_id":"` + expense.ID + `","product":"Salt","unit":"kg","quantity":1,"unit_price":5}`,
	} {
		resp = httptest.NewRecorder()
		SaveLine(svc, nil).ServeHTTP(resp, staffRequest(http.MethodPost, "/api/v1/purchase-products", body))
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	ExpenseDetail(svc, nil).ServeHTTP(resp, withID(staffRequest(http.MethodGet, "/api/v1/purchase-expenses/"+expense.ID, ""), expense.ID))
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &expense)
	assert.True(t, decimal.RequireFromString("25.00").Equal(expense.SubTotal.Decimal))
	assert.True(t, decimal.RequireFromString("3.75").Equal(expense.VAT.Decimal))
	assert.True(t, decimal.RequireFromString("28.75").Equal(expense.Total.Decimal))

	resp = httptest.NewRecorder()
	UpdatePayment(svc, nil).ServeHTTP(resp, withID(staffRequest(http.MethodPatch, "/api/v1/purchase-expenses/"+expense.ID+"/payment", `{"payment_status":"Unpaid"}`), expense.ID))
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &expense)
	assert.True(t, expense.PaidAmount.IsZero())
	assert.Contains(t, resp.Body.String(), `"paid_amount":"0.00"`)
	assert.Contains(t, resp.Body.String(), `"unpaid_amount":"28.75"`)
	assert.Contains(t, resp.Body.String(), `"vat":"3.75"`)
	assert.True(t, decimal.RequireFromString("28.75").Equal(expense.UnpaidAmount.Decimal))
}

func TestSaveLineRejectsZeroQuantity(t *testing.T) {
	svc := newService(t)
	resp := httptest.NewRecorder()
	CreateExpense(svc, nil).ServeHTTP(resp, staffRequest(http.MethodPost, "/api/v1/purchase-expenses", `{}`))
	var expense internalpurchases.PurchaseExpenseDTO
	decodeData(t, resp, &expense)

	resp = httptest.NewRecorder()
	body := `{"expense_id":"` + expense.ID + `","product":"Flour","quantity":0,"unit_price":"1"}`
	SaveLine(svc, nil).ServeHTTP(resp, staffRequest(http.MethodPost, "/api/v1/purchase-products", body))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestUpdatePaymentRejectsUnknownStatus(t *testing.T) {
	svc := newService(t)
	id := uuid.NewString()
	resp := httptest.NewRecorder()
	UpdatePayment(svc, nil).ServeHTTP(resp, withID(staffRequest(http.MethodPatch, "/", `{"payment_status":"Refunded"}`), id))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteMissingLine(t *testing.T) {
	svc := newService(t)
	id := uuid.NewString()
	resp := httptest.NewRecorder()
	DeleteLine(svc, nil).ServeHTTP(resp, withID(staffRequest(http.MethodDelete, "/", ""), id))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
