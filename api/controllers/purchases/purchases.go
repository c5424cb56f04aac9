package purchases

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockroom-backend/api/middleware"
	"github.com/angelmondragon/stockroom-backend/api/responses"
	"github.com/angelmondragon/stockroom-backend/api/validators"
	internalpurchases "github.com/angelmondragon/stockroom-backend/internal/purchases"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
)

type lineRequest struct {
	Product     string          `json:"product" validate:"omitempty,max=255"`
	Unit        string          `json:"unit" validate:"omitempty,max=32"`
	Description *string         `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (r lineRequest) toInput() internalpurchases.LineInput {
	return internalpurchases.LineInput{
		Product:     r.Product,
		Unit:        r.Unit,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	}
}

type createExpenseRequest struct {
	PaymentStatus string           `json:"payment_status,omitempty"`
	PaidAmount    *decimal.Decimal `json:"paid_amount,omitempty"`
	Lines         []lineRequest    `json:"lines,omitempty" validate:"omitempty,dive"`
}

type paymentRequest struct {
	PaymentStatus string           `json:"payment_status" validate:"required"`
	PaidAmount    *decimal.Decimal `json:"paid_amount,omitempty"`
}

type saveLineRequest struct {
	ExpenseID uuid.UUID `json:"expense_id" validate:"required"`
	lineRequest
}

type updateLineRequest struct {
	Product     *string          `json:"product,omitempty" validate:"omitempty,max=255"`
	Unit        *string          `json:"unit,omitempty" validate:"omitempty,max=32"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

func actorFrom(r *http.Request) (string, error) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return actor, nil
}

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable")
}

func ListExpenses(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListExpenses(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewExpensePageDTO(list))
	}
}

func ExpenseDetail(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		expenseID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expense, err := svc.GetExpense(r.Context(), expenseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewPurchaseExpenseDTO(expense))
	}
}

// CreateExpense opens a purchase expense with optional initial lines.
func CreateExpense(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createExpenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := internalpurchases.CreateExpenseInput{
			PaymentStatus: enums.PaymentStatus(strings.TrimSpace(payload.PaymentStatus)),
			PaidAmount:    payload.PaidAmount,
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, line.toInput())
		}
		expense, err := svc.CreateExpense(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalpurchases.NewPurchaseExpenseDTO(expense))
	}
}

// UpdatePayment changes payment status and re-derives paid and unpaid amounts.
func UpdatePayment(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		expenseID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePaymentStatus(strings.TrimSpace(payload.PaymentStatus))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}
		expense, err := svc.UpdatePayment(r.Context(), expenseID, internalpurchases.UpdatePaymentInput{
			PaymentStatus: status,
			PaidAmount:    payload.PaidAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewPurchaseExpenseDTO(expense))
	}
}

func DeleteExpense(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		expenseID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteExpense(r.Context(), expenseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ListLines lists purchase lines, optionally narrowed by ?expense_id=.
func ListLines(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expenseID, err := validators.ParseOptionalUUIDQuery(r, "expense_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListLines(r.Context(), internalpurchases.LineFilter{ExpenseID: expenseID}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewLinePageDTO(list))
	}
}

func LineDetail(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		lineID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		line, err := svc.GetLine(r.Context(), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewPurchaseProductDTO(*line))
	}
}

// SaveLine adds a line to an expense and returns the recomputed expense.
func SaveLine(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload saveLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.SaveExpenseLine(r.Context(), actor, internalpurchases.SaveLineInput{
			ExpenseID: payload.ExpenseID,
			LineInput: payload.lineRequest.toInput(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalpurchases.NewLineMutationDTO(result))
	}
}

func UpdateLine(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		lineID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UpdateExpenseLine(r.Context(), lineID, internalpurchases.UpdateLineInput{
			Product:     payload.Product,
			Unit:        payload.Unit,
			Description: payload.Description,
			Quantity:    payload.Quantity,
			UnitPrice:   payload.UnitPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewLineMutationDTO(result))
	}
}

// DeleteLine removes a line and returns the recomputed parent expense.
func DeleteLine(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		lineID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expense, err := svc.DeleteExpenseLine(r.Context(), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewPurchaseExpenseDTO(expense))
	}
}
