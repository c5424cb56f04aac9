package reports

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockroom-backend/api/responses"
	"github.com/angelmondragon/stockroom-backend/api/validators"
	"github.com/angelmondragon/stockroom-backend/internal/audit"
	internalreports "github.com/angelmondragon/stockroom-backend/internal/reports"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	"github.com/angelmondragon/stockroom-backend/pkg/money"
)

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable")
}

func amount(svc internalreports.Service, logg *logger.Logger, fetch func(internalreports.Service, context.Context) (decimal.Decimal, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		value, err := fetch(svc, r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalreports.AmountDTO{Amount: money.New(value)})
	}
}

// Revenue sums the price of every order line.
func Revenue(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return amount(svc, logg, internalreports.Service.Revenue)
}

// Profit sums price minus cost over every order line.
func Profit(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return amount(svc, logg, internalreports.Service.Profit)
}

func ProductCost(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return amount(svc, logg, internalreports.Service.TotalProductCost)
}

func LowStock(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		products, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalreports.NewProductRowDTOs(products))
	}
}

func LowStockCount(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		count, err := svc.LowStockCount(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalreports.CountDTO{Count: count})
	}
}

func SupplierProducts(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		supplierID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.ProductsBySupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalreports.NewProductRowDTOs(products))
	}
}

// Sales returns the flat sales rows, or a workbook with ?format=xlsx.
func Sales(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		rows, err := svc.SalesRows(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if validators.WantsXLSX(r) {
			writeWorkbook(w, r, logg, "sales", func(out io.Writer) error {
				return internalreports.WriteSalesXLSX(out, rows)
			})
			return
		}
		responses.WriteSuccess(w, internalreports.NewSalesRowDTOs(rows))
	}
}

// Products returns the catalog report, or a workbook with ?format=xlsx.
func Products(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		products, err := svc.ProductRows(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if validators.WantsXLSX(r) {
			writeWorkbook(w, r, logg, "products", func(out io.Writer) error {
				return internalreports.WriteProductsXLSX(out, products)
			})
			return
		}
		responses.WriteSuccess(w, internalreports.NewProductRowDTOs(products))
	}
}

// OrderLog pages through the order audit trail, optionally narrowed by ?action=.
func OrderLog(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
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
		var filter audit.ListFilter
		if raw := strings.TrimSpace(r.URL.Query().Get("action")); raw != "" {
			action, err := enums.ParseAuditAction(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action").
					WithDetails(map[string]any{"action": "must be one of Create, Update, Delete"}))
				return
			}
			filter.Action = action
		}
		result, err := svc.List(r.Context(), params, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, audit.NewOrderLogPageDTO(result))
	}
}

// writeWorkbook renders into memory first so a failed export still gets an error envelope.
func writeWorkbook(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render "+name+" workbook"))
		return
	}
	filename := name + "-" + time.Now().UTC().Format("20060102") + ".xlsx"
	err := responses.WriteAttachment(w, internalreports.XLSXContentType, filename, func(out http.ResponseWriter) error {
		_, err := buf.WriteTo(out)
		return err
	})
	if err != nil && logg != nil {
		logg.Warn(r.Context(), "report.export_write_failed")
	}
}
