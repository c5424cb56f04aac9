package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockroom-backend/api/responses"
	"github.com/angelmondragon/stockroom-backend/api/validators"
	"github.com/angelmondragon/stockroom-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
)

type createProductRequest struct {
	Name         string           `json:"name" validate:"required,max=255"`
	CategoryID   *uuid.UUID       `json:"category_id,omitempty"`
	Description  *string          `json:"description,omitempty"`
	BuyingPrice  *decimal.Decimal `json:"buying_price,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	Stock        int              `json:"stock" validate:"min=0"`
	SupplierID   *uuid.UUID       `json:"supplier_id,omitempty"`
	Receipt      bool             `json:"receipt"`
}

func (r createProductRequest) toInput() (catalog.CreateProductInput, error) {
	if r.SellingPrice == nil {
		return catalog.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"selling_price": "is required"})
	}
	return catalog.CreateProductInput{
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		Description:  r.Description,
		BuyingPrice:  r.BuyingPrice,
		SellingPrice: *r.SellingPrice,
		Stock:        r.Stock,
		SupplierID:   r.SupplierID,
		Receipt:      r.Receipt,
	}, nil
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	ClearCategory bool             `json:"clear_category,omitempty"`
	Description   *string          `json:"description,omitempty"`
	BuyingPrice   *decimal.Decimal `json:"buying_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	SupplierID    *uuid.UUID       `json:"supplier_id,omitempty"`
	ClearSupplier bool             `json:"clear_supplier,omitempty"`
	Receipt       *bool            `json:"receipt,omitempty"`
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func ListProducts(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductPageDTO(list))
	}
}

func GetProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTO(product))
	}
}

// CreateProduct records a product with its opening stock.
func CreateProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.NewProductDTO(product))
	}
}

// UpdateProduct patches product fields. Stock is not editable here.
func UpdateProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), id, catalog.UpdateProductInput{
			Name:          payload.Name,
			CategoryID:    payload.CategoryID,
			ClearCategory: payload.ClearCategory,
			Description:   payload.Description,
			BuyingPrice:   payload.BuyingPrice,
			SellingPrice:  payload.SellingPrice,
			SupplierID:    payload.SupplierID,
			ClearSupplier: payload.ClearSupplier,
			Receipt:       payload.Receipt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTO(product))
	}
}

func DeleteProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// RestockProduct returns units to a product outside of any order.
func RestockProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload restockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Restock(r.Context(), id, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTO(product))
	}
}
