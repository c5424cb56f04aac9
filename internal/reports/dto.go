package reports

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/money"
)

type AmountDTO struct {
	Amount money.Amount `json:"amount"`
}

type CountDTO struct {
	Count int64 `json:"count"`
}

type ProductRowDTO struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CategoryName *string       `json:"category_name,omitempty"`
	Description  *string       `json:"description,omitempty"`
	BuyingPrice  *money.Amount `json:"buying_price,omitempty"`
	SellingPrice money.Amount  `json:"selling_price"`
	Stock        int           `json:"stock"`
	SupplierName *string       `json:"supplier_name,omitempty"`
	CreatedBy    string        `json:"created_by"`
}

type SalesRowDTO struct {
	ID                string       `json:"id"`
	User              string       `json:"user"`
	CustomerName      string       `json:"customer_name"`
	CustomerPhone     string       `json:"customer_phone"`
	CustomerTINNumber string       `json:"customer_tin_number"`
	OrderDate         time.Time    `json:"order_date"`
	ProductName       string       `json:"product_name"`
	ProductPrice      money.Amount `json:"product_price"`
	Quantity          int          `json:"quantity"`
	Price             money.Amount `json:"price"`
}

func NewProductRowDTOs(products []models.Product) []ProductRowDTO {
	out := make([]ProductRowDTO, 0, len(products))
	for _, p := range products {
		dto := ProductRowDTO{
			ID:           p.ID.String(),
			Name:         p.Name,
			Description:  p.Description,
			BuyingPrice:  money.Ptr(p.BuyingPrice),
			SellingPrice: money.New(p.SellingPrice),
			Stock:        p.Stock,
			CreatedBy:    p.CreatedBy,
		}
		if p.Category != nil {
			name := p.Category.Name
			dto.CategoryName = &name
		}
		if p.Supplier != nil {
			name := p.Supplier.Name
			dto.SupplierName = &name
		}
		out = append(out, dto)
	}
	return out
}

func NewSalesRowDTOs(rows []models.SalesReport) []SalesRowDTO {
	out := make([]SalesRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SalesRowDTO{
			ID:                row.ID.String(),
			User:              row.User,
			CustomerName:      row.CustomerName,
			CustomerPhone:     row.CustomerPhone,
			CustomerTINNumber: row.CustomerTINNumber,
			OrderDate:         row.OrderDate,
			ProductName:       row.ProductName,
			ProductPrice:      money.New(row.ProductPrice),
			Quantity:          row.Quantity,
			Price:             money.New(row.Price),
		})
	}
	return out
}
