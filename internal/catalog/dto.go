package catalog

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/money"
)

type NamedRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductDTO struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     *NamedRefDTO  `json:"category,omitempty"`
	Description  *string       `json:"description,omitempty"`
	BuyingPrice  *money.Amount `json:"buying_price,omitempty"`
	SellingPrice money.Amount  `json:"selling_price"`
	Stock        int           `json:"stock"`
	Supplier     *NamedRefDTO  `json:"supplier,omitempty"`
	Receipt      bool          `json:"receipt"`
	CreatedBy    string        `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type SupplierDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactInfo *string   `json:"contact_info,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductPageDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type SupplierPageDTO struct {
	Suppliers  []SupplierDTO `json:"suppliers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type CategoryPageDTO struct {
	Categories []CategoryDTO `json:"categories"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func NewProductDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		BuyingPrice:  money.Ptr(p.BuyingPrice),
		SellingPrice: money.New(p.SellingPrice),
		Stock:        p.Stock,
		Receipt:      p.Receipt,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Category != nil {
		dto.Category = &NamedRefDTO{ID: p.Category.ID.String(), Name: p.Category.Name}
	}
	if p.Supplier != nil {
		dto.Supplier = &NamedRefDTO{ID: p.Supplier.ID.String(), Name: p.Supplier.Name}
	}
	return dto
}

func NewSupplierDTO(s *models.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:          s.ID.String(),
		Name:        s.Name,
		ContactInfo: s.ContactInfo,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
	}
}

func NewCategoryDTO(c *models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID.String(), Name: c.Name, CreatedBy: c.CreatedBy, CreatedAt: c.CreatedAt}
}

func NewProductPageDTO(list *ProductList) ProductPageDTO {
	page := ProductPageDTO{Products: make([]ProductDTO, 0, len(list.Products)), NextCursor: list.NextCursor}
	for i := range list.Products {
		page.Products = append(page.Products, NewProductDTO(&list.Products[i]))
	}
	return page
}

func NewSupplierPageDTO(list *SupplierList) SupplierPageDTO {
	page := SupplierPageDTO{Suppliers: make([]SupplierDTO, 0, len(list.Suppliers)), NextCursor: list.NextCursor}
	for i := range list.Suppliers {
		page.Suppliers = append(page.Suppliers, NewSupplierDTO(&list.Suppliers[i]))
	}
	return page
}

func NewCategoryPageDTO(list *CategoryList) CategoryPageDTO {
	page := CategoryPageDTO{Categories: make([]CategoryDTO, 0, len(list.Categories)), NextCursor: list.NextCursor}
	for i := range list.Categories {
		page.Categories = append(page.Categories, NewCategoryDTO(&list.Categories[i]))
	}
	return page
}
