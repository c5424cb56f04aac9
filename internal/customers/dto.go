package customers

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
)

type CustomerDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	TINNumber *string   `json:"tin_number,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type PageDTO struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func NewCustomerDTO(c *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		TINNumber: c.TINNumber,
		Address:   c.Address,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}

func NewPageDTO(list *List) PageDTO {
	page := PageDTO{Customers: make([]CustomerDTO, 0, len(list.Customers)), NextCursor: list.NextCursor}
	for i := range list.Customers {
		page.Customers = append(page.Customers, NewCustomerDTO(&list.Customers[i]))
	}
	return page
}
