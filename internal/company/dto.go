package company

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
)

type CompanyInfoDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone1    *string   `json:"phone1,omitempty"`
	Phone2    *string   `json:"phone2,omitempty"`
	TINNumber string    `json:"tin_number"`
	Country   *string   `json:"country,omitempty"`
	City      *string   `json:"city,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type PageDTO struct {
	Companies  []CompanyInfoDTO `json:"companies"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func NewCompanyInfoDTO(c *models.CompanyInfo) CompanyInfoDTO {
	return CompanyInfoDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone1:    c.Phone1,
		Phone2:    c.Phone2,
		TINNumber: c.TINNumber,
		Country:   c.Country,
		City:      c.City,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}

func NewPageDTO(list *List) PageDTO {
	page := PageDTO{Companies: make([]CompanyInfoDTO, 0, len(list.Companies)), NextCursor: list.NextCursor}
	for i := range list.Companies {
		page.Companies = append(page.Companies, NewCompanyInfoDTO(&list.Companies[i]))
	}
	return page
}
