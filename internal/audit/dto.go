package audit

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/money"
)

// OrderLogDTO is the API shape of an order log entry.
type OrderLogDTO struct {
	ID              string        `json:"id"`
	User            string        `json:"user"`
	Action          string        `json:"action"`
	ModelName       string        `json:"model_name"`
	ObjectID        string        `json:"object_id"`
	CustomerInfo    *string       `json:"customer_info,omitempty"`
	ProductName     *string       `json:"product_name,omitempty"`
	Quantity        *int          `json:"quantity,omitempty"`
	Price           *money.Amount `json:"price,omitempty"`
	ChangesOnUpdate *string       `json:"changes_on_update,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
}

// OrderLogPageDTO is one page of the order log.
type OrderLogPageDTO struct {
	Entries    []OrderLogDTO `json:"entries"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func NewOrderLogPageDTO(result *ListResult) OrderLogPageDTO {
	page := OrderLogPageDTO{Entries: make([]OrderLogDTO, 0, len(result.Entries)), NextCursor: result.NextCursor}
	for _, row := range result.Entries {
		page.Entries = append(page.Entries, newOrderLogDTO(row))
	}
	return page
}

func newOrderLogDTO(row models.OrderLog) OrderLogDTO {
	return OrderLogDTO{
		ID:              row.ID.String(),
		User:            row.User,
		Action:          row.Action.String(),
		ModelName:       row.ModelName,
		ObjectID:        row.ObjectID,
		CustomerInfo:    row.CustomerInfo,
		ProductName:     row.ProductName,
		Quantity:        row.Quantity,
		Price:           money.Ptr(row.Price),
		ChangesOnUpdate: row.ChangesOnUpdate,
		Timestamp:       row.CreatedAt,
	}
}
