package orders

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/money"
)

type CustomerSummaryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OrderItemDTO struct {
	ID           string       `json:"id"`
	OrderID      string       `json:"order_id"`
	ProductID    *string      `json:"product_id,omitempty"`
	ProductName  *string      `json:"product_name,omitempty"`
	ProductPrice money.Amount `json:"product_price"`
	Quantity     int          `json:"quantity"`
	Price        money.Amount `json:"price"`
	Cost         money.Amount `json:"cost"`
	Receipt      bool         `json:"receipt"`
	CreatedAt    time.Time    `json:"created_at"`
}

type OrderDTO struct {
	ID          string              `json:"id"`
	Customer    *CustomerSummaryDTO `json:"customer,omitempty"`
	Status      string              `json:"status"`
	TotalAmount money.Amount        `json:"total_amount"`
	CreatedBy   string              `json:"created_by"`
	OrderDate   time.Time           `json:"order_date"`
	Items       []OrderItemDTO      `json:"items,omitempty"`
}

// OrderMutationDTO is returned by order writes. Order is absent once the order was deleted.
type OrderMutationDTO struct {
	Order        *OrderDTO `json:"order,omitempty"`
	OrderDeleted bool      `json:"order_deleted"`
	Warnings     []string  `json:"warnings,omitempty"`
}

type ItemMutationDTO struct {
	Item         *OrderItemDTO `json:"item,omitempty"`
	Order        *OrderDTO     `json:"order,omitempty"`
	OrderDeleted bool          `json:"order_deleted"`
	Warnings     []string      `json:"warnings,omitempty"`
}

type OrderPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type ItemPageDTO struct {
	Items      []OrderItemDTO `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:          order.ID.String(),
		Status:      order.Status.String(),
		TotalAmount: money.New(order.TotalAmount),
		CreatedBy:   order.CreatedBy,
		OrderDate:   order.OrderDate,
	}
	if order.Customer != nil {
		dto.Customer = &CustomerSummaryDTO{ID: order.Customer.ID.String(), Name: order.Customer.Name}
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, NewOrderItemDTO(item))
	}
	return dto
}

func NewOrderItemDTO(item models.OrderItem) OrderItemDTO {
	dto := OrderItemDTO{
		ID:           item.ID.String(),
		OrderID:      item.OrderID.String(),
		ProductPrice: money.New(item.ProductPrice),
		Quantity:     item.Quantity,
		Price:        money.New(item.Price),
		Cost:         money.New(item.Cost),
		Receipt:      item.Receipt,
		CreatedAt:    item.CreatedAt,
	}
	if item.ProductID != nil {
		id := item.ProductID.String()
		dto.ProductID = &id
	}
	if item.Product != nil {
		name := item.Product.Name
		dto.ProductName = &name
	}
	return dto
}

func NewOrderMutationDTO(result *OrderResult, warnings []string) OrderMutationDTO {
	return OrderMutationDTO{
		Order:        NewOrderDTO(result.Order),
		OrderDeleted: result.OrderDeleted,
		Warnings:     warnings,
	}
}

func NewItemMutationDTO(result *ItemResult, warnings []string) ItemMutationDTO {
	dto := ItemMutationDTO{
		Order:        NewOrderDTO(result.Order),
		OrderDeleted: result.OrderDeleted,
		Warnings:     warnings,
	}
	if result.Item != nil {
		item := NewOrderItemDTO(*result.Item)
		dto.Item = &item
	}
	return dto
}

func NewOrderPageDTO(list *OrderList) OrderPageDTO {
	page := OrderPageDTO{Orders: make([]OrderDTO, 0, len(list.Orders)), NextCursor: list.NextCursor}
	for i := range list.Orders {
		page.Orders = append(page.Orders, *NewOrderDTO(&list.Orders[i]))
	}
	return page
}

func NewItemPageDTO(list *ItemList) ItemPageDTO {
	page := ItemPageDTO{Items: make([]OrderItemDTO, 0, len(list.Items)), NextCursor: list.NextCursor}
	for _, item := range list.Items {
		page.Items = append(page.Items, NewOrderItemDTO(item))
	}
	return page
}
