package expenses

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/money"
)

type ExpenseTypeDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type OtherExpenseDTO struct {
	ID          string          `json:"id"`
	ExpenseType *ExpenseTypeDTO `json:"expense_type"`
	Cost        money.Amount    `json:"cost"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TypePageDTO struct {
	ExpenseTypes []ExpenseTypeDTO `json:"expense_types"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

type OtherPageDTO struct {
	Expenses   []OtherExpenseDTO `json:"expenses"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func NewExpenseTypeDTO(t *models.ExpenseType) ExpenseTypeDTO {
	return ExpenseTypeDTO{ID: t.ID.String(), Name: t.Name, CreatedBy: t.CreatedBy, CreatedAt: t.CreatedAt}
}

func NewOtherExpenseDTO(e *models.OtherExpense) OtherExpenseDTO {
	dto := OtherExpenseDTO{
		ID:        e.ID.String(),
		Cost:      money.New(e.Cost),
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
	}
	if e.ExpenseType != nil {
		t := NewExpenseTypeDTO(e.ExpenseType)
		dto.ExpenseType = &t
	}
	return dto
}

func NewTypePageDTO(list *TypeList) TypePageDTO {
	page := TypePageDTO{ExpenseTypes: make([]ExpenseTypeDTO, 0, len(list.Types)), NextCursor: list.NextCursor}
	for i := range list.Types {
		page.ExpenseTypes = append(page.ExpenseTypes, NewExpenseTypeDTO(&list.Types[i]))
	}
	return page
}

func NewOtherPageDTO(list *OtherList) OtherPageDTO {
	page := OtherPageDTO{Expenses: make([]OtherExpenseDTO, 0, len(list.Expenses)), NextCursor: list.NextCursor}
	for i := range list.Expenses {
		page.Expenses = append(page.Expenses, NewOtherExpenseDTO(&list.Expenses[i]))
	}
	return page
}
