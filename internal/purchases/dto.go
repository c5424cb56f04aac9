package purchases

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/money"
)

type PurchaseProductDTO struct {
	ID          string       `json:"id"`
	ExpenseID   string       `json:"expense_id"`
	Product     string       `json:"product"`
	Unit        string       `json:"unit"`
	Description *string      `json:"description,omitempty"`
	Quantity    int          `json:"quantity"`
	UnitPrice   money.Amount `json:"unit_price"`
	TotalPrice  money.Amount `json:"total_price"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
}

type PurchaseExpenseDTO struct {
	ID            string               `json:"id"`
	SubTotal      money.Amount         `json:"sub_total"`
	VAT           money.Amount         `json:"vat"`
	Total         money.Amount         `json:"total"`
	PaymentStatus string               `json:"payment_status"`
	PaidAmount    money.Amount         `json:"paid_amount"`
	UnpaidAmount  money.Amount         `json:"unpaid_amount"`
	CreatedBy     string               `json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	Lines         []PurchaseProductDTO `json:"lines,omitempty"`
}

type LineMutationDTO struct {
	Line    PurchaseProductDTO `json:"line"`
	Expense PurchaseExpenseDTO `json:"expense"`
}

type ExpensePageDTO struct {
	Expenses   []PurchaseExpenseDTO `json:"expenses"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

type LinePageDTO struct {
	Lines      []PurchaseProductDTO `json:"lines"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

func NewPurchaseExpenseDTO(expense *models.PurchaseExpense) PurchaseExpenseDTO {
	dto := PurchaseExpenseDTO{
		ID:            expense.ID.String(),
		SubTotal:      money.New(expense.SubTotal),
		VAT:           money.New(expense.VAT),
		Total:         money.New(expense.Total),
		PaymentStatus: expense.PaymentStatus.String(),
		PaidAmount:    money.New(expense.PaidAmount),
		UnpaidAmount:  money.New(expense.UnpaidAmount),
		CreatedBy:     expense.CreatedBy,
		CreatedAt:     expense.CreatedAt,
	}
	for _, line := range expense.Lines {
		dto.Lines = append(dto.Lines, NewPurchaseProductDTO(line))
	}
	return dto
}

func NewPurchaseProductDTO(line models.PurchaseProduct) PurchaseProductDTO {
	return PurchaseProductDTO{
		ID:          line.ID.String(),
		ExpenseID:   line.ExpenseID.String(),
		Product:     line.Product,
		Unit:        line.Unit,
		Description: line.Description,
		Quantity:    line.Quantity,
		UnitPrice:   money.New(line.UnitPrice),
		TotalPrice:  money.New(line.TotalPrice),
		CreatedBy:   line.CreatedBy,
		CreatedAt:   line.CreatedAt,
	}
}

func NewLineMutationDTO(result *LineResult) LineMutationDTO {
	return LineMutationDTO{
		Line:    NewPurchaseProductDTO(*result.Line),
		Expense: NewPurchaseExpenseDTO(result.Expense),
	}
}

func NewExpensePageDTO(list *ExpenseList) ExpensePageDTO {
	page := ExpensePageDTO{Expenses: make([]PurchaseExpenseDTO, 0, len(list.Expenses)), NextCursor: list.NextCursor}
	for i := range list.Expenses {
		page.Expenses = append(page.Expenses, NewPurchaseExpenseDTO(&list.Expenses[i]))
	}
	return page
}

func NewLinePageDTO(list *LineList) LinePageDTO {
	page := LinePageDTO{Lines: make([]PurchaseProductDTO, 0, len(list.Lines)), NextCursor: list.NextCursor}
	for _, line := range list.Lines {
		page.Lines = append(page.Lines, NewPurchaseProductDTO(line))
	}
	return page
}
