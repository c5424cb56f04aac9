package purchases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/internal/stock"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

const (
	defaultUnit    = "Pcs"
	defaultProduct = "Pcs"

	aggregateName = "purchase_expense"
)

// Service maintains purchase expenses. Every line mutation recomputes the
// parent totals and payment split in the same transaction.
type Service interface {
	CreateExpense(ctx context.Context, actor string, input CreateExpenseInput) (*models.PurchaseExpense, error)
	SaveExpenseLine(ctx context.Context, actor string, input SaveLineInput) (*LineResult, error)
	UpdateExpenseLine(ctx context.Context, lineID uuid.UUID, input UpdateLineInput) (*LineResult, error)
	DeleteExpenseLine(ctx context.Context, lineID uuid.UUID) (*models.PurchaseExpense, error)
	UpdatePayment(ctx context.Context, expenseID uuid.UUID, input UpdatePaymentInput) (*models.PurchaseExpense, error)
	DeleteExpense(ctx context.Context, expenseID uuid.UUID) error

	GetExpense(ctx context.Context, expenseID uuid.UUID) (*models.PurchaseExpense, error)
	ListExpenses(ctx context.Context, params pagination.Params) (*ExpenseList, error)
	GetLine(ctx context.Context, lineID uuid.UUID) (*models.PurchaseProduct, error)
	ListLines(ctx context.Context, filter LineFilter, params pagination.Params) (*LineList, error)
}

type LineInput struct {
	Product     string
	Unit        string
	Description *string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type CreateExpenseInput struct {
	PaymentStatus enums.PaymentStatus
	PaidAmount    *decimal.Decimal
	Lines         []LineInput
}

type SaveLineInput struct {
	ExpenseID uuid.UUID
	LineInput
}

// UpdateLineInput replaces the editable fields of a line. Nil fields are kept.
type UpdateLineInput struct {
	Product     *string
	Unit        *string
	Description *string
	Quantity    *int
	UnitPrice   *decimal.Decimal
}

type UpdatePaymentInput struct {
	PaymentStatus enums.PaymentStatus
	PaidAmount    *decimal.Decimal
}

// LineResult carries the saved line and its recomputed parent.
type LineResult struct {
	Line    *models.PurchaseProduct
	Expense *models.PurchaseExpense
}

type ExpenseList struct {
	Expenses   []models.PurchaseExpense
	NextCursor string
}

type LineList struct {
	Lines      []models.PurchaseProduct
	NextCursor string
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics Metrics
}

// NewService builds the purchases service. metrics may be nil.
func NewService(repo Repository, tx txRunner, metrics Metrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: metrics}, nil
}

func (s *service) CreateExpense(ctx context.Context, actor string, input CreateExpenseInput) (*models.PurchaseExpense, error) {
	status := input.PaymentStatus
	if status == "" {
		status = enums.PaymentStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", status))
	}
	paid, err := paidAmount(input.PaidAmount)
	if err != nil {
		return nil, err
	}
	for _, line := range input.Lines {
		if err := validateLine(line); err != nil {
			return nil, err
		}
	}

	var created *models.PurchaseExpense
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// The expense is inserted with zero totals; derived columns are written after its lines exist.
		expense := &models.PurchaseExpense{
			PaymentStatus: status,
			PaidAmount:    paid,
			CreatedBy:     actor,
		}
		if err := repo.CreateExpense(ctx, expense); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase expense")
		}
		for _, input := range input.Lines {
			line := newLine(expense.ID, actor, input)
			if err := repo.CreateLine(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase product")
			}
		}
		if err := s.recompute(ctx, repo, expense); err != nil {
			return err
		}

		reloaded, err := repo.FindExpense(ctx, expense.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase expense")
		}
		created = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) SaveExpenseLine(ctx context.Context, actor string, input SaveLineInput) (*LineResult, error) {
	if input.ExpenseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}
	if err := validateLine(input.LineInput); err != nil {
		return nil, err
	}

	result := &LineResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		expense, err := repo.LockExpense(ctx, input.ExpenseID)
		if err != nil {
			return notFoundOr(err, "purchase expense not found", "lock purchase expense")
		}

		line := newLine(expense.ID, actor, input.LineInput)
		if err := repo.CreateLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase product")
		}
		if err := s.recompute(ctx, repo, expense); err != nil {
			return err
		}
		return s.fill(ctx, repo, result, line.ID, expense.ID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) UpdateExpenseLine(ctx context.Context, lineID uuid.UUID, input UpdateLineInput) (*LineResult, error) {
	if input.Quantity != nil {
		if err := stock.ValidateQuantity(*input.Quantity); err != nil {
			return nil, err
		}
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	result := &LineResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		line, expense, err := s.lockLine(ctx, repo, lineID)
		if err != nil {
			return err
		}

		if input.Product != nil {
			line.Product = orDefault(*input.Product, defaultProduct)
		}
		if input.Unit != nil {
			line.Unit = orDefault(*input.Unit, defaultUnit)
		}
		if input.Description != nil {
			line.Description = input.Description
		}
		if input.Quantity != nil {
			line.Quantity = *input.Quantity
		}
		if input.UnitPrice != nil {
			line.UnitPrice = *input.UnitPrice
		}
		line.TotalPrice = LineTotal(line.Quantity, line.UnitPrice)

		if err := repo.UpdateLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase product")
		}
		if err := s.recompute(ctx, repo, expense); err != nil {
			return err
		}
		return s.fill(ctx, repo, result, line.ID, expense.ID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) DeleteExpenseLine(ctx context.Context, lineID uuid.UUID) (*models.PurchaseExpense, error) {
	var updated *models.PurchaseExpense
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		line, expense, err := s.lockLine(ctx, repo, lineID)
		if err != nil {
			return err
		}
		if err := repo.DeleteLine(ctx, line.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase product")
		}
		if err := s.recompute(ctx, repo, expense); err != nil {
			return err
		}
		reloaded, err := repo.FindExpense(ctx, expense.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase expense")
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) UpdatePayment(ctx context.Context, expenseID uuid.UUID, input UpdatePaymentInput) (*models.PurchaseExpense, error) {
	if !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", input.PaymentStatus))
	}
	if input.PaidAmount != nil && input.PaidAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paid amount must not be negative")
	}

	var updated *models.PurchaseExpense
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		expense, err := repo.LockExpense(ctx, expenseID)
		if err != nil {
			return notFoundOr(err, "purchase expense not found", "lock purchase expense")
		}

		expense.PaymentStatus = input.PaymentStatus
		if input.PaidAmount != nil {
			expense.PaidAmount = *input.PaidAmount
		}
		paid, unpaid := DerivePayment(expense.PaymentStatus, expense.Total, expense.PaidAmount)
		if err := repo.UpdateExpense(ctx, expense.ID, map[string]any{
			"payment_status": expense.PaymentStatus,
			"paid_amount":    paid,
			"unpaid_amount":  unpaid,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
		}

		reloaded, err := repo.FindExpense(ctx, expense.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase expense")
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.LockExpense(ctx, expenseID); err != nil {
			return notFoundOr(err, "purchase expense not found", "lock purchase expense")
		}
		if err := repo.DeleteExpense(ctx, expenseID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase expense")
		}
		return nil
	})
}

func (s *service) GetExpense(ctx context.Context, expenseID uuid.UUID) (*models.PurchaseExpense, error) {
	expense, err := s.repo.FindExpense(ctx, expenseID)
	if err != nil {
		return nil, notFoundOr(err, "purchase expense not found", "load purchase expense")
	}
	return expense, nil
}

func (s *service) ListExpenses(ctx context.Context, params pagination.Params) (*ExpenseList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListExpenses(ctx, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase expenses")
	}
	list := &ExpenseList{Expenses: rows}
	if len(rows) > limit {
		last := rows[limit-1]
		list.Expenses = rows[:limit]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (s *service) GetLine(ctx context.Context, lineID uuid.UUID) (*models.PurchaseProduct, error) {
	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, notFoundOr(err, "purchase product not found", "load purchase product")
	}
	return line, nil
}

func (s *service) ListLines(ctx context.Context, filter LineFilter, params pagination.Params) (*LineList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListLines(ctx, filter, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase products")
	}
	list := &LineList{Lines: rows}
	if len(rows) > limit {
		last := rows[limit-1]
		list.Lines = rows[:limit]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

// recompute writes only the derived columns of expense from its current lines.
func (s *service) recompute(ctx context.Context, repo Repository, expense *models.PurchaseExpense) error {
	lines, err := repo.ListLinesByExpense(ctx, expense.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase products")
	}
	totals := Totals(lines)
	paid, unpaid := DerivePayment(expense.PaymentStatus, totals.Total, expense.PaidAmount)
	if err := repo.UpdateExpense(ctx, expense.ID, map[string]any{
		"sub_total":     totals.SubTotal,
		"vat":           totals.VAT,
		"total":         totals.Total,
		"paid_amount":   paid,
		"unpaid_amount": unpaid,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase expense totals")
	}
	if s.metrics != nil {
		s.metrics.IncRecompute(aggregateName)
	}
	return nil
}

func (s *service) lockLine(ctx context.Context, repo Repository, lineID uuid.UUID) (*models.PurchaseProduct, *models.PurchaseExpense, error) {
	line, err := repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, nil, notFoundOr(err, "purchase product not found", "load purchase product")
	}
	expense, err := repo.LockExpense(ctx, line.ExpenseID)
	if err != nil {
		return nil, nil, notFoundOr(err, "purchase expense not found", "lock purchase expense")
	}
	line, err = repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, nil, notFoundOr(err, "purchase product not found", "reload purchase product")
	}
	return line, expense, nil
}

func (s *service) fill(ctx context.Context, repo Repository, result *LineResult, lineID, expenseID uuid.UUID) error {
	line, err := repo.FindLine(ctx, lineID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase product")
	}
	expense, err := repo.FindExpense(ctx, expenseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase expense")
	}
	result.Line = line
	result.Expense = expense
	return nil
}

func validateLine(line LineInput) error {
	if err := stock.ValidateQuantity(line.Quantity); err != nil {
		return err
	}
	if line.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	return nil
}

func paidAmount(value *decimal.Decimal) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Zero, nil
	}
	if value.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "paid amount must not be negative")
	}
	return *value, nil
}

func newLine(expenseID uuid.UUID, actor string, input LineInput) *models.PurchaseProduct {
	return &models.PurchaseProduct{
		ExpenseID:   expenseID,
		Product:     orDefault(input.Product, defaultProduct),
		Unit:        orDefault(input.Unit, defaultUnit),
		Description: input.Description,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalPrice:  LineTotal(input.Quantity, input.UnitPrice),
		CreatedBy:   actor,
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func notFoundOr(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
