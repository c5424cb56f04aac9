package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

const savepointName = "audit_log_entry"

// Recorder appends audit entries inside a caller-owned transaction.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
}

// Service records and lists order log entries.
type Service interface {
	Recorder
	List(ctx context.Context, params pagination.Params, filter ListFilter) (*ListResult, error)
}

// FailureCounter observes audit writes that could not be persisted.
type FailureCounter interface {
	IncAuditFailure(model string)
}

// Entry is the immutable snapshot written for one order or order item mutation.
type Entry struct {
	User         string
	Action       enums.AuditAction
	ModelName    string
	ObjectID     uuid.UUID
	CustomerInfo string
	ProductName  string
	Quantity     *int
	Price        *decimal.Decimal
	Changes      string
}

// ListFilter narrows the order log. A zero value lists every entry.
type ListFilter struct {
	Action enums.AuditAction
}

// ListResult is a page of order log entries, newest first.
type ListResult struct {
	Entries    []models.OrderLog
	NextCursor string
}

type service struct {
	repo     Repository
	failures FailureCounter
}

// NewService wires an audit service. failures may be nil.
func NewService(repo Repository, failures FailureCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo, failures: failures}, nil
}

// Record writes the entry under a savepoint when tx is set, so a failed write
// leaves the surrounding transaction usable. The failure is still returned.
func (s *service) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	row := toModel(entry)

	if tx == nil {
		if err := s.repo.Create(ctx, row); err != nil {
			return s.failed(entry, err)
		}
		return nil
	}

	if err := tx.SavePoint(savepointName).Error; err != nil {
		return s.failed(entry, err)
	}
	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		if rbErr := tx.RollbackTo(savepointName).Error; rbErr != nil {
			return s.failed(entry, fmt.Errorf("%w (rollback to savepoint: %v)", err, rbErr))
		}
		return s.failed(entry, err)
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (*ListResult, error) {
	if filter.Action != "" && !filter.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid audit action %q", filter.Action))
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, limit+1, cursor, filter.Action)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order log")
	}

	result := &ListResult{Entries: rows}
	if len(rows) > limit {
		last := rows[limit-1]
		result.Entries = rows[:limit]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) failed(entry Entry, err error) error {
	if s.failures != nil {
		s.failures.IncAuditFailure(entry.ModelName)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("record %s %s audit entry", entry.Action, entry.ModelName))
}

func validateEntry(entry Entry) error {
	if entry.User == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit user required")
	}
	if !entry.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid audit action %q", entry.Action))
	}
	if entry.ModelName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit model name required")
	}
	if entry.ObjectID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit object id required")
	}
	return nil
}

func toModel(entry Entry) *models.OrderLog {
	row := &models.OrderLog{
		User:      entry.User,
		Action:    entry.Action,
		ModelName: entry.ModelName,
		ObjectID:  entry.ObjectID.String(),
		Quantity:  entry.Quantity,
		Price:     entry.Price,
	}
	if entry.CustomerInfo != "" {
		row.CustomerInfo = &entry.CustomerInfo
	}
	if entry.ProductName != "" {
		row.ProductName = &entry.ProductName
	}
	if entry.Changes != "" {
		row.ChangesOnUpdate = &entry.Changes
	}
	return row
}
