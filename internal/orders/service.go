package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/internal/audit"
	"github.com/angelmondragon/stockroom-backend/internal/stock"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

const (
	modelOrder     = "Order"
	modelOrderItem = "OrderItem"

	defaultCustomerInfo = "Customer"
	defaultProductName  = "Product"

	anonymousCustomerName  = "Anonymous Customer"
	anonymousCustomerPhone = "0000000000"
	anonymousCustomerTIN   = "1111"
)

// Service exposes the order aggregate. Every mutation runs in one transaction
// covering stock, line items, the order total, audit entries and sales rows.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderResult, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*OrderResult, error)
	SetStatus(ctx context.Context, actor string, orderID uuid.UUID, status enums.OrderStatus) (*OrderResult, error)
	DeleteOrder(ctx context.Context, actor string, orderID uuid.UUID) (*OrderResult, error)
	UpdateOrderItem(ctx context.Context, actor string, itemID uuid.UUID, quantity int) (*ItemResult, error)
	DeleteOrderItem(ctx context.Context, actor string, itemID uuid.UUID) (*ItemResult, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
	GetOrderItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error)
	ListOrderItems(ctx context.Context, filter ItemFilter, params pagination.Params) (*ItemList, error)
}

// LineInput is one requested product line.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type PlaceOrderInput struct {
	Actor      string
	CustomerID *uuid.UUID
	Status     enums.OrderStatus
	Items      []LineInput
}

// UpdateOrderInput changes order fields and upserts items by product.
// Items not mentioned are left untouched.
type UpdateOrderInput struct {
	Actor         string
	OrderID       uuid.UUID
	CustomerID    *uuid.UUID
	ClearCustomer bool
	Status        *enums.OrderStatus
	Items         []LineInput
}

// OrderResult is the aggregate state after a mutation. Order is nil when the
// order no longer exists. AuditErr carries audit writes that failed without
// aborting the mutation.
type OrderResult struct {
	Order        *models.Order
	OrderDeleted bool
	AuditErr     error
}

// ItemResult is returned by line item mutations.
type ItemResult struct {
	Item         *models.OrderItem
	Order        *models.Order
	OrderDeleted bool
	AuditErr     error
}

type OrderList struct {
	Orders     []models.Order
	NextCursor string
}

type ItemList struct {
	Items      []models.OrderItem
	NextCursor string
}

type service struct {
	repo    Repository
	tx      txRunner
	ledger  StockLedger
	audit   AuditRecorder
	sales   SalesRecorder
	metrics Metrics
}

// NewService builds the order service. metrics may be nil.
func NewService(repo Repository, tx txRunner, ledger StockLedger, auditRecorder AuditRecorder, sales SalesRecorder, metrics Metrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if auditRecorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if sales == nil {
		return nil, fmt.Errorf("sales recorder required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		ledger:  ledger,
		audit:   auditRecorder,
		sales:   sales,
		metrics: metrics,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderResult, error) {
	if input.Actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	status := input.Status
	if status == "" {
		status = enums.OrderStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	if err := validateLines(input.Items); err != nil {
		return nil, err
	}

	result := &OrderResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var customer *models.Customer
		if input.CustomerID != nil {
			found, err := repo.FindCustomer(ctx, *input.CustomerID)
			if err != nil {
				return notFoundOr(err, "customer not found", "load customer")
			}
			customer = found
		}

		order := &models.Order{
			CustomerID: input.CustomerID,
			Status:     status,
			CreatedBy:  input.Actor,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for _, line := range input.Items {
			product, err := repo.FindProduct(ctx, line.ProductID)
			if err != nil {
				return notFoundOr(err, "product not found", "load product")
			}
			if err := s.ledger.Adjust(ctx, tx, &product.ID, line.Quantity); err != nil {
				return err
			}

			item := &models.OrderItem{OrderID: order.ID, ProductID: &product.ID}
			priceLine(item, product, line.Quantity)
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
			}

			if err := s.sales.RecordSale(ctx, tx, saleRow(input.Actor, order, customer, product, item)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
			}
			result.AuditErr = multierr.Append(result.AuditErr, s.audit.Record(ctx, tx, audit.Entry{
				User:         input.Actor,
				Action:       enums.AuditActionCreate,
				ModelName:    modelOrder,
				ObjectID:     order.ID,
				CustomerInfo: customerInfo(customer),
				ProductName:  product.Name,
				Quantity:     intPtr(item.Quantity),
				Price:        decimalPtr(item.Price),
				Changes:      "Created Order Item",
			}))
		}

		if _, err := s.recompute(ctx, repo, order.ID); err != nil {
			return err
		}
		reloaded, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result.Order = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*OrderResult, error) {
	if input.Actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", *input.Status))
	}
	if err := validateLines(input.Items); err != nil {
		return nil, err
	}

	result := &OrderResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, input.OrderID)
		if err != nil {
			return notFoundOr(err, "order not found", "lock order")
		}

		updates := map[string]any{}
		changes := []string{}
		var customer *models.Customer
		switch {
		case input.ClearCustomer:
			updates["customer_id"] = nil
			changes = append(changes, "customer cleared")
		case input.CustomerID != nil:
			found, err := repo.FindCustomer(ctx, *input.CustomerID)
			if err != nil {
				return notFoundOr(err, "customer not found", "load customer")
			}
			customer = found
			updates["customer_id"] = found.ID
			changes = append(changes, "customer "+found.Name)
		case order.CustomerID != nil:
			found, err := repo.FindCustomer(ctx, *order.CustomerID)
			if err == nil {
				customer = found
			}
		}
		if input.Status != nil && *input.Status != order.Status {
			updates["status"] = *input.Status
			changes = append(changes, fmt.Sprintf("status %s -> %s", order.Status, *input.Status))
		}
		if len(updates) > 0 {
			if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
		}

		existing, err := repo.ListItemsByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}
		byProduct := map[uuid.UUID]*models.OrderItem{}
		for i := range existing {
			if existing[i].ProductID != nil {
				byProduct[*existing[i].ProductID] = &existing[i]
			}
		}

		for _, line := range input.Items {
			product, err := repo.FindProduct(ctx, line.ProductID)
			if err != nil {
				return notFoundOr(err, "product not found", "load product")
			}

			item, found := byProduct[product.ID]
			if found {
				previous := item.Quantity
				if err := s.ledger.Adjust(ctx, tx, &product.ID, line.Quantity-previous); err != nil {
					return err
				}
				priceLine(item, product, line.Quantity)
				if err := repo.SaveItem(ctx, item); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
				}
				result.AuditErr = multierr.Append(result.AuditErr, s.audit.Record(ctx, tx,
					itemEntry(input.Actor, enums.AuditActionUpdate, item, product, customer, quantityChange(previous, item.Quantity))))
				continue
			}

			if err := s.ledger.Adjust(ctx, tx, &product.ID, line.Quantity); err != nil {
				return err
			}
			item = &models.OrderItem{OrderID: order.ID, ProductID: &product.ID}
			priceLine(item, product, line.Quantity)
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
			}
			byProduct[product.ID] = item
			result.AuditErr = multierr.Append(result.AuditErr, s.audit.Record(ctx, tx,
				itemEntry(input.Actor, enums.AuditActionCreate, item, product, customer, "Added Order Item")))
		}

		if len(changes) > 0 {
			result.AuditErr = multierr.Append(result.AuditErr, s.audit.Record(ctx, tx, audit.Entry{
				User:         input.Actor,
				Action:       enums.AuditActionUpdate,
				ModelName:    modelOrder,
				ObjectID:     order.ID,
				CustomerInfo: customerInfo(customer),
				Changes:      strings.Join(changes, "; "),
			}))
		}

		if _, err := s.recompute(ctx, repo, order.ID); err != nil {
			return err
		}
		reloaded, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result.Order = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) SetStatus(ctx context.Context, actor string, orderID uuid.UUID, status enums.OrderStatus) (*OrderResult, error) {
	return s.UpdateOrder(ctx, UpdateOrderInput{Actor: actor, OrderID: orderID, Status: &status})
}

func (s *service) DeleteOrder(ctx context.Context, actor string, orderID uuid.UUID) (*OrderResult, error) {
	if actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}

	result := &OrderResult{OrderDeleted: true}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, orderID)
		if err != nil {
			return notFoundOr(err, "order not found", "lock order")
		}
		items, err := repo.ListItemsByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}
		for _, item := range items {
			if err := s.ledger.Adjust(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		if err := repo.DeleteOrder(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}

		result.AuditErr = s.audit.Record(ctx, tx, audit.Entry{
			User:         actor,
			Action:       enums.AuditActionDelete,
			ModelName:    modelOrder,
			ObjectID:     order.ID,
			CustomerInfo: s.customerInfoFor(ctx, repo, order.CustomerID),
			Price:        decimalPtr(order.TotalAmount),
			Changes:      fmt.Sprintf("Deleted Order with %d item(s).", len(items)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) UpdateOrderItem(ctx context.Context, actor string, itemID uuid.UUID, quantity int) (*ItemResult, error) {
	if actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	if err := stock.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	result := &ItemResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, order, err := s.lockItem(ctx, repo, itemID)
		if err != nil {
			return err
		}

		previous := item.Quantity
		if err := s.ledger.Adjust(ctx, tx, item.ProductID, quantity-previous); err != nil {
			return err
		}
		priceLine(item, item.Product, quantity)
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
		}

		if _, err := s.recompute(ctx, repo, order.ID); err != nil {
			return err
		}
		result.AuditErr = s.audit.Record(ctx, tx, itemEntry(actor, enums.AuditActionUpdate, item, item.Product,
			s.customerFor(ctx, repo, order.CustomerID), quantityChange(previous, quantity)))

		reloaded, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result.Order = reloaded
		result.Item = findItem(reloaded.Items, item.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) DeleteOrderItem(ctx context.Context, actor string, itemID uuid.UUID) (*ItemResult, error) {
	if actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}

	result := &ItemResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, order, err := s.lockItem(ctx, repo, itemID)
		if err != nil {
			return err
		}

		if err := s.ledger.Adjust(ctx, tx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
		}
		customer := s.customerFor(ctx, repo, order.CustomerID)
		result.AuditErr = s.audit.Record(ctx, tx, itemEntry(actor, enums.AuditActionDelete, item, item.Product, customer, "Deleted Order Item."))

		remaining, err := s.recompute(ctx, repo, order.ID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			reloaded, err := repo.FindOrder(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
			}
			result.Order = reloaded
			return nil
		}

		// Emptied orders do not survive.
		if err := repo.DeleteOrder(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete empty order")
		}
		if s.metrics != nil {
			s.metrics.IncOrderDeletedOnEmpty()
		}
		result.OrderDeleted = true
		result.AuditErr = multierr.Append(result.AuditErr, s.audit.Record(ctx, tx, audit.Entry{
			User:         actor,
			Action:       enums.AuditActionDelete,
			ModelName:    modelOrder,
			ObjectID:     order.ID,
			CustomerInfo: customerInfo(customer),
			Changes:      "Deleted Order: last item removed.",
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "order not found", "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListOrders(ctx, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	list := &OrderList{Orders: rows}
	if len(rows) > limit {
		last := rows[limit-1]
		list.Orders = rows[:limit]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.OrderDate, ID: last.ID})
	}
	return list, nil
}

func (s *service) GetOrderItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err, "order item not found", "load order item")
	}
	return item, nil
}

func (s *service) ListOrderItems(ctx context.Context, filter ItemFilter, params pagination.Params) (*ItemList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListItems(ctx, filter, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order items")
	}
	list := &ItemList{Items: rows}
	if len(rows) > limit {
		last := rows[limit-1]
		list.Items = rows[:limit]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

// lockItem locks the owning order and re-reads the item under that lock.
func (s *service) lockItem(ctx context.Context, repo Repository, itemID uuid.UUID) (*models.OrderItem, *models.Order, error) {
	item, err := repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, nil, notFoundOr(err, "order item not found", "load order item")
	}
	order, err := repo.LockOrder(ctx, item.OrderID)
	if err != nil {
		return nil, nil, notFoundOr(err, "order not found", "lock order")
	}
	item, err = repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, nil, notFoundOr(err, "order item not found", "reload order item")
	}
	return item, order, nil
}

// recompute persists the order total from the current items and returns how many remain.
func (s *service) recompute(ctx context.Context, repo Repository, orderID uuid.UUID) (int, error) {
	items, err := repo.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	if err := repo.UpdateOrder(ctx, orderID, map[string]any{"total_amount": orderTotal(items)}); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order total")
	}
	if s.metrics != nil {
		s.metrics.IncRecompute("order")
	}
	return len(items), nil
}

func (s *service) customerFor(ctx context.Context, repo Repository, customerID *uuid.UUID) *models.Customer {
	if customerID == nil {
		return nil
	}
	customer, err := repo.FindCustomer(ctx, *customerID)
	if err != nil {
		return nil
	}
	return customer
}

func (s *service) customerInfoFor(ctx context.Context, repo Repository, customerID *uuid.UUID) string {
	return customerInfo(s.customerFor(ctx, repo, customerID))
}

func validateLines(lines []LineInput) error {
	seen := map[uuid.UUID]struct{}{}
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required for every item")
		}
		if _, dup := seen[line.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "each product may appear only once per request").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		seen[line.ProductID] = struct{}{}
		if err := stock.ValidateQuantity(line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func notFoundOr(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func itemEntry(actor string, action enums.AuditAction, item *models.OrderItem, product *models.Product, customer *models.Customer, changes string) audit.Entry {
	name := defaultProductName
	if product != nil {
		name = product.Name
	}
	return audit.Entry{
		User:         actor,
		Action:       action,
		ModelName:    modelOrderItem,
		ObjectID:     item.ID,
		CustomerInfo: customerInfo(customer),
		ProductName:  name,
		Quantity:     intPtr(item.Quantity),
		Price:        decimalPtr(item.Price),
		Changes:      changes,
	}
}

func saleRow(actor string, order *models.Order, customer *models.Customer, product *models.Product, item *models.OrderItem) *models.SalesReport {
	row := &models.SalesReport{
		User:              actor,
		CustomerName:      anonymousCustomerName,
		CustomerPhone:     anonymousCustomerPhone,
		CustomerTINNumber: anonymousCustomerTIN,
		OrderDate:         order.OrderDate,
		ProductName:       product.Name,
		ProductPrice:      item.ProductPrice,
		Quantity:          item.Quantity,
		Price:             item.Price,
	}
	if customer != nil {
		row.CustomerName = customer.Name
		if customer.Phone != nil {
			row.CustomerPhone = *customer.Phone
		}
		if customer.TINNumber != nil {
			row.CustomerTINNumber = *customer.TINNumber
		}
	}
	return row
}

func customerInfo(customer *models.Customer) string {
	if customer == nil {
		return defaultCustomerInfo
	}
	return customer.Name
}

func quantityChange(from, to int) string {
	return fmt.Sprintf("quantity %d -> %d", from, to)
}

func findItem(items []models.OrderItem, id uuid.UUID) *models.OrderItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

func decimalPtr(v decimal.Decimal) *decimal.Decimal { return &v }
