package orders

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
)

// priceLine fills the derived columns of item from the live product.
// Without a product the stored unit price and unit cost are carried forward.
func priceLine(item *models.OrderItem, product *models.Product, qty int) {
	quantity := decimal.NewFromInt(int64(qty))
	if product != nil {
		item.ProductPrice = product.SellingPrice
		item.Price = product.SellingPrice.Mul(quantity)
		item.Cost = product.UnitCost().Mul(quantity)
		item.Receipt = product.Receipt
		item.Quantity = qty
		return
	}

	unitCost := decimal.Zero
	if item.Quantity > 0 {
		unitCost = item.Cost.Div(decimal.NewFromInt(int64(item.Quantity)))
	}
	item.Price = item.ProductPrice.Mul(quantity)
	item.Cost = unitCost.Mul(quantity).Round(2)
	item.Quantity = qty
}

// orderTotal is the authoritative order total: quantity times the live selling
// price for every remaining item. Items whose product was deleted contribute
// their stored line price.
func orderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Product != nil {
			total = total.Add(item.Product.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			continue
		}
		total = total.Add(item.Price)
	}
	return total
}
