package models

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Supplier{},
		&Customer{},
		&CompanyInfo{},
		&Product{},
		&Order{},
		&OrderItem{},
		&OrderLog{},
		&SalesReport{},
		&PurchaseExpense{},
		&PurchaseProduct{},
		&ExpenseType{},
		&OtherExpense{},
	}
}
