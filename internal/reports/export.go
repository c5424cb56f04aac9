package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	salesSheet    = "Sales"
	productsSheet = "Products"
	defaultSheet  = "Sheet1"
)

type colWidth struct {
	from, to string
	width    float64
}

var (
	salesHeaders = []string{
		"User", "Customer Name", "Customer Phone", "Customer TIN", "Order Date",
		"Product Name", "Product Price", "Quantity", "Price",
	}
	productHeaders = []string{
		"ID", "Name", "Category", "Description", "Buying Price",
		"Selling Price", "Stock", "Supplier", "Created By",
	}
)

// WriteSalesXLSX renders the sales rows as a single-sheet workbook.
func WriteSalesXLSX(w io.Writer, rows []models.SalesReport) error {
	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, []any{
			row.User,
			row.CustomerName,
			row.CustomerPhone,
			row.CustomerTINNumber,
			row.OrderDate.UTC().Format("2006-01-02 15:04:05"),
			row.ProductName,
			row.ProductPrice.StringFixed(2),
			row.Quantity,
			row.Price.StringFixed(2),
		})
	}
	return writeSheet(w, salesSheet, salesHeaders, data, []colWidth{{"A", "D", 18}, {"E", "E", 20}, {"F", "F", 24}, {"G", "I", 14}})
}

// WriteProductsXLSX renders the catalog as a single-sheet workbook.
func WriteProductsXLSX(w io.Writer, products []models.Product) error {
	data := make([][]any, 0, len(products))
	for _, product := range products {
		category, supplier, description, buying := "", "", "", ""
		if product.Category != nil {
			category = product.Category.Name
		}
		if product.Supplier != nil {
			supplier = product.Supplier.Name
		}
		if product.Description != nil {
			description = *product.Description
		}
		if product.BuyingPrice != nil {
			buying = product.BuyingPrice.StringFixed(2)
		}
		data = append(data, []any{
			product.ID.String(),
			product.Name,
			category,
			description,
			buying,
			product.SellingPrice.StringFixed(2),
			product.Stock,
			supplier,
			product.CreatedBy,
		})
	}
	return writeSheet(w, productsSheet, productHeaders, data, []colWidth{{"A", "A", 38}, {"B", "D", 22}, {"E", "G", 14}, {"H", "I", 20}})
}

func writeSheet(w io.Writer, sheet string, headers []string, rows [][]any, widths []colWidth) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	for _, col := range widths {
		if err := f.SetColWidth(sheet, col.from, col.to, col.width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	return f.Write(w)
}
