// internal/domain/product/export.go
package product

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Name", "Category", "Price", "SalePrice", "EffectivePrice",
	"Featured", "New", "Sale", "Colors", "Sizes", "Images", "CreatedAt",
}

// Export writes the catalog as an xlsx workbook to w
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	products, err := s.List(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for i := range products {
		p := &products[i]
		row := sheet.AddRow()

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(string(p.Category))
		row.AddCell().SetValue(p.Price.StringFixed(2))
		if p.SalePrice.Valid {
			row.AddCell().SetValue(p.SalePrice.Decimal.StringFixed(2))
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.EffectivePrice().StringFixed(2))
		row.AddCell().SetValue(p.Featured)
		row.AddCell().SetValue(p.New)
		row.AddCell().SetValue(p.OnSale)
		row.AddCell().SetValue(strings.Join(p.Colors.Names(), ", "))
		row.AddCell().SetValue(strings.Join(p.Sizes.Names(), ", "))
		row.AddCell().SetValue(strings.Join(p.Images, "\n"))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
