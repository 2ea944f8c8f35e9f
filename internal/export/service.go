// Package export renders extraction results as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/receipt-vision/internal/pipeline"
)

// Service produces XLSX bytes from extraction results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ResultsXLSX writes one row per line item, with receipt-level fields repeated
// on each row, plus a Warranties sheet when any result carries them.
func (s *Service) ResultsXLSX(results []*pipeline.ExtractionResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// excelize seeds new workbooks with "Sheet1"
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Purchase Date",
		"Merchant",
		"Category",
		"Item",
		"Quantity",
		"Unit Price",
		"Item Total",
		"Receipt Total",
		"Confidence",
		"Flags",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	itemRows := 0
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		writeReceipt := func() {
			if !r.PurchaseDate.IsZero() {
				write(1, r.PurchaseDate.Format("2006-01-02"))
			} else {
				write(1, "")
			}
			write(2, r.MerchantName)
			write(3, string(r.Category))
			write(8, r.TotalAmount)
			write(9, fmt.Sprintf("%.2f", r.Confidence))
			write(10, flagList(r))
		}

		if len(r.Items) == 0 {
			writeReceipt()
			row++
			continue
		}
		for _, item := range r.Items {
			writeReceipt()
			write(4, item.Name)
			write(5, item.Quantity)
			write(6, item.UnitPrice)
			write(7, item.TotalPrice)
			row++
			itemRows++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 26)
	_ = f.SetColWidth(sheet, "C", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 32)
	_ = f.SetColWidth(sheet, "E", "G", 12)
	_ = f.SetColWidth(sheet, "H", "I", 14)
	_ = f.SetColWidth(sheet, "J", "J", 40)

	if err := s.writeWarranties(f, results); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"receipts", len(results),
		"item_rows", itemRows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeWarranties(f *excelize.File, results []*pipeline.ExtractionResult) error {
	hasAny := false
	for _, r := range results {
		if len(r.Warranties) > 0 {
			hasAny = true
			break
		}
	}
	if !hasAny {
		return nil
	}

	const sheet = "Warranties"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"Merchant", "Item", "Type", "Years", "Months", "Days", "Expires", "Confidence", "Source"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		for _, w := range r.Warranties {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			write(1, r.MerchantName)
			write(2, w.ItemName)
			write(3, w.Type)
			write(4, w.Period.Years)
			write(5, w.Period.Months)
			write(6, w.Period.Days)
			if !w.Expiration.IsZero() {
				write(7, w.Expiration.Format("2006-01-02"))
			}
			write(8, fmt.Sprintf("%.2f", w.Confidence))
			write(9, w.SourceStrategy)
			row++
		}
	}
	_ = f.SetColWidth(sheet, "A", "B", 28)
	return nil
}

func flagList(r *pipeline.ExtractionResult) string {
	if len(r.Metadata.Flags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Metadata.Flags))
	for _, fl := range r.Metadata.Flags {
		parts = append(parts, string(fl))
	}
	return strings.Join(parts, ", ")
}
