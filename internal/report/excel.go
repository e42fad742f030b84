package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ozcodx/mailprocessor/internal/analyze"
	"github.com/ozcodx/mailprocessor/internal/model"
)

const (
	sheetDetail   = "Datos Detallados"
	sheetCategory = "Resumen por Categoría"
	sheetGeneral  = "Resumen General"
)

// WriteExcel exports the records and aggregates to a timestamped
// workbook under dir and returns the file path.
func WriteExcel(dir, prefix string, now time.Time, records []model.AccountRecord, res *analyze.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeDetailSheet(f, records); err != nil {
		return "", err
	}
	if err := writeCategorySheet(f, res); err != nil {
		return "", err
	}
	if err := writeGeneralSheet(f, res); err != nil {
		return "", err
	}

	// Drop the implicit default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("removing default sheet: %w", err)
	}

	name := fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}
	return path, nil
}

func writeDetailSheet(f *excelize.File, records []model.AccountRecord) error {
	if _, err := f.NewSheet(sheetDetail); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheetDetail, err)
	}

	headers := []any{"Código", "Descripción", "Valor", "Tipo", "Categoría"}
	if err := f.SetSheetRow(sheetDetail, "A1", &headers); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}

	for i, rec := range records {
		row := []any{
			rec.Code,
			rec.Description,
			rec.Value.InexactFloat64(),
			string(rec.Type),
			string(rec.Category),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetDetail, cell, &row); err != nil {
			return fmt.Errorf("writing record row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeCategorySheet(f *excelize.File, res *analyze.Result) error {
	if _, err := f.NewSheet(sheetCategory); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheetCategory, err)
	}

	headers := []any{"Categoría", "Valor"}
	if err := f.SetSheetRow(sheetCategory, "A1", &headers); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}

	for i, cat := range model.Categories {
		row := []any{string(cat), res.ByCategory[cat].InexactFloat64()}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetCategory, cell, &row); err != nil {
			return fmt.Errorf("writing category row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeGeneralSheet(f *excelize.File, res *analyze.Result) error {
	if _, err := f.NewSheet(sheetGeneral); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheetGeneral, err)
	}

	rows := []struct {
		concept string
		value   float64
	}{
		{"Total Activos", res.TotalAssets.InexactFloat64()},
		{"Total Pasivos", res.TotalLiabilities.InexactFloat64()},
		{"Total Patrimonio", res.TotalEquity.InexactFloat64()},
		{"Total Ingresos", res.TotalRevenue.InexactFloat64()},
		{"Total Gastos", res.TotalExpenses.InexactFloat64()},
		{"Total Costos", res.TotalCosts.InexactFloat64()},
		{"Utilidad", res.NetResult.InexactFloat64()},
	}

	headers := []any{"Concepto", "Valor"}
	if err := f.SetSheetRow(sheetGeneral, "A1", &headers); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}
	for i, r := range rows {
		row := []any{r.concept, r.value}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetGeneral, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+2, err)
		}
	}
	return nil
}
