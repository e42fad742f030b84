// Package extract turns a raw statement grid into classified account
// records. Extraction is best-effort per row: malformed rows are
// dropped and logged, never fatal to the batch.
package extract

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ozcodx/mailprocessor/internal/classify"
	"github.com/ozcodx/mailprocessor/internal/model"
	"github.com/ozcodx/mailprocessor/internal/sheet"
)

// ErrNoRecords is returned when a grid yields zero valid records;
// downstream analysis and reporting short-circuit on it.
var ErrNoRecords = errors.New("no financial records extracted")

const (
	colCode  = 0
	colDesc  = 1
	colValue = 2
)

// Extractor extracts and classifies records from statement grids.
type Extractor struct {
	table      *sheet.Table
	classifier *classify.Classifier
	log        *zap.Logger
}

// New creates an Extractor. The table parser locates the first data
// row; the classifier assigns each record its category.
func New(table *sheet.Table, classifier *classify.Classifier, log *zap.Logger) *Extractor {
	return &Extractor{table: table, classifier: classifier, log: log}
}

// Records extracts every valid account record from the grid, in row
// order. Rows with a missing code or value, or an unparsable value, are
// skipped. Returns ErrNoRecords when nothing valid remains and
// sheet.ErrInsufficientColumns when the grid is too narrow.
func (e *Extractor) Records(grid model.Grid) ([]model.AccountRecord, error) {
	start, err := e.table.DataStart(grid)
	if err != nil {
		return nil, err
	}

	var records []model.AccountRecord
	for i := start; i < len(grid); i++ {
		code := strings.TrimSpace(grid.Cell(i, colCode))
		rawValue := strings.TrimSpace(grid.Cell(i, colValue))
		if code == "" || rawValue == "" {
			continue
		}

		value, err := ParseValue(rawValue)
		if err != nil {
			e.log.Debug("skipping row with unparsable value",
				zap.Int("row", i),
				zap.String("code", code),
				zap.String("value", rawValue))
			continue
		}

		desc := strings.TrimSpace(grid.Cell(i, colDesc))
		records = append(records, model.AccountRecord{
			Code:        code,
			Description: desc,
			Value:       value,
			Type:        classify.Type(code),
			Category:    e.classifier.Category(code, desc),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// ParseValue parses a monetary cell. Currency punctuation is stripped
// down to ASCII digits and dots before parsing, so "$1,000,000.50"
// becomes "1000000.50". Anything that still fails to parse (for
// instance a doubled decimal point) is an error and the row is skipped.
func ParseValue(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return decimal.NewFromString(b.String())
}
