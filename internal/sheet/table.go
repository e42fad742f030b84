// Package sheet loads spreadsheet files into grids and locates the data
// region inside them. Source systems export the statement with a
// variable amount of title/letterhead rows above the real header, so
// the header row has to be found, not assumed.
package sheet

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ozcodx/mailprocessor/internal/model"
)

// ErrInsufficientColumns is returned for grids narrower than the three
// columns (code, description, value) the statement layout requires.
var ErrInsufficientColumns = errors.New("sheet has fewer than 3 columns")

// minColumns is the narrowest usable statement: code, description, value.
const minColumns = 3

// DefaultHeaderMarker is the column label the known source system puts
// on the account-code column.
const DefaultHeaderMarker = "Código cuenta contable"

// DefaultFallbackHeaderRow is the header position observed in the known
// export format, used only when both detection strategies fail. Kept
// configurable because nothing guarantees other exports share it.
const DefaultFallbackHeaderRow = 7

// Table locates the first data row of a statement grid.
type Table struct {
	marker      string
	fallbackRow int
	log         *zap.Logger
}

// NewTable creates a Table parser. marker is the header text expected in
// the first column of the header row; fallbackRow is the header index
// assumed when no detection strategy succeeds.
func NewTable(marker string, fallbackRow int, log *zap.Logger) *Table {
	if marker == "" {
		marker = DefaultHeaderMarker
	}
	if fallbackRow <= 0 {
		fallbackRow = DefaultFallbackHeaderRow
	}
	return &Table{marker: marker, fallbackRow: fallbackRow, log: log}
}

// DataStart returns the index of the first data row: the row after the
// resolved header. Detection order: the marker text in column 0, then
// the row preceding the first all-digit column-0 cell, then the
// configured fixed fallback. The fallback is low-confidence and is
// logged as such.
func (t *Table) DataStart(grid model.Grid) (int, error) {
	if grid.Columns() < minColumns {
		return 0, ErrInsufficientColumns
	}

	for i := range grid {
		if strings.Contains(grid.Cell(i, 0), t.marker) {
			return i + 1, nil
		}
	}

	for i := range grid {
		if isDigits(grid.Cell(i, 0)) {
			// The row above the first account code is taken as the
			// header; the code row itself is the first data row.
			return i, nil
		}
	}

	t.log.Warn("header row not found, using fixed fallback",
		zap.String("marker", t.marker),
		zap.Int("fallback_row", t.fallbackRow))
	return t.fallbackRow + 1, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
