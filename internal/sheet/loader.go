package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/ozcodx/mailprocessor/internal/model"
)

// Loader converts one spreadsheet format into a Grid.
type Loader interface {
	Load(path string) (model.Grid, error)
	Extensions() []string
}

// Registry holds loaders keyed by file extension.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds a loader. Panics on a duplicate extension.
func (r *Registry) Register(l Loader) {
	for _, ext := range l.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.loaders[key]; ok {
			panic("duplicate loader extension: " + key)
		}
		r.loaders[key] = l
	}
}

// Get returns the loader for a file path, or nil when the extension is
// not supported.
func (r *Registry) Get(path string) Loader {
	return r.loaders[strings.ToLower(filepath.Ext(path))]
}

// Load loads a file with the loader registered for its extension.
func (r *Registry) Load(path string) (model.Grid, error) {
	l := r.Get(path)
	if l == nil {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	return l.Load(path)
}

// DefaultRegistry returns a registry with all built-in loaders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXLoader{})
	r.Register(&XLSLoader{})
	r.Register(&CSVLoader{})
	return r
}

// Scan returns the supported spreadsheet files in a directory, sorted
// by name.
func Scan(r *Registry, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading download dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if r.Get(e.Name()) == nil {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

// XLSXLoader loads modern Excel workbooks. Only the first sheet is
// read; the statement exports are single-sheet.
type XLSXLoader struct{}

// Extensions returns the extensions handled by this loader.
func (l *XLSXLoader) Extensions() []string { return []string{".xlsx"} }

// Load reads the first sheet into a Grid.
func (l *XLSXLoader) Load(path string) (model.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx %s has no sheets", filepath.Base(path))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading xlsx rows: %w", err)
	}
	return model.Grid(rows), nil
}

// XLSLoader loads legacy BIFF Excel workbooks.
type XLSLoader struct{}

// Extensions returns the extensions handled by this loader.
func (l *XLSLoader) Extensions() []string { return []string{".xls"} }

// Load reads the first sheet into a Grid.
func (l *XLSLoader) Load(path string) (model.Grid, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("xls %s has no sheets: %w", filepath.Base(path), err)
	}

	var grid model.Grid
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, col := range row.GetCols() {
			if col != nil {
				cells = append(cells, col.GetString())
			} else {
				cells = append(cells, "")
			}
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// CSVLoader loads comma-separated exports. Files that are not valid
// UTF-8 are decoded as ISO 8859-1, which is what the known accounting
// systems emit.
type CSVLoader struct{}

// Extensions returns the extensions handled by this loader.
func (l *CSVLoader) Extensions() []string { return []string{".csv"} }

// Load reads the whole file into a Grid.
func (l *CSVLoader) Load(path string) (model.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding csv: %w", err)
		}
	}

	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.FieldsPerRecord = -1 // exports are ragged above the header
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return model.Grid(rows), nil
}
