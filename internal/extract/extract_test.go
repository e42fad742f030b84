package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ozcodx/mailprocessor/internal/classify"
	"github.com/ozcodx/mailprocessor/internal/model"
	"github.com/ozcodx/mailprocessor/internal/sheet"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newExtractor() *Extractor {
	table := sheet.NewTable(sheet.DefaultHeaderMarker, sheet.DefaultFallbackHeaderRow, zap.NewNop())
	classifier := classify.New(classify.DefaultRules(), classify.RulesetPrefix)
	return New(table, classifier, zap.NewNop())
}

func grid(rows ...[]string) model.Grid {
	g := model.Grid{{"Código cuenta contable", "Nombre cuenta contable", "Saldo final"}}
	return append(g, rows...)
}

func TestRecordsExtractsAndClassifies(t *testing.T) {
	g := grid(
		[]string{"1445", "Ganado", "1000000"},
		[]string{"2365", "Retención en la fuente", "50000"},
	)

	records, err := newExtractor().Records(g)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1445", records[0].Code)
	assert.Equal(t, "Ganado", records[0].Description)
	assert.True(t, records[0].Value.Equal(dec("1000000")))
	assert.Equal(t, model.TypeAsset, records[0].Type)
	assert.Equal(t, model.CategoryLivestock, records[0].Category)

	assert.Equal(t, model.TypeLiability, records[1].Type)
	assert.Equal(t, model.CategoryLegal, records[1].Category)
}

func TestRecordsSkipsInvalidRows(t *testing.T) {
	g := grid(
		[]string{"", "Sin código", "100"},
		[]string{"1445", "Sin valor", ""},
		[]string{"1445", "Valor ilegible", "$1.234.56abc"}, // two decimal points after stripping
		[]string{"1504", "Terrenos", "250000"},
	)

	records, err := newExtractor().Records(g)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1504", records[0].Code)
}

func TestRecordsCurrencyPunctuation(t *testing.T) {
	g := grid(
		[]string{"1445", "Ganado", "$1,000,000.50"},
	)

	records, err := newExtractor().Records(g)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Value.Equal(dec("1000000.50")))
}

func TestRecordsMissingDescription(t *testing.T) {
	g := grid(
		[]string{"1445", "", "500"},
	)

	records, err := newExtractor().Records(g)
	require.NoError(t, err)
	assert.Equal(t, "", records[0].Description)
}

func TestRecordsEmpty(t *testing.T) {
	g := grid(
		[]string{"", "", ""},
	)
	_, err := newExtractor().Records(g)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestRecordsInsufficientColumns(t *testing.T) {
	g := model.Grid{
		{"Código cuenta contable", "Saldo final"},
		{"1445", "1000"},
	}
	_, err := newExtractor().Records(g)
	assert.ErrorIs(t, err, sheet.ErrInsufficientColumns)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"1000000", "1000000", false},
		{"$1,000,000.50", "1000000.50", false},
		{" 600000 ", "600000", false},
		{"$1.234.56abc", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "ParseValue(%q)", tt.raw)
			continue
		}
		require.NoError(t, err, "ParseValue(%q)", tt.raw)
		assert.True(t, got.Equal(dec(tt.want)), "ParseValue(%q) = %s", tt.raw, got)
	}
}
