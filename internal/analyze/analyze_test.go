package analyze

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozcodx/mailprocessor/internal/classify"
	"github.com/ozcodx/mailprocessor/internal/hierarchy"
	"github.com/ozcodx/mailprocessor/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func rec(code, desc, value string) model.AccountRecord {
	classifier := classify.New(classify.DefaultRules(), classify.RulesetPrefix)
	return model.AccountRecord{
		Code:        code,
		Description: desc,
		Value:       dec(value),
		Type:        classify.Type(code),
		Category:    classifier.Category(code, desc),
	}
}

func aggregate(policy Policy, records ...model.AccountRecord) *Result {
	return Aggregate(records, hierarchy.Resolve(records), policy)
}

func TestLeavesOnlySkipsSummaryRows(t *testing.T) {
	res := aggregate(PolicyLeavesOnly,
		rec("1445", "Ganado", "1000000"),
		rec("1445001", "Vacas", "600000"),
		rec("1445002", "Toros", "400000"),
	)

	// The parent 1445 must not be counted on top of its children.
	assert.True(t, res.ByCategory[model.CategoryLivestock].Equal(dec("1000000")),
		"livestock total = %s", res.ByCategory[model.CategoryLivestock])
	assert.True(t, res.TotalAssets.Equal(dec("1000000")))
}

func TestAllRowsCountsEverything(t *testing.T) {
	res := aggregate(PolicyAllRows,
		rec("1445", "Ganado", "1000000"),
		rec("1445001", "Vacas", "600000"),
		rec("1445002", "Toros", "400000"),
	)
	assert.True(t, res.ByCategory[model.CategoryLivestock].Equal(dec("2000000")))
}

func TestTypeAndCategoryTotalsAgree(t *testing.T) {
	res := aggregate(PolicyLeavesOnly,
		rec("1445", "Ganado", "700"),
		rec("1445001", "Vacas", "300"),
		rec("1445002", "Toros", "400"),
		rec("2365", "Retención", "50"),
	)

	byType := decimal.Zero
	for _, v := range res.ByType {
		byType = byType.Add(v)
	}
	byCategory := decimal.Zero
	for _, v := range res.ByCategory {
		byCategory = byCategory.Add(v)
	}
	assert.True(t, byType.Equal(byCategory), "type sum %s != category sum %s", byType, byCategory)
	assert.True(t, byType.Equal(dec("750")))
}

func TestAllCategoriesPresent(t *testing.T) {
	res := aggregate(PolicyLeavesOnly, rec("1445001", "Vacas", "100"))

	require.Len(t, res.ByCategory, len(model.Categories))
	for _, cat := range model.Categories {
		_, ok := res.ByCategory[cat]
		assert.True(t, ok, "category %s missing", cat)
	}
	assert.True(t, res.ByCategory[model.CategoryPastures].IsZero())
}

func TestIndicators(t *testing.T) {
	res := aggregate(PolicyLeavesOnly,
		rec("1110", "Bancos", "2000"),
		rec("2335", "Por pagar", "500"),
		rec("4135", "Ventas", "900"),
		rec("5105", "Gastos de personal", "300"),
		rec("6135", "Costo de ventas", "200"),
		rec("7105", "Costo de producción", "100"),
	)

	assert.True(t, res.DebtRatio.Equal(dec("0.25")), "debt ratio = %s", res.DebtRatio)
	assert.True(t, res.Liquidity.Equal(dec("4")), "liquidity = %s", res.Liquidity)
	assert.True(t, res.NetResult.Equal(dec("300")), "net result = %s", res.NetResult)
	assert.True(t, res.TotalOutflows.Equal(dec("600")))
	assert.True(t, res.TotalCosts.Equal(dec("300")), "production cost folds into costs")
}

func TestIndicatorsNoLiabilities(t *testing.T) {
	res := aggregate(PolicyLeavesOnly, rec("1110", "Bancos", "2000"))

	assert.True(t, res.DebtRatio.IsZero())
	// Liquidity divisor floored to 1.
	assert.True(t, res.Liquidity.Equal(dec("2000")))
}

func TestIndicatorsNoAssets(t *testing.T) {
	res := aggregate(PolicyLeavesOnly, rec("2335", "Por pagar", "500"))

	// Debt ratio divisor floored to 1 rather than dividing by zero.
	assert.True(t, res.DebtRatio.Equal(dec("500")))
	assert.True(t, res.Liquidity.IsZero())
}

func TestEmptyRecordSet(t *testing.T) {
	res := aggregate(PolicyLeavesOnly)

	assert.True(t, res.TotalAssets.IsZero())
	assert.True(t, res.DebtRatio.IsZero())
	assert.True(t, res.Liquidity.IsZero())
	assert.True(t, res.NetResult.IsZero())
	require.Len(t, res.ByCategory, len(model.Categories))
}
