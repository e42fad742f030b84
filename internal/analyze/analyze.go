// Package analyze aggregates classified account records into per-type
// and per-category totals and the derived financial indicators.
package analyze

import (
	"github.com/shopspring/decimal"

	"github.com/ozcodx/mailprocessor/internal/hierarchy"
	"github.com/ozcodx/mailprocessor/internal/model"
)

// Policy selects which records are summed.
type Policy string

const (
	// PolicyLeavesOnly sums only effective leaves, so a summary row is
	// never counted together with its detail rows.
	PolicyLeavesOnly Policy = "leaves-only"
	// PolicyAllRows sums every record unconditionally, for sheets known
	// to contain only leaf-level detail.
	PolicyAllRows Policy = "all-rows"
)

// Result holds the aggregate view of one statement. Created fresh per
// Aggregate call, never cached or merged across sheets.
type Result struct {
	ByType     map[model.AccountType]decimal.Decimal
	ByCategory map[model.Category]decimal.Decimal

	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal
	TotalRevenue     decimal.Decimal
	TotalExpenses    decimal.Decimal
	TotalCosts       decimal.Decimal

	// DebtRatio is liabilities over assets; Liquidity is assets over
	// liabilities. Zero divisors are floored to 1 (and DebtRatio is 0
	// outright when there are no liabilities) so a lopsided statement
	// degrades instead of dividing by zero.
	DebtRatio decimal.Decimal
	Liquidity decimal.Decimal

	// NetResult is revenue minus expenses minus costs.
	NetResult decimal.Decimal

	// TotalOutflows is expenses plus costs, the figure reported as
	// total egresos.
	TotalOutflows decimal.Decimal
}

// Aggregate sums the records selected by the policy. The resolver must
// have been built from the same record set.
func Aggregate(records []model.AccountRecord, resolver *hierarchy.Resolver, policy Policy) *Result {
	res := &Result{
		ByType:     make(map[model.AccountType]decimal.Decimal),
		ByCategory: make(map[model.Category]decimal.Decimal, len(model.Categories)),
	}
	for _, cat := range model.Categories {
		res.ByCategory[cat] = decimal.Zero
	}

	selected := records
	if policy == PolicyLeavesOnly {
		selected = resolver.Leaves()
	}

	for _, rec := range selected {
		res.ByType[rec.Type] = res.ByType[rec.Type].Add(rec.Value)
		res.ByCategory[rec.Category] = res.ByCategory[rec.Category].Add(rec.Value)

		switch rec.Type {
		case model.TypeAsset:
			res.TotalAssets = res.TotalAssets.Add(rec.Value)
		case model.TypeLiability:
			res.TotalLiabilities = res.TotalLiabilities.Add(rec.Value)
		case model.TypeEquity:
			res.TotalEquity = res.TotalEquity.Add(rec.Value)
		case model.TypeRevenue:
			res.TotalRevenue = res.TotalRevenue.Add(rec.Value)
		case model.TypeExpense:
			res.TotalExpenses = res.TotalExpenses.Add(rec.Value)
		case model.TypeCost, model.TypeProductionCost:
			res.TotalCosts = res.TotalCosts.Add(rec.Value)
		}
	}

	one := decimal.NewFromInt(1)

	if res.TotalLiabilities.IsPositive() {
		divisor := res.TotalAssets
		if !divisor.IsPositive() {
			divisor = one
		}
		res.DebtRatio = res.TotalLiabilities.Div(divisor)
	} else {
		res.DebtRatio = decimal.Zero
	}

	liqDivisor := res.TotalLiabilities
	if !liqDivisor.IsPositive() {
		liqDivisor = one
	}
	res.Liquidity = res.TotalAssets.Div(liqDivisor)

	res.NetResult = res.TotalRevenue.Sub(res.TotalExpenses).Sub(res.TotalCosts)
	res.TotalOutflows = res.TotalExpenses.Add(res.TotalCosts)

	return res
}
