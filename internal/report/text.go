// Package report renders aggregation results into the fixed text
// layout and an optional Excel workbook. The text layout is stable:
// downstream consumers parse the totals back out of it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ozcodx/mailprocessor/internal/analyze"
	"github.com/ozcodx/mailprocessor/internal/hierarchy"
	"github.com/ozcodx/mailprocessor/internal/model"
)

const divider = "------------------------------"

// printer applies thousands separators ("1,234,567.89").
var printer = message.NewPrinter(language.English)

// Money formats a monetary value as $1,234.56.
func Money(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// Percent formats a ratio as a percentage with two decimals.
func Percent(d decimal.Decimal) string {
	return printer.Sprintf("%.2f%%", d.Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64())
}

// Text renders the full statement report. Detail sections list the
// effective leaves under the leaves-only policy and every record
// otherwise, each with its ancestor breadcrumb when summary rows are
// present in the same sheet.
func Text(records []model.AccountRecord, resolver *hierarchy.Resolver, res *analyze.Result, policy analyze.Policy) string {
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("INFORME DE ESTADO FINANCIERO")
	line(divider)
	line("")

	line("Total Ingresos: %s", Money(res.TotalRevenue))
	line("")

	line("Total Egresos: %s", Money(res.TotalOutflows))
	for _, cat := range model.Categories {
		line("    %s: %s", title(string(cat)), Money(res.ByCategory[cat]))
	}
	line("")

	line("Total Utilidad: %s", Money(res.NetResult))
	line("")

	line("Endeudamiento: %s", Percent(res.DebtRatio))
	line("Liquidez: %s", Percent(res.Liquidity))
	line("")

	line(divider)
	line("Detalles de cada categoria.")
	line("")

	detail := records
	if policy == analyze.PolicyLeavesOnly {
		detail = resolver.Leaves()
	}

	byCategory := make(map[model.Category][]model.AccountRecord)
	for _, rec := range detail {
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
	}

	for _, cat := range model.Categories {
		recs, ok := byCategory[cat]
		if !ok {
			continue
		}
		sort.Slice(recs, func(i, j int) bool { return recs[i].Code < recs[j].Code })

		line("")
		line(strings.ToUpper(string(cat)))
		line(divider)

		for _, rec := range recs {
			line("Código: %s", rec.Code)
			if anc := resolver.Ancestors(rec.Code); len(anc) > 0 {
				codes := make([]string, len(anc))
				for i, a := range anc {
					codes[i] = a.Code
				}
				line("Jerarquía: %s", strings.Join(codes, " > "))
			}
			line("Descripción: %s", rec.Description)
			line("Valor: %s", Money(rec.Value))
			line("Tipo: %s", rec.Type)
			line("")
		}
	}

	return b.String()
}

// WriteText writes a rendered report under dir with a timestamped name
// and returns the file path.
func WriteText(dir, prefix string, now time.Time, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.txt", prefix, now.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// title upper-cases the first letter of a category name for display.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
