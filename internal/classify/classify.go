// Package classify assigns account types and business categories to
// account codes. Type classification is fixed by the chart-of-accounts
// convention (leading digit); category classification is driven by a
// caller-supplied rule table so alternate charts can reuse the engine.
package classify

import (
	"strings"

	"github.com/ozcodx/mailprocessor/internal/model"
)

// Ruleset names a category classification strategy.
type Ruleset string

const (
	// RulesetPrefix matches codes against category prefixes only.
	RulesetPrefix Ruleset = "prefix"
	// RulesetPrefixKeyword falls back to description keywords when no
	// prefix matches. The keyword lists are heuristic and
	// Spanish-language specific.
	RulesetPrefixKeyword Ruleset = "prefix-keyword"
)

// CategoryRule binds one category to its code prefixes and optional
// description keywords.
type CategoryRule struct {
	Category model.Category
	Prefixes []string
	Keywords []string
}

// Classifier resolves categories from an ordered rule table. When two
// rules both own a matching prefix, the rule declared first wins,
// regardless of prefix length.
type Classifier struct {
	rules       []CategoryRule
	useKeywords bool
}

// New creates a Classifier from an ordered rule table.
func New(rules []CategoryRule, ruleset Ruleset) *Classifier {
	return &Classifier{
		rules:       rules,
		useKeywords: ruleset == RulesetPrefixKeyword,
	}
}

// Type classifies an account code by its leading digit.
func Type(code string) model.AccountType {
	if code == "" {
		return model.TypeUnclassified
	}
	switch code[0] {
	case '1':
		return model.TypeAsset
	case '2':
		return model.TypeLiability
	case '3':
		return model.TypeEquity
	case '4':
		return model.TypeRevenue
	case '5':
		return model.TypeExpense
	case '6':
		return model.TypeCost
	case '7':
		return model.TypeProductionCost
	case '8':
		return model.TypeMemorandumDebit
	case '9':
		return model.TypeMemorandumCredit
	default:
		return model.TypeUnclassified
	}
}

// Category classifies an account code, consulting the description only
// when the keyword ruleset is active and no prefix matched.
func (c *Classifier) Category(code, description string) model.Category {
	if code == "" {
		return model.CategoryOther
	}

	// Equity accounts are never split into business categories.
	if strings.HasPrefix(code, "3") {
		return model.CategoryOther
	}

	for _, rule := range c.rules {
		for _, prefix := range rule.Prefixes {
			if strings.HasPrefix(code, prefix) {
				return rule.Category
			}
		}
	}

	if c.useKeywords && description != "" {
		desc := strings.ToLower(description)
		for _, rule := range c.rules {
			for _, kw := range rule.Keywords {
				if strings.Contains(desc, kw) {
					return rule.Category
				}
			}
		}
	}

	return model.CategoryOther
}

// DefaultRules returns the rule table for the livestock-farm chart of
// accounts this tool was built around. Order matters: earlier rules win
// prefix ties.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{
			Category: model.CategoryLivestock,
			Prefixes: []string{"1445"}, // semovientes
			Keywords: []string{"ganado", "semoviente", "vaca", "toro", "bovino", "animal"},
		},
		{
			Category: model.CategoryPastures,
			Prefixes: []string{"1504"}, // terrenos
			Keywords: []string{"pradera", "pasto", "cultivo", "terreno"},
		},
		{
			Category: model.CategoryOffice,
			Prefixes: []string{"2335"}, // costos y gastos por pagar
			Keywords: []string{"oficina", "papeler", "administra"},
		},
		{
			Category: model.CategoryLegal,
			Prefixes: []string{"2365", "2370", "25"}, // retenciones y aportes
			Keywords: []string{"retenci", "impuesto", "aporte", "legal", "nómina", "nomina"},
		},
		{
			Category: model.CategoryImprovements,
			Prefixes: []string{"1520", "1524", "1540", "1592"}, // maquinaria, equipo, flota, depreciación
			Keywords: []string{"construc", "mejora", "maquinaria", "equipo", "reparaci"},
		},
		{
			Category: model.CategoryOther,
		},
	}
}
