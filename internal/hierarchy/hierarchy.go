// Package hierarchy reconstructs the implicit chart-of-accounts forest
// among the records of one statement. Account codes encode their own
// lineage: "14" is an ancestor of "1445", which is an ancestor of
// "1445001". Relations are recomputed per record set, never persisted.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/ozcodx/mailprocessor/internal/model"
)

// IsAncestor reports whether code a is an ancestor of code b: a must be
// a strict, shorter textual prefix of b. No code is its own ancestor.
func IsAncestor(a, b string) bool {
	return len(a) < len(b) && strings.HasPrefix(b, a)
}

// Resolver holds the ancestor relations for one record set. Build it
// once per analysis and reuse it; the construction pass is O(n²) over
// the records, which is fine for single-statement row counts.
type Resolver struct {
	records   []model.AccountRecord
	ancestors map[string][]model.AccountRecord
	hasChild  map[string]bool
}

// Resolve computes ancestor links and the effective-leaf set for the
// given records.
func Resolve(records []model.AccountRecord) *Resolver {
	r := &Resolver{
		records:   records,
		ancestors: make(map[string][]model.AccountRecord, len(records)),
		hasChild:  make(map[string]bool, len(records)),
	}

	for _, child := range records {
		var anc []model.AccountRecord
		for _, parent := range records {
			if IsAncestor(parent.Code, child.Code) {
				anc = append(anc, parent)
				r.hasChild[parent.Code] = true
			}
		}
		sort.Slice(anc, func(i, j int) bool {
			return len(anc[i].Code) < len(anc[j].Code)
		})
		r.ancestors[child.Code] = anc
	}
	return r
}

// Ancestors returns the ancestors of code present in the record set,
// ordered shortest code first (root of the lineage first).
func (r *Resolver) Ancestors(code string) []model.AccountRecord {
	return r.ancestors[code]
}

// IsLeaf reports whether code has no descendants in the record set.
func (r *Resolver) IsLeaf(code string) bool {
	return !r.hasChild[code]
}

// Leaves returns the records that are not ancestors of any other record
// in the set, in input order. Summary rows whose detail rows are also
// present are excluded, which is what keeps aggregation from counting a
// parent together with its children.
func (r *Resolver) Leaves() []model.AccountRecord {
	var leaves []model.AccountRecord
	for _, rec := range r.records {
		if !r.hasChild[rec.Code] {
			leaves = append(leaves, rec)
		}
	}
	return leaves
}
