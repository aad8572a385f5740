// Package classify maps a line to its accounting section and Balance Sheet
// category. Explicit cfs links win; a small set of reserved boundary ids is
// assigned by identity; everything else is positional, so moving a line
// across a boundary re-files it. Results must never be cached across a
// structural mutation.
package classify

import (
	"finmodel/pkg/models"
)

// cfBoundaries close the Cash Flow sections in statement order.
var cfBoundaries = []struct {
	ID      string
	Section models.Section
}{
	{models.IDCashFromOperations, models.SectionOperating},
	{models.IDCashFromInvesting, models.SectionInvesting},
	{models.IDCashFromFinancing, models.SectionFinancing},
}

// bsBoundaries close the Balance Sheet categories in statement order. The
// grand totals are listed so positional scans skip past them, but they do
// not open a category of their own.
var bsBoundaries = []struct {
	ID       string
	Category models.Category
}{
	{models.IDTotalCurrentAssets, models.CategoryCurrentAssets},
	{models.IDTotalNonCurrentAssets, models.CategoryNonCurrentAssets},
	{models.IDTotalAssets, ""},
	{models.IDTotalCurrentLiab, models.CategoryCurrentLiabilities},
	{models.IDTotalNonCurrentLiab, models.CategoryNonCurrentLiab},
	{models.IDTotalLiabilities, ""},
	{models.IDTotalEquity, models.CategoryEquity},
	{models.IDTotalLiabEquity, ""},
}

var categorySections = map[models.Category]models.Section{
	models.CategoryCurrentAssets:      models.SectionAssets,
	models.CategoryNonCurrentAssets:   models.SectionAssets,
	models.CategoryCurrentLiabilities: models.SectionLiabilities,
	models.CategoryNonCurrentLiab:     models.SectionLiabilities,
	models.CategoryEquity:             models.SectionEquity,
}

// SectionOf returns the accounting section a line belongs to. The second
// return is false for lines outside any section, such as the Cash Flow
// net-change block or Income Statement lines.
func SectionOf(id string, st *models.Statement) (models.Section, bool) {
	if st == nil {
		return "", false
	}
	if l, ok := st.Find(id); ok && l.CFSLink != nil && l.CFSLink.Section != "" {
		return l.CFSLink.Section, true
	}

	switch st.Kind {
	case models.StatementCashFlow:
		return cfSectionOf(id, st)
	case models.StatementBalance:
		switch id {
		case models.IDTotalAssets:
			return models.SectionAssets, true
		case models.IDTotalLiabilities:
			return models.SectionLiabilities, true
		case models.IDTotalLiabEquity:
			return "", false
		}
		cat, ok := CategoryOf(id, st)
		if !ok {
			return "", false
		}
		return categorySections[cat], true
	}
	return "", false
}

func cfSectionOf(id string, st *models.Statement) (models.Section, bool) {
	for _, b := range cfBoundaries {
		if id == b.ID {
			return b.Section, true
		}
	}
	idx := st.TopIndexOf(id)
	if idx < 0 {
		return "", false
	}
	for _, b := range cfBoundaries {
		bIdx := st.IndexOf(b.ID)
		if bIdx >= 0 && idx < bIdx {
			return b.Section, true
		}
	}
	// Past the financing boundary: the net-change block has no section.
	return "", false
}

// CategoryOf returns the Balance Sheet category a line falls in, derived
// from its position against the boundary chain. Grand totals report no
// category.
func CategoryOf(id string, st *models.Statement) (models.Category, bool) {
	if st == nil || st.Kind != models.StatementBalance {
		return "", false
	}
	for _, b := range bsBoundaries {
		if id == b.ID {
			if b.Category == "" {
				return "", false
			}
			return b.Category, true
		}
	}
	idx := st.TopIndexOf(id)
	if idx < 0 {
		return "", false
	}
	for _, b := range bsBoundaries {
		bIdx := st.IndexOf(b.ID)
		if bIdx >= 0 && idx < bIdx {
			if b.Category == "" {
				// Positioned between a subtotal and its grand total;
				// file with the nearest following category.
				continue
			}
			return b.Category, true
		}
	}
	return "", false
}

// SubtotalMembers returns, in order, the ids of the top-level lines a
// positional subtotal sums: every non-subtotal line between the previous
// boundary id (or the start of the statement) and the subtotal itself.
func SubtotalMembers(st *models.Statement, subtotalID string) []string {
	if st == nil {
		return nil
	}
	end := st.IndexOf(subtotalID)
	if end < 0 {
		return nil
	}
	start := 0
	for _, b := range boundaryIDs(st.Kind) {
		if b == subtotalID {
			continue
		}
		idx := st.IndexOf(b)
		if idx >= 0 && idx < end && idx+1 > start {
			start = idx + 1
		}
	}
	var members []string
	for _, l := range st.Lines[start:end] {
		if l.Kind == models.KindSubtotal || l.Kind == models.KindTotal {
			continue
		}
		members = append(members, l.ID)
	}
	return members
}

// Boundaries returns the reserved boundary ids of a statement kind, in
// statement order.
func Boundaries(kind models.StatementKind) []string {
	return boundaryIDs(kind)
}

func boundaryIDs(kind models.StatementKind) []string {
	switch kind {
	case models.StatementBalance:
		ids := make([]string, len(bsBoundaries))
		for i, b := range bsBoundaries {
			ids[i] = b.ID
		}
		return ids
	case models.StatementCashFlow:
		ids := make([]string, len(cfBoundaries))
		for i, b := range cfBoundaries {
			ids[i] = b.ID
		}
		return ids
	}
	return nil
}
