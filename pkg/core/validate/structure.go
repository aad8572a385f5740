package validate

import (
	"fmt"

	"finmodel/pkg/models"
)

// Issue is one structural defect found in a model.
type Issue struct {
	Statement models.StatementKind `json:"statement,omitempty"`
	LineID    string               `json:"line_id,omitempty"`
	Message   string               `json:"message"`
}

// ValidateStructure audits the invariants the mutation layer maintains:
// model-wide id uniqueness, resolvable cross-statement links, the protected
// skeleton being present, and well-formed cfs links. A freshly built
// standard model reports no issues; a hand-edited model file may.
func ValidateStructure(m *models.Model) []Issue {
	var issues []Issue

	seen := map[string]models.StatementKind{}
	for _, st := range m.Statements() {
		if st == nil {
			continue
		}
		st.Walk(func(l *models.Line, _ int) {
			if l.ID == "" {
				issues = append(issues, Issue{Statement: st.Kind, Message: fmt.Sprintf("line %q has no id", l.Label)})
				return
			}
			if prior, dup := seen[l.ID]; dup {
				issues = append(issues, Issue{Statement: st.Kind, LineID: l.ID,
					Message: fmt.Sprintf("duplicate id, first seen in %s statement", prior)})
			}
			seen[l.ID] = st.Kind

			if l.ISLink != "" {
				if _, ok := m.FindLine(models.StatementIncome, l.ISLink); !ok {
					issues = append(issues, Issue{Statement: st.Kind, LineID: l.ID,
						Message: fmt.Sprintf("is_link %q does not resolve", l.ISLink)})
				}
			}
			if l.CFSLink != nil {
				if !validSection(l.CFSLink.Section) {
					issues = append(issues, Issue{Statement: st.Kind, LineID: l.ID,
						Message: fmt.Sprintf("cfs_link has unknown section %q", l.CFSLink.Section)})
				}
				if !validImpact(l.CFSLink.Impact) {
					issues = append(issues, Issue{Statement: st.Kind, LineID: l.ID,
						Message: fmt.Sprintf("cfs_link has unknown impact %q", l.CFSLink.Impact)})
				}
			}
		})
	}

	for _, id := range missingProtectedIDs(seen) {
		issues = append(issues, Issue{LineID: id, Message: "protected skeleton line is missing"})
	}

	periods := map[string]bool{}
	for _, p := range m.Periods {
		if periods[p.Label] {
			issues = append(issues, Issue{Message: fmt.Sprintf("duplicate period %q", p.Label)})
		}
		periods[p.Label] = true
	}

	return issues
}

func missingProtectedIDs(seen map[string]models.StatementKind) []string {
	var missing []string
	for _, id := range protectedSkeleton {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// protectedSkeleton lists the ids the formula table depends on directly;
// their absence makes whole statements unevaluable.
var protectedSkeleton = []string{
	models.IDRevenue, models.IDCOGS, models.IDGrossProfit, models.IDNetIncome,
	models.IDTotalCurrentAssets, models.IDTotalNonCurrentAssets, models.IDTotalAssets,
	models.IDTotalCurrentLiab, models.IDTotalNonCurrentLiab, models.IDTotalLiabilities,
	models.IDTotalEquity, models.IDTotalLiabEquity,
	models.IDCFNetIncome, models.IDCashFromOperations, models.IDCashFromInvesting,
	models.IDCashFromFinancing, models.IDNetChangeInCash, models.IDBeginningCash, models.IDEndingCash,
}

func validSection(s models.Section) bool {
	switch s {
	case models.SectionOperating, models.SectionInvesting, models.SectionFinancing,
		models.SectionAssets, models.SectionLiabilities, models.SectionEquity:
		return true
	}
	return false
}

func validImpact(i models.Impact) bool {
	switch i {
	case models.ImpactPositive, models.ImpactNegative, models.ImpactNeutral:
		return true
	}
	return false
}
