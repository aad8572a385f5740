// Package eval is the in-memory interpreter for the statement tree. It
// computes any line from the stored state of the whole model and drives the
// bounded fixed-point recomputation that settles the cross-statement chain
// (revenue through net income, operating cash flow, net change in cash).
package eval

import (
	"sort"

	"finmodel/pkg/core/formula"
	"finmodel/pkg/models"
)

const (
	// MaxIterations bounds the fixed-point sweep. The dependency chain is
	// shallow and acyclic by convention; hitting the cap means a cyclic or
	// runaway dependency and is surfaced, never swallowed.
	MaxIterations = 10
	// Tolerance is the movement below which a line counts as settled.
	Tolerance = 1e-9
)

var table = formula.Table[float64]()

// valueBuilder resolves terms to resolved numbers against stored state.
// Formula references read the current stored values, which is what lets the
// sweep converge without a topological sort.
type valueBuilder struct {
	m *models.Model
}

func (vb valueBuilder) Ref(r formula.Ref) (float64, bool) {
	st := vb.m.Statement(r.Statement)
	if st == nil {
		return 0, false
	}
	l, ok := st.Find(r.LineID)
	if !ok {
		return 0, false
	}
	return l.Value(r.Period), true
}

func (vb valueBuilder) Const(v float64) float64 { return v }

func (vb valueBuilder) Sum(terms []float64) float64 {
	total := 0.0
	for _, t := range terms {
		total += t
	}
	return total
}

func (vb valueBuilder) Add(a, b float64) float64 { return a + b }
func (vb valueBuilder) Sub(a, b float64) float64 { return a - b }
func (vb valueBuilder) Neg(a float64) float64    { return -a }

func (vb valueBuilder) DivGuard(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Evaluate computes the value of a line for a period. It is a pure function
// of the model snapshot:
//
//   - an input line without children returns its stored value;
//   - any line with children returns the sum of its direct children only;
//   - otherwise the shared formula table is consulted by well-known id,
//     with the side-table schedules backing the compensation and D&A lines;
//   - unknown ids with no children and no rule evaluate to 0.
func Evaluate(line *models.Line, period string, m *models.Model) float64 {
	if len(line.Children) > 0 {
		total := 0.0
		for _, c := range line.Children {
			total += Evaluate(c, period, m)
		}
		return total
	}
	if line.Kind == models.KindInput {
		return line.Value(period)
	}
	if v, ok := scheduleValue(line.ID, period, m); ok {
		return v
	}
	if rule, ok := table[line.ID]; ok {
		ctx := &formula.Context{Model: m, Period: period}
		if v, ok := rule(valueBuilder{m}, ctx); ok {
			return v
		}
		// Unresolvable rule (e.g. no prior period): fall back to the
		// stored value.
		return line.Value(period)
	}
	return 0
}

// scheduleValue backs the compensation and depreciation lines with their
// side tables when the line itself has no children.
func scheduleValue(id, period string, m *models.Model) (float64, bool) {
	switch id {
	case models.IDCompensation:
		if len(m.Compensation) == 0 {
			return 0, false
		}
		total := 0.0
		for _, entries := range m.Compensation {
			for _, e := range entries {
				total += e.Values[period]
			}
		}
		return total, true
	case models.IDDepreciation:
		if m.Depreciation == nil || len(m.Depreciation.Entries) == 0 {
			return 0, false
		}
		total := 0.0
		for _, e := range m.Depreciation.Entries {
			// Amounts already embedded in COGS stay out of the
			// standalone line so they are not expensed twice.
			if m.Depreciation.Location[e.Label] == "cogs" {
				continue
			}
			total += e.Values[period]
		}
		return total, true
	}
	return 0, false
}

// Result reports one period's recomputation. When Converged is false the
// sweep hit the iteration cap with Unsettled still moving, which points at a
// cyclic or runaway dependency the caller must surface.
type Result struct {
	Period     string
	Iterations int
	Converged  bool
	Unsettled  []string
}

// Recompute settles one period: a bottom-up rollup pass stores every
// parent's children-sum (so formulas referencing the parent id see the
// rolled-up total), then bounded sweeps re-derive every calculated,
// subtotal and total line until nothing moves.
func Recompute(m *models.Model, period string) Result {
	rollUp(m, period)

	for iter := 1; iter <= MaxIterations; iter++ {
		changed := sweep(m, period)
		if len(changed) == 0 {
			return Result{Period: period, Iterations: iter, Converged: true}
		}
		if iter == MaxIterations {
			sort.Strings(changed)
			return Result{Period: period, Iterations: iter, Converged: false, Unsettled: changed}
		}
	}
	return Result{Period: period, Converged: true}
}

// RecomputeAll settles every projected period in order. Historical periods
// are closed facts and are left untouched.
func RecomputeAll(m *models.Model) []Result {
	var results []Result
	for _, period := range m.ProjectedPeriods() {
		results = append(results, Recompute(m, period))
	}
	return results
}

// sweep re-derives every derived line once and refreshes parent rollups,
// returning the ids that moved beyond tolerance. The statement order
// (income, cash flow, balance) matches the dependency direction so a
// settled model converges in two sweeps.
func sweep(m *models.Model, period string) []string {
	var changed []string
	for _, st := range []*models.Statement{m.Income, m.CashFlow, m.Balance} {
		if st == nil {
			continue
		}
		st.Walk(func(l *models.Line, _ int) {
			if len(l.Children) > 0 || l.Kind == models.KindInput {
				return
			}
			v := Evaluate(l, period, m)
			if delta(v, l.Value(period)) > Tolerance {
				l.SetValue(period, v)
				changed = append(changed, l.ID)
			}
		})
		changed = append(changed, rollUpStatement(st, period)...)
	}
	return changed
}

// rollUp stores children-sums on every parent, bottom-up.
func rollUp(m *models.Model, period string) {
	for _, st := range m.Statements() {
		if st != nil {
			rollUpStatement(st, period)
		}
	}
}

func rollUpStatement(st *models.Statement, period string) []string {
	var changed []string
	var visit func(l *models.Line) float64
	visit = func(l *models.Line) float64 {
		if len(l.Children) == 0 {
			return l.Value(period)
		}
		total := 0.0
		for _, c := range l.Children {
			total += visit(c)
		}
		if delta(total, l.Value(period)) > Tolerance {
			l.SetValue(period, total)
			changed = append(changed, l.ID)
		}
		return total
	}
	for _, l := range st.Lines {
		visit(l)
	}
	return changed
}

func delta(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
