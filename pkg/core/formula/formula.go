// Package formula holds the single table of named line formulas shared by
// the in-memory evaluator and the spreadsheet formula compiler. Each rule is
// written against an abstract term builder, so the interpreter instantiates
// the table with float64 terms and the compiler with reference-expression
// strings; the two can never drift because there is only one table.
package formula

import (
	"finmodel/pkg/core/classify"
	"finmodel/pkg/models"
)

// Ref identifies a logical cell: one line of one statement for one period.
type Ref struct {
	Statement models.StatementKind
	LineID    string
	Period    string
}

// Builder constructs terms for one evaluator. Ref reports false when the
// referenced line does not exist in the model, which callers surface as an
// unresolvable formula.
type Builder[T any] interface {
	Ref(r Ref) (T, bool)
	Const(v float64) T
	Sum(terms []T) T
	Add(a, b T) T
	Sub(a, b T) T
	Neg(a T) T
	// DivGuard divides with a zero guard: the result is 0 when the
	// denominator is 0, in both evaluators.
	DivGuard(num, den T) T
}

// Rule produces the term for one well-known line in one period. The second
// return is false when the rule cannot resolve (a missing dependency, or no
// prior period for an opening balance); the interpreter then falls back to
// the stored value and the compiler to a literal.
type Rule[T any] func(b Builder[T], ctx *Context) (T, bool)

// Context gives rules positional access to the model for one period. It
// re-derives every span and section from the current statement order, so a
// reorder is picked up by the very next evaluation.
type Context struct {
	Model  *models.Model
	Period string
}

// IS, BS and CF build same-period refs into the three statements.
func (c *Context) IS(id string) Ref {
	return Ref{Statement: models.StatementIncome, LineID: id, Period: c.Period}
}
func (c *Context) BS(id string) Ref {
	return Ref{Statement: models.StatementBalance, LineID: id, Period: c.Period}
}
func (c *Context) CF(id string) Ref {
	return Ref{Statement: models.StatementCashFlow, LineID: id, Period: c.Period}
}

// Span returns refs for the top-level lines strictly between two ids,
// skipping percent lines (they are display ratios, not amounts). Lines that
// are children of an already-summed parent never appear here, which is what
// keeps a nested expense from being subtracted twice.
func (c *Context) Span(kind models.StatementKind, fromID, toID string) []Ref {
	st := c.Model.Statement(kind)
	if st == nil {
		return nil
	}
	from, to := st.IndexOf(fromID), st.IndexOf(toID)
	if from < 0 || to < 0 || to <= from+1 {
		return nil
	}
	var refs []Ref
	for _, l := range st.Lines[from+1 : to] {
		if l.ValueType == models.TypePercent {
			continue
		}
		refs = append(refs, Ref{Statement: kind, LineID: l.ID, Period: c.Period})
	}
	return refs
}

// SubtotalRefs returns refs for the members of a positional Balance Sheet
// subtotal, re-derived from the current order.
func (c *Context) SubtotalRefs(subtotalID string) []Ref {
	st := c.Model.Statement(models.StatementBalance)
	ids := classify.SubtotalMembers(st, subtotalID)
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, c.BS(id))
	}
	return refs
}

// SignedRef is a section member together with its cash impact sign.
type SignedRef struct {
	Ref      Ref
	Negative bool
}

// SectionRefs returns the signed members of a Cash Flow section: the
// top-level non-subtotal lines positioned in the section, signed by their
// cfs link impact. Neutral lines are excluded; a missing link counts
// positive.
func (c *Context) SectionRefs(section models.Section) []SignedRef {
	st := c.Model.Statement(models.StatementCashFlow)
	if st == nil {
		return nil
	}
	var members []SignedRef
	for _, l := range st.Lines {
		if l.Kind == models.KindSubtotal || l.Kind == models.KindTotal {
			continue
		}
		sec, ok := classify.SectionOf(l.ID, st)
		if !ok || sec != section {
			continue
		}
		neg := false
		if l.CFSLink != nil {
			switch l.CFSLink.Impact {
			case models.ImpactNegative:
				neg = true
			case models.ImpactNeutral:
				continue
			}
		}
		members = append(members, SignedRef{Ref: Ref{Statement: models.StatementCashFlow, LineID: l.ID, Period: c.Period}, Negative: neg})
	}
	return members
}

// PrevPeriod returns the label of the preceding period, if any.
func (c *Context) PrevPeriod() (string, bool) {
	return c.Model.PrevPeriod(c.Period)
}

// =============================================================================
// THE FORMULA TABLE
// One named rule per well-known id. Spans and subtotal ranges are positional
// on purpose: reordering lines re-files them into the neighboring formula.
// =============================================================================

// Table returns the shared rule set instantiated for a term type.
func Table[T any]() map[string]Rule[T] {
	return map[string]Rule[T]{
		// ---- Income Statement ----
		models.IDGrossProfit: func(b Builder[T], ctx *Context) (T, bool) {
			return sub2(b, ctx.IS(models.IDRevenue), ctx.IS(models.IDCOGS))
		},
		models.IDGrossMargin: func(b Builder[T], ctx *Context) (T, bool) {
			return divGuard2(b, ctx.IS(models.IDGrossProfit), ctx.IS(models.IDRevenue))
		},
		models.IDEBITDA: func(b Builder[T], ctx *Context) (T, bool) {
			return refMinusSpan(b, ctx, models.IDGrossProfit, models.IDEBITDA)
		},
		models.IDEBIT: func(b Builder[T], ctx *Context) (T, bool) {
			return refMinusSpan(b, ctx, models.IDEBITDA, models.IDEBIT)
		},
		models.IDIncomeBeforeTax: func(b Builder[T], ctx *Context) (T, bool) {
			return refMinusSpan(b, ctx, models.IDEBIT, models.IDIncomeBeforeTax)
		},
		models.IDNetIncome: func(b Builder[T], ctx *Context) (T, bool) {
			return refMinusSpan(b, ctx, models.IDIncomeBeforeTax, models.IDNetIncome)
		},
		models.IDNetMargin: func(b Builder[T], ctx *Context) (T, bool) {
			return divGuard2(b, ctx.IS(models.IDNetIncome), ctx.IS(models.IDRevenue))
		},

		// ---- Balance Sheet ----
		models.IDCash: func(b Builder[T], ctx *Context) (T, bool) {
			return b.Ref(ctx.CF(models.IDEndingCash))
		},
		models.IDTotalCurrentAssets:    subtotalRule[T](models.IDTotalCurrentAssets),
		models.IDTotalNonCurrentAssets: subtotalRule[T](models.IDTotalNonCurrentAssets),
		models.IDTotalCurrentLiab:      subtotalRule[T](models.IDTotalCurrentLiab),
		models.IDTotalNonCurrentLiab:   subtotalRule[T](models.IDTotalNonCurrentLiab),
		models.IDTotalEquity:           subtotalRule[T](models.IDTotalEquity),
		models.IDTotalAssets: func(b Builder[T], ctx *Context) (T, bool) {
			return add2(b, ctx.BS(models.IDTotalCurrentAssets), ctx.BS(models.IDTotalNonCurrentAssets))
		},
		models.IDTotalLiabilities: func(b Builder[T], ctx *Context) (T, bool) {
			return add2(b, ctx.BS(models.IDTotalCurrentLiab), ctx.BS(models.IDTotalNonCurrentLiab))
		},
		models.IDTotalLiabEquity: func(b Builder[T], ctx *Context) (T, bool) {
			return add2(b, ctx.BS(models.IDTotalLiabilities), ctx.BS(models.IDTotalEquity))
		},

		// ---- Cash Flow ----
		models.IDCFNetIncome: func(b Builder[T], ctx *Context) (T, bool) {
			return b.Ref(ctx.IS(models.IDNetIncome))
		},
		models.IDCFDepreciation: func(b Builder[T], ctx *Context) (T, bool) {
			return b.Ref(ctx.IS(models.IDDepreciation))
		},
		models.IDCashFromOperations: sectionRule[T](models.SectionOperating),
		models.IDCashFromInvesting:  sectionRule[T](models.SectionInvesting),
		models.IDCashFromFinancing:  sectionRule[T](models.SectionFinancing),
		models.IDNetChangeInCash: func(b Builder[T], ctx *Context) (T, bool) {
			ops, ok1 := b.Ref(ctx.CF(models.IDCashFromOperations))
			inv, ok2 := b.Ref(ctx.CF(models.IDCashFromInvesting))
			fin, ok3 := b.Ref(ctx.CF(models.IDCashFromFinancing))
			if !ok1 || !ok2 || !ok3 {
				var zero T
				return zero, false
			}
			return b.Add(b.Add(ops, inv), fin), true
		},
		models.IDBeginningCash: func(b Builder[T], ctx *Context) (T, bool) {
			prev, ok := ctx.PrevPeriod()
			if !ok {
				// First period: the opening balance is a stored fact.
				var zero T
				return zero, false
			}
			return b.Ref(Ref{Statement: models.StatementCashFlow, LineID: models.IDEndingCash, Period: prev})
		},
		models.IDEndingCash: func(b Builder[T], ctx *Context) (T, bool) {
			return add2(b, ctx.CF(models.IDBeginningCash), ctx.CF(models.IDNetChangeInCash))
		},
	}
}

// refMinusSpan builds from − Σ(lines between from and target): the shape of
// the whole income statement waterfall.
func refMinusSpan[T any](b Builder[T], ctx *Context, fromID, targetID string) (T, bool) {
	var zero T
	head, ok := b.Ref(ctx.IS(fromID))
	if !ok {
		return zero, false
	}
	out := head
	for _, r := range ctx.Span(models.StatementIncome, fromID, targetID) {
		t, ok := b.Ref(r)
		if !ok {
			return zero, false
		}
		out = b.Sub(out, t)
	}
	return out, true
}

func subtotalRule[T any](subtotalID string) Rule[T] {
	return func(b Builder[T], ctx *Context) (T, bool) {
		var zero T
		refs := ctx.SubtotalRefs(subtotalID)
		if len(refs) == 0 {
			return zero, false
		}
		terms := make([]T, 0, len(refs))
		for _, r := range refs {
			t, ok := b.Ref(r)
			if !ok {
				return zero, false
			}
			terms = append(terms, t)
		}
		return b.Sum(terms), true
	}
}

func sectionRule[T any](section models.Section) Rule[T] {
	return func(b Builder[T], ctx *Context) (T, bool) {
		var zero T
		members := ctx.SectionRefs(section)
		if len(members) == 0 {
			return zero, false
		}
		out := b.Const(0)
		first := true
		for _, m := range members {
			t, ok := b.Ref(m.Ref)
			if !ok {
				return zero, false
			}
			switch {
			case first && !m.Negative:
				out = t
			case first && m.Negative:
				out = b.Neg(t)
			case m.Negative:
				out = b.Sub(out, t)
			default:
				out = b.Add(out, t)
			}
			first = false
		}
		return out, true
	}
}

func add2[T any](b Builder[T], x, y Ref) (T, bool) {
	var zero T
	a, ok1 := b.Ref(x)
	c, ok2 := b.Ref(y)
	if !ok1 || !ok2 {
		return zero, false
	}
	return b.Add(a, c), true
}

func sub2[T any](b Builder[T], x, y Ref) (T, bool) {
	var zero T
	a, ok1 := b.Ref(x)
	c, ok2 := b.Ref(y)
	if !ok1 || !ok2 {
		return zero, false
	}
	return b.Sub(a, c), true
}

func divGuard2[T any](b Builder[T], num, den Ref) (T, bool) {
	var zero T
	n, ok1 := b.Ref(num)
	d, ok2 := b.Ref(den)
	if !ok1 || !ok2 {
		return zero, false
	}
	return b.DivGuard(n, d), true
}
