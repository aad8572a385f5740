// Package models defines the statement tree shared by the evaluator, the
// classifier and the formula compiler: a Model holds three ordered Statements
// whose Lines form an acyclic tree, plus the side tables consumed during
// evaluation.
package models

// Kind describes how a line's value is produced.
type Kind string

const (
	// KindInput is user-entered. An input line that has children is a
	// computed total presented as an editable rollup: its value is the sum
	// of its children.
	KindInput Kind = "input"
	// KindCalculated is derived from a formula or from summing children.
	KindCalculated Kind = "calculated"
	// KindSubtotal evaluates like calculated, displayed with subtotal weight.
	KindSubtotal Kind = "subtotal"
	// KindTotal evaluates like calculated, displayed with total weight.
	KindTotal Kind = "total"
)

// ValueType controls display scaling only, never evaluation.
type ValueType string

const (
	TypeCurrency ValueType = "currency"
	TypePercent  ValueType = "percent"
	TypeCount    ValueType = "count"
)

// Section is an accounting section: operating/investing/financing on the
// Cash Flow Statement, assets/liabilities/equity on the Balance Sheet.
type Section string

const (
	SectionOperating   Section = "operating"
	SectionInvesting   Section = "investing"
	SectionFinancing   Section = "financing"
	SectionAssets      Section = "assets"
	SectionLiabilities Section = "liabilities"
	SectionEquity      Section = "equity"
)

// Category is a Balance Sheet category, inferred from position against the
// boundary-id chain.
type Category string

const (
	CategoryCurrentAssets      Category = "current_assets"
	CategoryNonCurrentAssets   Category = "non_current_assets"
	CategoryCurrentLiabilities Category = "current_liabilities"
	CategoryNonCurrentLiab     Category = "non_current_liabilities"
	CategoryEquity             Category = "equity"
)

// Impact is the cash-flow sign a line carries: positive means the stored
// magnitude adds to cash, negative means it consumes cash, neutral is
// excluded from section sums.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// CFSLink binds a line to a Cash Flow section and sign. When present it is
// authoritative and short-circuits positional classification.
type CFSLink struct {
	Section     Section `json:"section"`
	Impact      Impact  `json:"impact"`
	Description string  `json:"description,omitempty"`
	Inferred    bool    `json:"inferred,omitempty"`
}

// Line is one node of the statement tree: a row in a financial statement.
// A Line exclusively owns its children; the tree is acyclic by construction
// and the mutation layer keeps it so.
type Line struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Kind      Kind               `json:"kind"`
	ValueType ValueType          `json:"value_type"`
	Values    map[string]float64 `json:"values,omitempty"`
	Children  []*Line            `json:"children,omitempty"`
	CFSLink   *CFSLink           `json:"cfs_link,omitempty"`
	// ISLink points to a related Income Statement line, display only.
	ISLink string `json:"is_link,omitempty"`
}

// Value returns the stored amount for a period, defaulting to 0.
func (l *Line) Value(period string) float64 {
	if l.Values == nil {
		return 0
	}
	return l.Values[period]
}

// SetValue stores an amount for a period.
func (l *Line) SetValue(period string, v float64) {
	if l.Values == nil {
		l.Values = make(map[string]float64)
	}
	l.Values[period] = v
}

// Contains reports whether id is l itself or anywhere in l's subtree.
func (l *Line) Contains(id string) bool {
	if l.ID == id {
		return true
	}
	for _, c := range l.Children {
		if c.Contains(id) {
			return true
		}
	}
	return false
}

// Walk visits l and its subtree depth-first, parents before children.
func (l *Line) Walk(fn func(line *Line, depth int)) {
	l.walk(0, fn)
}

func (l *Line) walk(depth int, fn func(line *Line, depth int)) {
	fn(l, depth)
	for _, c := range l.Children {
		c.walk(depth+1, fn)
	}
}

// StatementKind identifies one of the three statements.
type StatementKind string

const (
	StatementIncome   StatementKind = "income"
	StatementBalance  StatementKind = "balance"
	StatementCashFlow StatementKind = "cashflow"
	// StatementBalanceCheck addresses the exported balance-check block; it
	// exists only as a logical cell namespace for the compiler and sinks.
	StatementBalanceCheck StatementKind = "balance_check"
)

// Statement is an ordered sequence of top-level lines. Order is semantically
// meaningful: section and category membership is inferred from position
// relative to the boundary ids.
type Statement struct {
	Kind  StatementKind `json:"kind"`
	Lines []*Line       `json:"lines"`
}

// Find returns the line with the given id anywhere in the statement tree.
func (s *Statement) Find(id string) (*Line, bool) {
	for _, top := range s.Lines {
		if found, ok := findIn(top, id); ok {
			return found, true
		}
	}
	return nil, false
}

func findIn(l *Line, id string) (*Line, bool) {
	if l.ID == id {
		return l, true
	}
	for _, c := range l.Children {
		if found, ok := findIn(c, id); ok {
			return found, true
		}
	}
	return nil, false
}

// IndexOf returns the top-level index of id, or -1. Only top-level lines
// participate in positional classification directly.
func (s *Statement) IndexOf(id string) int {
	for i, l := range s.Lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// TopIndexOf returns the top-level index of the line owning id: the index of
// id itself when top-level, otherwise of its top-level ancestor. Nested lines
// classify with their ancestor.
func (s *Statement) TopIndexOf(id string) int {
	for i, l := range s.Lines {
		if l.Contains(id) {
			return i
		}
	}
	return -1
}

// Parent returns the line whose Children contain id, or nil for top-level
// and unknown ids.
func (s *Statement) Parent(id string) *Line {
	var parent *Line
	s.Walk(func(l *Line, _ int) {
		for _, c := range l.Children {
			if c.ID == id {
				parent = l
			}
		}
	})
	return parent
}

// Walk visits every line in statement order, parents before children.
func (s *Statement) Walk(fn func(line *Line, depth int)) {
	for _, l := range s.Lines {
		l.Walk(fn)
	}
}

// Period is one column of the model. Historical periods are closed facts;
// projected periods are re-derived on every recomputation.
type Period struct {
	Label      string `json:"label"`
	Historical bool   `json:"historical,omitempty"`
}

// ScheduleEntry is one row of a side table: a labelled per-period series.
type ScheduleEntry struct {
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values,omitempty"`
}

// DASchedule locates depreciation and amortization per asset category. A
// category located in "cogs" is already embedded in cost of goods sold and
// is excluded from the standalone D&A line to avoid double counting.
type DASchedule struct {
	Entries  []ScheduleEntry   `json:"entries,omitempty"`
	Location map[string]string `json:"location,omitempty"` // entry label -> "cogs" | "operating_expenses" | "separate"
}

// Model is the unit of consistency: the three statements plus the side
// tables and metadata every evaluation and compiled formula is defined
// against. Lines in one statement reference lines in another, so nothing
// smaller than the whole Model evaluates meaningfully.
type Model struct {
	Income   *Statement `json:"income"`
	Balance  *Statement `json:"balance"`
	CashFlow *Statement `json:"cashflow"`

	Periods  []Period `json:"periods"`
	Currency string   `json:"currency,omitempty"`

	// Compensation breaks the compensation line down per category.
	Compensation map[string][]ScheduleEntry `json:"compensation,omitempty"`
	// Depreciation feeds the depreciation_amortization line.
	Depreciation *DASchedule `json:"depreciation,omitempty"`
}

// Statement returns the statement of the given kind, nil for the check block.
func (m *Model) Statement(kind StatementKind) *Statement {
	switch kind {
	case StatementIncome:
		return m.Income
	case StatementBalance:
		return m.Balance
	case StatementCashFlow:
		return m.CashFlow
	}
	return nil
}

// Statements returns the three statements in presentation order.
func (m *Model) Statements() []*Statement {
	return []*Statement{m.Income, m.Balance, m.CashFlow}
}

// FindLine locates a line in the named statement.
func (m *Model) FindLine(kind StatementKind, id string) (*Line, bool) {
	st := m.Statement(kind)
	if st == nil {
		return nil, false
	}
	return st.Find(id)
}

// Value returns the stored amount of a line, 0 when the line is missing.
func (m *Model) Value(kind StatementKind, id, period string) float64 {
	if l, ok := m.FindLine(kind, id); ok {
		return l.Value(period)
	}
	return 0
}

// PrevPeriod returns the label of the period preceding the given one.
func (m *Model) PrevPeriod(period string) (string, bool) {
	for i, p := range m.Periods {
		if p.Label == period && i > 0 {
			return m.Periods[i-1].Label, true
		}
	}
	return "", false
}

// IsHistorical reports whether the named period is a closed historical one.
func (m *Model) IsHistorical(period string) bool {
	for _, p := range m.Periods {
		if p.Label == period {
			return p.Historical
		}
	}
	return false
}

// ProjectedPeriods returns the labels of the non-historical periods.
func (m *Model) ProjectedPeriods() []string {
	var out []string
	for _, p := range m.Periods {
		if !p.Historical {
			out = append(out, p.Label)
		}
	}
	return out
}

// Normalize fills in nil maps and empty statements after deserialization so
// callers never have to nil-check structural fields.
func (m *Model) Normalize() {
	if m.Income == nil {
		m.Income = &Statement{Kind: StatementIncome}
	}
	if m.Balance == nil {
		m.Balance = &Statement{Kind: StatementBalance}
	}
	if m.CashFlow == nil {
		m.CashFlow = &Statement{Kind: StatementCashFlow}
	}
	m.Income.Kind = StatementIncome
	m.Balance.Kind = StatementBalance
	m.CashFlow.Kind = StatementCashFlow
	for _, st := range m.Statements() {
		st.Walk(func(l *Line, _ int) {
			if l.Values == nil {
				l.Values = make(map[string]float64)
			}
			if l.Kind == "" {
				l.Kind = KindInput
			}
			if l.ValueType == "" {
				l.ValueType = TypeCurrency
			}
		})
	}
}
