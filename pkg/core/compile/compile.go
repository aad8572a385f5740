// Package compile re-expresses the model's dependency graph as spreadsheet
// formulas addressed through reorder-safe named cells. It mirrors the
// in-memory evaluator formula-for-formula because both consume the one
// shared rule table; when a cell cannot be resolved into a formula it falls
// back to the evaluator's literal so the exported number is still right.
package compile

import (
	"fmt"
	"strconv"
	"strings"

	"finmodel/pkg/core/eval"
	"finmodel/pkg/core/formula"
	"finmodel/pkg/models"
)

// Balance-check block line ids, addressed under StatementBalanceCheck.
const (
	CheckAssets     = "check_assets"
	CheckLiabEquity = "check_liabilities_equity"
	CheckDifference = "check_difference"
	CheckBalanced   = "check_balanced"
)

// checkTolerance matches the balance checker's working-unit tolerance.
const checkTolerance = "0.01"

// Format carries the display hints a sink may honor. The sink owns physical
// styling; the compiler only states what the cell is.
type Format struct {
	ValueType models.ValueType
	Kind      models.Kind
}

// Sink is the abstract spreadsheet writer. The sink owns physical layout
// (rows, columns, headers); the compiler supplies only logical cell identity
// and formula text. Formula text is passed with a leading "=".
type Sink interface {
	DefineName(ref formula.Ref, name string) error
	SetFormula(ref formula.Ref, formulaText string) error
	SetValue(ref formula.Ref, value float64) error
	SetFormat(ref formula.Ref, f Format) error
}

// FactSink is implemented by sinks that carry a historical facts area.
// Historical cells then compile as references into it instead of literals.
type FactSink interface {
	SetFact(ref formula.Ref, name string, value float64) error
}

// refBuilder resolves terms to reference expressions over defined names.
type refBuilder struct {
	m *models.Model
}

func (rb refBuilder) Ref(r formula.Ref) (string, bool) {
	st := rb.m.Statement(r.Statement)
	if st == nil {
		return "", false
	}
	if _, ok := st.Find(r.LineID); !ok {
		return "", false
	}
	return Name(r), true
}

func (rb refBuilder) Const(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (rb refBuilder) Sum(terms []string) string {
	return "SUM(" + strings.Join(terms, ",") + ")"
}

func (rb refBuilder) Add(a, b string) string { return "(" + a + "+" + b + ")" }
func (rb refBuilder) Sub(a, b string) string { return "(" + a + "-" + b + ")" }
func (rb refBuilder) Neg(a string) string    { return "(-" + a + ")" }

func (rb refBuilder) DivGuard(num, den string) string {
	return "IF(" + den + "=0,0," + num + "/" + den + ")"
}

var ruleTable = formula.Table[string]()

// Compile walks the frozen model once and emits every cell into the sink:
// defined names first, then values and formulas statement by statement, then
// the balance-check block. The model must be recomputed before compiling so
// literal fallbacks carry settled numbers.
func Compile(m *models.Model, sink Sink) error {
	if err := defineNames(m, sink); err != nil {
		return err
	}
	for _, st := range m.Statements() {
		for _, p := range m.Periods {
			if err := compileStatement(m, st, p, sink); err != nil {
				return err
			}
		}
	}
	return compileBalanceCheck(m, sink)
}

func defineNames(m *models.Model, sink Sink) error {
	for _, st := range m.Statements() {
		var err error
		st.Walk(func(l *models.Line, _ int) {
			if err != nil {
				return
			}
			for _, p := range m.Periods {
				ref := formula.Ref{Statement: st.Kind, LineID: l.ID, Period: p.Label}
				if e := sink.DefineName(ref, Name(ref)); e != nil {
					err = fmt.Errorf("define name for %s/%s: %w", l.ID, p.Label, e)
				}
			}
		})
		if err != nil {
			return err
		}
	}
	for _, p := range m.Periods {
		for _, id := range []string{CheckAssets, CheckLiabEquity, CheckDifference, CheckBalanced} {
			ref := formula.Ref{Statement: models.StatementBalanceCheck, LineID: id, Period: p.Label}
			if err := sink.DefineName(ref, Name(ref)); err != nil {
				return fmt.Errorf("define balance check name: %w", err)
			}
		}
	}
	return nil
}

func compileStatement(m *models.Model, st *models.Statement, p models.Period, sink Sink) error {
	var err error
	st.Walk(func(l *models.Line, _ int) {
		if err != nil {
			return
		}
		ref := formula.Ref{Statement: st.Kind, LineID: l.ID, Period: p.Label}
		if e := compileCell(m, st, l, ref, p, sink); e != nil {
			err = fmt.Errorf("compile %s %s/%s: %w", st.Kind, l.ID, p.Label, e)
			return
		}
		if e := sink.SetFormat(ref, Format{ValueType: l.ValueType, Kind: l.Kind}); e != nil {
			err = fmt.Errorf("format %s/%s: %w", l.ID, p.Label, e)
		}
	})
	return err
}

func compileCell(m *models.Model, st *models.Statement, l *models.Line, ref formula.Ref, p models.Period, sink Sink) error {
	// Historical periods are closed facts, not derivations: reference the
	// facts area when the sink has one, otherwise snapshot the literal.
	if p.Historical {
		v := eval.Evaluate(l, p.Label, m)
		if facts, ok := sink.(FactSink); ok {
			if err := facts.SetFact(ref, FactName(ref), v); err != nil {
				return err
			}
			return sink.SetFormula(ref, "="+FactName(ref))
		}
		return sink.SetValue(ref, v)
	}

	// A line with children is a spreadsheet sum of the children's names,
	// whatever its kind: an input parent is a computed rollup.
	if len(l.Children) > 0 {
		names := make([]string, 0, len(l.Children))
		for _, c := range l.Children {
			names = append(names, Name(formula.Ref{Statement: st.Kind, LineID: c.ID, Period: p.Label}))
		}
		return sink.SetFormula(ref, "=SUM("+strings.Join(names, ",")+")")
	}

	// Stored inputs stay editable values in the export.
	if l.Kind == models.KindInput {
		return sink.SetValue(ref, l.Value(p.Label))
	}

	if rule, ok := ruleTable[l.ID]; ok {
		ctx := &formula.Context{Model: m, Period: p.Label}
		if expr, ok := rule(refBuilder{m}, ctx); ok {
			return sink.SetFormula(ref, "="+expr)
		}
	}

	// No rule, or a dependency is missing: a correct number beats a live
	// formula, so write the evaluator's literal.
	return sink.SetValue(ref, eval.Evaluate(l, p.Label, m))
}

// compileBalanceCheck emits the visible balance-check block. Its formulas
// reference the same compiled total cells the statements use, so the block
// can never disagree with the sheet it checks.
func compileBalanceCheck(m *models.Model, sink Sink) error {
	for _, p := range m.Periods {
		assets := Name(formula.Ref{Statement: models.StatementBalance, LineID: models.IDTotalAssets, Period: p.Label})
		liabEquity := Name(formula.Ref{Statement: models.StatementBalance, LineID: models.IDTotalLiabEquity, Period: p.Label})

		cells := []struct {
			id      string
			formula string
			format  Format
		}{
			{CheckAssets, "=" + assets, Format{ValueType: models.TypeCurrency, Kind: models.KindTotal}},
			{CheckLiabEquity, "=" + liabEquity, Format{ValueType: models.TypeCurrency, Kind: models.KindTotal}},
			{CheckDifference, "=(" + assets + "-" + liabEquity + ")", Format{ValueType: models.TypeCurrency, Kind: models.KindCalculated}},
			{CheckBalanced, "=ABS(" + assets + "-" + liabEquity + ")<" + checkTolerance, Format{ValueType: models.TypeCount, Kind: models.KindCalculated}},
		}
		for _, c := range cells {
			ref := formula.Ref{Statement: models.StatementBalanceCheck, LineID: c.id, Period: p.Label}
			if err := sink.SetFormula(ref, c.formula); err != nil {
				return fmt.Errorf("balance check %s/%s: %w", c.id, p.Label, err)
			}
			if err := sink.SetFormat(ref, c.format); err != nil {
				return fmt.Errorf("balance check format %s/%s: %w", c.id, p.Label, err)
			}
		}
	}
	return nil
}
