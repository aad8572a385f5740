package compile

import (
	"fmt"
	"sort"

	"finmodel/pkg/core/formula"
)

// Recorder is an in-memory sink that captures the compiled workbook as pure
// data. It can then replay the compiled formulas through EvalFormula, which
// is how the round-trip check compares the compilation against the in-memory
// evaluator without writing a file.
type Recorder struct {
	names    map[formula.Ref]string
	formulas map[string]string
	values   map[string]float64
	facts    map[string]float64
	formats  map[string]Format
	memo     map[string]float64
	visiting map[string]bool
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		names:    map[formula.Ref]string{},
		formulas: map[string]string{},
		values:   map[string]float64{},
		facts:    map[string]float64{},
		formats:  map[string]Format{},
		memo:     map[string]float64{},
		visiting: map[string]bool{},
	}
}

func (r *Recorder) DefineName(ref formula.Ref, name string) error {
	if prev, ok := r.names[ref]; ok && prev != name {
		return fmt.Errorf("cell %v renamed from %s to %s", ref, prev, name)
	}
	r.names[ref] = name
	return nil
}

func (r *Recorder) SetFormula(ref formula.Ref, formulaText string) error {
	name, ok := r.names[ref]
	if !ok {
		return fmt.Errorf("formula for undefined cell %v", ref)
	}
	r.formulas[name] = formulaText
	delete(r.values, name)
	return nil
}

func (r *Recorder) SetValue(ref formula.Ref, value float64) error {
	name, ok := r.names[ref]
	if !ok {
		return fmt.Errorf("value for undefined cell %v", ref)
	}
	r.values[name] = value
	delete(r.formulas, name)
	return nil
}

func (r *Recorder) SetFormat(ref formula.Ref, f Format) error {
	name, ok := r.names[ref]
	if !ok {
		return fmt.Errorf("format for undefined cell %v", ref)
	}
	r.formats[name] = f
	return nil
}

func (r *Recorder) SetFact(ref formula.Ref, name string, value float64) error {
	r.facts[name] = value
	return nil
}

// Name returns the defined name recorded for a cell.
func (r *Recorder) Name(ref formula.Ref) (string, bool) {
	name, ok := r.names[ref]
	return name, ok
}

// Formula returns the formula text recorded under a defined name.
func (r *Recorder) Formula(name string) (string, bool) {
	f, ok := r.formulas[name]
	return f, ok
}

// Format returns the display format recorded under a defined name.
func (r *Recorder) Format(name string) (Format, bool) {
	f, ok := r.formats[name]
	return f, ok
}

// Names returns every defined cell name, sorted, excluding facts.
func (r *Recorder) Names() []string {
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Evaluate resolves a defined name the way a spreadsheet would: literal
// values and facts directly, formulas recursively through their referenced
// names. Results are memoized; a reference cycle is an error, matching a
// spreadsheet's circular-reference complaint.
func (r *Recorder) Evaluate(name string) (float64, error) {
	if v, ok := r.memo[name]; ok {
		return v, nil
	}
	if r.visiting[name] {
		return 0, fmt.Errorf("circular reference through %s", name)
	}
	if v, ok := r.values[name]; ok {
		r.memo[name] = v
		return v, nil
	}
	if v, ok := r.facts[name]; ok {
		r.memo[name] = v
		return v, nil
	}
	f, ok := r.formulas[name]
	if !ok {
		return 0, fmt.Errorf("undefined name %s", name)
	}
	r.visiting[name] = true
	v, err := EvalFormula(f, r.Evaluate)
	delete(r.visiting, name)
	if err != nil {
		return 0, fmt.Errorf("evaluate %s: %w", name, err)
	}
	r.memo[name] = v
	return v, nil
}
