// verify_roundtrip compiles a model into the in-memory recorder, replays
// every compiled formula, and diffs the replayed numbers against the
// interpreter. Any disagreement between the two renderings of the model is a
// bug in one of them; exit status 1 reports it.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"finmodel/pkg/core/compile"
	"finmodel/pkg/core/eval"
	"finmodel/pkg/core/formula"
	"finmodel/pkg/core/modelfile"
	"finmodel/pkg/models"
)

const tolerance = 1e-6

func main() {
	modelPath := flag.String("model", "", "model file to verify; empty uses the built-in demo model")
	flag.Parse()

	var m *models.Model
	if *modelPath != "" {
		var err error
		m, err = modelfile.Load(*modelPath)
		if err != nil {
			log.Fatalf("Load failed: %v", err)
		}
	} else {
		m = models.NewDemoModel()
	}
	m.Normalize()

	for _, res := range eval.RecomputeAll(m) {
		if !res.Converged {
			log.Fatalf("Period %s did not settle; still moving: %v", res.Period, res.Unsettled)
		}
	}

	rec := compile.NewRecorder()
	if err := compile.Compile(m, rec); err != nil {
		log.Fatalf("Compile failed: %v", err)
	}

	mismatches := 0
	cells := 0
	for _, st := range m.Statements() {
		for _, p := range m.Periods {
			st.Walk(func(l *models.Line, _ int) {
				ref := formula.Ref{Statement: st.Kind, LineID: l.ID, Period: p.Label}
				name, ok := rec.Name(ref)
				if !ok {
					log.Fatalf("No compiled name for %s/%s/%s", st.Kind, l.ID, p.Label)
				}
				got, err := rec.Evaluate(name)
				if err != nil {
					log.Fatalf("Replay of %s failed: %v", name, err)
				}
				want := eval.Evaluate(l, p.Label, m)
				cells++
				if math.Abs(got-want) > tolerance {
					fmt.Printf("MISMATCH %-40s compiled %14.6f  interpreted %14.6f\n", name, got, want)
					mismatches++
				}
			})
		}
	}

	if mismatches > 0 {
		fmt.Printf("%d of %d cells disagree\n", mismatches, cells)
		os.Exit(1)
	}
	fmt.Printf("All %d cells agree\n", cells)
}
