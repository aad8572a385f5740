package balance

import (
	"math"
	"testing"

	"finmodel/pkg/core/eval"
	"finmodel/pkg/models"
)

func TestDemoModelBalances(t *testing.T) {
	m := models.NewDemoModel()
	for _, res := range eval.RecomputeAll(m) {
		if !res.Converged {
			t.Fatalf("period %s did not converge", res.Period)
		}
	}

	checks := Check(m, DefaultTolerance)
	if len(checks) != 2 {
		t.Fatalf("got %d period checks, want 2", len(checks))
	}
	for _, c := range checks {
		if !c.Balanced {
			t.Errorf("period %s off by %v (assets %v, liab+equity %v)",
				c.Period, c.Difference, c.Assets, c.LiabilitiesEquity)
		}
	}
}

func TestPerturbedModelReportsImbalance(t *testing.T) {
	m := models.NewDemoModel()
	eval.RecomputeAll(m)

	l, _ := m.FindLine(models.StatementBalance, models.IDGoodwill)
	l.SetValue("FY2024", l.Value("FY2024")+5)
	eval.Recompute(m, "FY2024")

	var fy2024 PeriodCheck
	for _, c := range Check(m, DefaultTolerance) {
		if c.Period == "FY2024" {
			fy2024 = c
		}
	}
	if fy2024.Balanced {
		t.Fatal("inflated goodwill should break the identity")
	}
	if math.Abs(fy2024.Difference-5) > 1e-9 {
		t.Errorf("difference = %v, want 5", fy2024.Difference)
	}
}

func TestCheckNeverMutates(t *testing.T) {
	m := models.NewDemoModel()
	eval.RecomputeAll(m)

	before := m.Value(models.StatementBalance, models.IDTotalAssets, "FY2024")
	Check(m, DefaultTolerance)
	after := m.Value(models.StatementBalance, models.IDTotalAssets, "FY2024")
	if before != after {
		t.Errorf("check moved total assets from %v to %v", before, after)
	}
}

func TestToleranceDefaulting(t *testing.T) {
	m := models.NewDemoModel()
	eval.RecomputeAll(m)

	for _, c := range Check(m, -1) {
		if !c.Balanced {
			t.Errorf("period %s unbalanced under defaulted tolerance", c.Period)
		}
	}
}
