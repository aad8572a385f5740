package validate

import (
	"testing"

	"finmodel/pkg/core/eval"
	"finmodel/pkg/models"
)

func recomputedDemo(t *testing.T) *models.Model {
	t.Helper()
	m := models.NewDemoModel()
	for _, res := range eval.RecomputeAll(m) {
		if !res.Converged {
			t.Fatalf("period %s did not converge", res.Period)
		}
	}
	return m
}

func TestLinkagesHoldOnDemoModel(t *testing.T) {
	m := recomputedDemo(t)

	for _, report := range ValidateAll(m, 0.01) {
		if !report.AllPassed {
			t.Errorf("period %s failed: %v", report.Period, report.FailedChecks)
		}
	}
}

func TestNetIncomeLinkageDetectsBreak(t *testing.T) {
	m := recomputedDemo(t)
	l, _ := m.FindLine(models.StatementCashFlow, models.IDCFNetIncome)
	l.SetValue("FY2024", l.Value("FY2024")+7)

	report := ValidateLinkages(m, "FY2024", 0.01)
	if report.AllPassed {
		t.Fatal("tampered CF net income should fail")
	}
	if report.ISToCF.IsLinked {
		t.Error("net income linkage should be broken")
	}
	if diff := report.ISToCF.Difference; diff != -7 {
		t.Errorf("difference = %v, want -7", diff)
	}
}

func TestCashLinkageDetectsBreak(t *testing.T) {
	m := recomputedDemo(t)
	l, _ := m.FindLine(models.StatementBalance, models.IDCash)
	l.SetValue("FY2024", l.Value("FY2024")+3)

	report := ValidateLinkages(m, "FY2024", 0.01)
	if report.CFToBS.IsLinked {
		t.Error("cash linkage should be broken")
	}
}

func TestRetainedEarningsRollForward(t *testing.T) {
	m := recomputedDemo(t)

	report := ValidateLinkages(m, "FY2024", 0.01)
	re := report.ISToBSRetainedEarnings
	if re == nil {
		t.Fatal("no retained earnings check despite a prior period")
	}
	// 375 - 200 = 175 = 200 net income - 25 dividends.
	if !re.IsLinked {
		t.Errorf("roll-forward broken: expected %v, actual %v", re.ExpectedREChange, re.ActualREChange)
	}

	first := ValidateLinkages(m, "FY2023", 0.01)
	if first.ISToBSRetainedEarnings != nil {
		t.Error("first period has no prior to roll from")
	}
}

func TestValidateStructureCleanModel(t *testing.T) {
	m := models.NewDemoModel()
	if issues := ValidateStructure(m); len(issues) != 0 {
		t.Errorf("clean model reported issues: %v", issues)
	}
}

func TestValidateStructureFindsDefects(t *testing.T) {
	m := models.NewDemoModel()
	m.Income.Lines = append(m.Income.Lines, &models.Line{ID: models.IDRevenue, Label: "Duplicate"})
	m.CashFlow.Lines = append(m.CashFlow.Lines, &models.Line{
		ID: "orphan", Label: "Orphan", ISLink: "nonexistent_line",
		CFSLink: &models.CFSLink{Section: "somewhere", Impact: "sideways"},
	})

	issues := ValidateStructure(m)
	if len(issues) != 4 {
		t.Fatalf("got %d issues, want 4: %v", len(issues), issues)
	}
}

func TestValidateStructureMissingProtectedLine(t *testing.T) {
	m := models.NewDemoModel()
	idx := m.Income.IndexOf(models.IDNetIncome)
	m.Income.Lines = append(m.Income.Lines[:idx], m.Income.Lines[idx+1:]...)

	found := false
	for _, issue := range ValidateStructure(m) {
		if issue.LineID == models.IDNetIncome {
			found = true
		}
	}
	if !found {
		t.Error("missing net income not reported")
	}
}
