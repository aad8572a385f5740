package models

import (
	"encoding/json"
	"testing"
)

func TestStandardModelHasEveryProtectedLine(t *testing.T) {
	m := NewStandardModel([]Period{{Label: "FY2024"}})
	for id := range protectedIDs {
		found := false
		for _, st := range m.Statements() {
			if _, ok := st.Find(id); ok {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("protected id %q missing from the standard skeleton", id)
		}
	}
}

func TestFindReachesNestedLines(t *testing.T) {
	m := NewStandardModel([]Period{{Label: "FY2024"}})
	l, ok := m.Income.Find(IDCompensation)
	if !ok {
		t.Fatal("nested compensation line not found")
	}
	if l.ID != IDCompensation {
		t.Errorf("found %q", l.ID)
	}
	if m.Income.IndexOf(IDCompensation) != -1 {
		t.Error("nested line should not have a top-level index")
	}
	if m.Income.TopIndexOf(IDCompensation) != m.Income.IndexOf(IDOperatingExpense) {
		t.Error("nested line should index with its top-level ancestor")
	}
}

func TestParent(t *testing.T) {
	m := NewStandardModel([]Period{{Label: "FY2024"}})
	p := m.Income.Parent(IDCompensation)
	if p == nil || p.ID != IDOperatingExpense {
		t.Errorf("parent = %v, want operating_expenses", p)
	}
	if m.Income.Parent(IDRevenue) != nil {
		t.Error("top-level line has no parent")
	}
}

func TestPrevPeriod(t *testing.T) {
	m := NewStandardModel([]Period{{Label: "FY2023", Historical: true}, {Label: "FY2024"}})
	if prev, ok := m.PrevPeriod("FY2024"); !ok || prev != "FY2023" {
		t.Errorf("PrevPeriod(FY2024) = (%q, %v)", prev, ok)
	}
	if _, ok := m.PrevPeriod("FY2023"); ok {
		t.Error("first period has no predecessor")
	}
	if got := m.ProjectedPeriods(); len(got) != 1 || got[0] != "FY2024" {
		t.Errorf("ProjectedPeriods = %v", got)
	}
}

func TestNormalizeAfterRoundTrip(t *testing.T) {
	m := NewDemoModel()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Model
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	decoded.Normalize()

	if decoded.Income.Kind != StatementIncome {
		t.Errorf("income kind = %q", decoded.Income.Kind)
	}
	decoded.Income.Walk(func(l *Line, _ int) {
		if l.Values == nil {
			t.Errorf("line %s has nil values after normalize", l.ID)
		}
	})
	if got := decoded.Value(StatementIncome, IDRevenue, "FY2024"); got != 1000 {
		t.Errorf("revenue after round trip = %v", got)
	}
}

func TestIsProtected(t *testing.T) {
	if !IsProtected(IDRevenue) || !IsProtected(IDTotalLiabEquity) || !IsProtected(IDEndingCash) {
		t.Error("skeleton ids must be protected")
	}
	if IsProtected("custom_line") {
		t.Error("custom ids are not protected")
	}
}
