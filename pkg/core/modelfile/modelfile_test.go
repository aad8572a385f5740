package modelfile

import (
	"path/filepath"
	"testing"

	"finmodel/pkg/models"
)

func TestParseHjsonWithComments(t *testing.T) {
	data := []byte(`
{
  # a hand-written model stub
  periods: [
    {label: FY2024}
  ]
  income: {
    lines: [
      {id: revenue, label: Total Revenue, kind: input, values: {FY2024: 1000}}
      {id: cogs, label: COGS, kind: input, values: {FY2024: 400}}
    ]
  }
}
`)
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := m.Value(models.StatementIncome, "revenue", "FY2024"); got != 1000 {
		t.Errorf("revenue = %v, want 1000", got)
	}
	// Normalize must have filled in the missing statements.
	if m.Balance == nil || m.Balance.Kind != models.StatementBalance {
		t.Error("balance statement not normalized")
	}
	if m.CashFlow == nil {
		t.Error("cash flow statement not normalized")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("{unterminated")); err == nil {
		t.Error("malformed input should fail")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	m := models.NewDemoModel()
	if err := Save(path, m); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded.Value(models.StatementIncome, models.IDRevenue, "FY2024"); got != 1000 {
		t.Errorf("revenue after round trip = %v", got)
	}
	if len(loaded.Periods) != 2 || !loaded.Periods[0].Historical {
		t.Errorf("periods after round trip = %+v", loaded.Periods)
	}
	if loaded.Depreciation == nil || len(loaded.Depreciation.Entries) != 1 {
		t.Error("depreciation schedule lost in round trip")
	}
}
