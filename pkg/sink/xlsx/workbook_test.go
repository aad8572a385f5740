package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"finmodel/pkg/core/compile"
	"finmodel/pkg/core/eval"
	"finmodel/pkg/models"
)

func compiledWorkbookFile(t *testing.T) *excelize.File {
	t.Helper()
	m := models.NewDemoModel()
	for _, res := range eval.RecomputeAll(m) {
		if !res.Converged {
			t.Fatalf("period %s did not converge", res.Period)
		}
	}
	wb, err := New(m)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if err := compile.Compile(m, wb); err != nil {
		t.Fatalf("compile: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.xlsx")
	if err := wb.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbookHasStatementSheets(t *testing.T) {
	f := compiledWorkbookFile(t)
	for _, want := range []string{"Income Statement", "Balance Sheet", "Cash Flow", "Data"} {
		if idx, err := f.GetSheetIndex(want); err != nil || idx < 0 {
			t.Errorf("missing sheet %q", want)
		}
	}
}

func TestWorkbookDefinesCellNames(t *testing.T) {
	f := compiledWorkbookFile(t)
	names := map[string]bool{}
	for _, dn := range f.GetDefinedName() {
		names[dn.Name] = true
	}
	for _, want := range []string{
		"IS_revenue_FY2024",
		"BS_total_assets_FY2024",
		"CF_ending_cash_FY2024",
		"CHK_check_balanced_FY2024",
		"HIST_IS_revenue_FY2023",
	} {
		if !names[want] {
			t.Errorf("defined name %q missing", want)
		}
	}
}

func TestWorkbookFormulasUseNames(t *testing.T) {
	f := compiledWorkbookFile(t)

	found := ""
	rows, err := f.GetRows("Income Statement")
	if err != nil {
		t.Fatal(err)
	}
	for r := range rows {
		cell, _ := excelize.CoordinatesToCellName(2, r+1)
		label, _ := f.GetCellValue("Income Statement", cell)
		if label == "Gross Profit" {
			valueCell, _ := excelize.CoordinatesToCellName(4, r+1) // FY2024 column
			found, _ = f.GetCellFormula("Income Statement", valueCell)
			break
		}
	}
	want := "(IS_revenue_FY2024-IS_cogs_FY2024)"
	if found != want {
		t.Errorf("gross profit formula = %q, want %q", found, want)
	}
}
