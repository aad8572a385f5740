package classify

import (
	"reflect"
	"testing"

	"finmodel/pkg/models"
)

func demoModel() *models.Model {
	return models.NewStandardModel([]models.Period{{Label: "FY2024"}})
}

func TestCashFlowSections(t *testing.T) {
	m := demoModel()
	st := m.CashFlow

	cases := []struct {
		id    string
		want  models.Section
		inAny bool
	}{
		{models.IDCFNetIncome, models.SectionOperating, true},
		{models.IDChangePayables, models.SectionOperating, true},
		{models.IDCashFromOperations, models.SectionOperating, true},
		{models.IDCapEx, models.SectionInvesting, true},
		{models.IDCashFromInvesting, models.SectionInvesting, true},
		{models.IDDebtIssuance, models.SectionFinancing, true},
		{models.IDDividendsPaid, models.SectionFinancing, true},
		{models.IDCashFromFinancing, models.SectionFinancing, true},
		{models.IDNetChangeInCash, "", false},
		{models.IDBeginningCash, "", false},
		{models.IDEndingCash, "", false},
	}
	for _, tc := range cases {
		got, ok := SectionOf(tc.id, st)
		if ok != tc.inAny || got != tc.want {
			t.Errorf("SectionOf(%s) = (%q, %v), want (%q, %v)", tc.id, got, ok, tc.want, tc.inAny)
		}
	}
}

func TestBalanceSheetCategories(t *testing.T) {
	m := demoModel()
	st := m.Balance

	cases := []struct {
		id    string
		want  models.Category
		inAny bool
	}{
		{models.IDCash, models.CategoryCurrentAssets, true},
		{models.IDOtherCurrentAssets, models.CategoryCurrentAssets, true},
		{models.IDTotalCurrentAssets, models.CategoryCurrentAssets, true},
		{models.IDPPENet, models.CategoryNonCurrentAssets, true},
		{models.IDTotalAssets, "", false},
		{models.IDAccountsPayable, models.CategoryCurrentLiabilities, true},
		{models.IDLongTermDebt, models.CategoryNonCurrentLiab, true},
		{models.IDTotalLiabilities, "", false},
		{models.IDCommonStock, models.CategoryEquity, true},
		{models.IDRetainedEarnings, models.CategoryEquity, true},
		{models.IDTotalLiabEquity, "", false},
	}
	for _, tc := range cases {
		got, ok := CategoryOf(tc.id, st)
		if ok != tc.inAny || got != tc.want {
			t.Errorf("CategoryOf(%s) = (%q, %v), want (%q, %v)", tc.id, got, ok, tc.want, tc.inAny)
		}
	}
}

func TestBalanceSheetSections(t *testing.T) {
	m := demoModel()
	st := m.Balance

	cases := []struct {
		id   string
		want models.Section
	}{
		{models.IDInventory, models.SectionAssets},
		{models.IDTotalAssets, models.SectionAssets},
		{models.IDShortTermDebt, models.SectionLiabilities},
		{models.IDTotalLiabilities, models.SectionLiabilities},
		{models.IDCommonStock, models.SectionEquity},
	}
	for _, tc := range cases {
		got, ok := SectionOf(tc.id, st)
		if !ok || got != tc.want {
			t.Errorf("SectionOf(%s) = (%q, %v), want %q", tc.id, got, ok, tc.want)
		}
	}
}

func TestExplicitLinkWinsOverPosition(t *testing.T) {
	m := demoModel()
	st := m.CashFlow
	// An explicitly financing-linked line sitting in the operating span.
	l := &models.Line{
		ID: "special_dividend", Label: "Special Dividend", Kind: models.KindInput,
		CFSLink: &models.CFSLink{Section: models.SectionFinancing, Impact: models.ImpactNegative},
	}
	st.Lines = append([]*models.Line{l}, st.Lines...)

	got, ok := SectionOf("special_dividend", st)
	if !ok || got != models.SectionFinancing {
		t.Errorf("SectionOf(special_dividend) = (%q, %v), want financing", got, ok)
	}
}

func TestNestedLineClassifiesWithAncestor(t *testing.T) {
	m := demoModel()
	st := m.Balance
	parent, _ := st.Find(models.IDOtherCurrentAssets)
	parent.Children = append(parent.Children, &models.Line{ID: "prepaid_rent", Label: "Prepaid Rent", Kind: models.KindInput})

	got, ok := CategoryOf("prepaid_rent", st)
	if !ok || got != models.CategoryCurrentAssets {
		t.Errorf("CategoryOf(prepaid_rent) = (%q, %v), want current_assets", got, ok)
	}
}

func TestReorderReclassifies(t *testing.T) {
	m := demoModel()
	st := m.CashFlow
	l := &models.Line{ID: "asset_sale", Label: "Sale of Equipment", Kind: models.KindInput}

	// Insert just before the operating boundary.
	opsIdx := st.IndexOf(models.IDCashFromOperations)
	st.Lines = append(st.Lines[:opsIdx], append([]*models.Line{l}, st.Lines[opsIdx:]...)...)
	if got, _ := SectionOf("asset_sale", st); got != models.SectionOperating {
		t.Fatalf("before move: section = %q, want operating", got)
	}

	// Move past the boundary into the investing span.
	idx := st.IndexOf("asset_sale")
	st.Lines = append(st.Lines[:idx], st.Lines[idx+1:]...)
	opsIdx = st.IndexOf(models.IDCashFromOperations)
	st.Lines = append(st.Lines[:opsIdx+1], append([]*models.Line{l}, st.Lines[opsIdx+1:]...)...)

	if got, _ := SectionOf("asset_sale", st); got != models.SectionInvesting {
		t.Errorf("after move: section = %q, want investing", got)
	}
}

func TestSubtotalMembers(t *testing.T) {
	m := demoModel()
	st := m.Balance

	got := SubtotalMembers(st, models.IDTotalCurrentAssets)
	want := []string{models.IDCash, models.IDAccountsReceivable, models.IDInventory, models.IDOtherCurrentAssets}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("current asset members = %v, want %v", got, want)
	}

	got = SubtotalMembers(st, models.IDTotalEquity)
	want = []string{models.IDCommonStock, models.IDRetainedEarnings}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("equity members = %v, want %v", got, want)
	}
}

func TestSubtotalMembersPickUpInsertions(t *testing.T) {
	m := demoModel()
	st := m.Balance
	l := &models.Line{ID: "short_term_investments", Label: "Short Term Investments", Kind: models.KindInput}
	idx := st.IndexOf(models.IDAccountsReceivable)
	st.Lines = append(st.Lines[:idx], append([]*models.Line{l}, st.Lines[idx:]...)...)

	got := SubtotalMembers(st, models.IDTotalCurrentAssets)
	want := []string{models.IDCash, "short_term_investments", models.IDAccountsReceivable, models.IDInventory, models.IDOtherCurrentAssets}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("members after insert = %v, want %v", got, want)
	}
}
