package compile

import (
	"testing"

	"finmodel/pkg/core/formula"
	"finmodel/pkg/models"
)

func TestName(t *testing.T) {
	cases := []struct {
		ref  formula.Ref
		want string
	}{
		{formula.Ref{Statement: models.StatementIncome, LineID: "revenue", Period: "FY2024"}, "IS_revenue_FY2024"},
		{formula.Ref{Statement: models.StatementBalance, LineID: "total_assets", Period: "FY2023"}, "BS_total_assets_FY2023"},
		{formula.Ref{Statement: models.StatementCashFlow, LineID: "ending_cash", Period: "FY2024"}, "CF_ending_cash_FY2024"},
		{formula.Ref{Statement: models.StatementBalanceCheck, LineID: "check_balanced", Period: "FY2024"}, "CHK_check_balanced_FY2024"},
		// Period labels with punctuation sanitize into underscores.
		{formula.Ref{Statement: models.StatementIncome, LineID: "revenue", Period: "2024-Q1"}, "IS_revenue__2024_Q1"},
	}
	for _, tc := range cases {
		if got := Name(tc.ref); got != tc.want {
			t.Errorf("Name(%v) = %s, want %s", tc.ref, got, tc.want)
		}
	}
}

func TestFactName(t *testing.T) {
	ref := formula.Ref{Statement: models.StatementIncome, LineID: "revenue", Period: "FY2023"}
	if got := FactName(ref); got != "HIST_IS_revenue_FY2023" {
		t.Errorf("FactName = %s", got)
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"revenue", "revenue"},
		{"gross-margin", "gross_margin"},
		{"2024", "_2024"},
		{"a b.c", "a_b_c"},
		{"", "_"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
