// Package validate audits a model beyond the balance identity: the
// cross-statement linkages that make three statements one model, and the
// structural invariants the mutation layer is supposed to preserve. Like the
// balance checker it only reports; nothing is corrected.
package validate

import (
	"math"

	"finmodel/pkg/models"
)

// =============================================================================
// CROSS-STATEMENT LINKAGE VALIDATION
// =============================================================================

// LinkageReport contains all cross-statement validation results for one
// period.
type LinkageReport struct {
	Period                 string                `json:"period"`
	ISToCF                 *NetIncomeLinkage     `json:"is_to_cf"`
	CFToBS                 *CashLinkage          `json:"cf_to_bs"`
	ISToBSRetainedEarnings *RetainedEarningsLink `json:"is_to_bs_re,omitempty"`
	AllPassed              bool                  `json:"all_passed"`
	FailedChecks           []string              `json:"failed_checks,omitempty"`
}

// NetIncomeLinkage validates: IS Net Income == CF Net Income starting line.
type NetIncomeLinkage struct {
	ISNetIncome   float64 `json:"is_net_income"`
	CFNetIncStart float64 `json:"cf_net_income_start"`
	Difference    float64 `json:"difference"`
	IsLinked      bool    `json:"is_linked"`
	Tolerance     float64 `json:"tolerance"`
}

// CashLinkage validates: CF Ending Cash == BS Cash, and CF Net Change ==
// BS Cash change versus the prior period.
type CashLinkage struct {
	CFCashEnding   float64 `json:"cf_cash_ending"`
	BSCash         float64 `json:"bs_cash"`
	DifferenceCash float64 `json:"difference_cash"`

	CFNetChange  float64 `json:"cf_net_change"`
	BSCashChange float64 `json:"bs_cash_change"`
	DifferenceNC float64 `json:"difference_net_change"`

	IsLinked  bool    `json:"is_linked"`
	Tolerance float64 `json:"tolerance"`
}

// RetainedEarningsLink validates: change in RE ~ Net Income - Dividends. Only
// produced when a prior period exists.
type RetainedEarningsLink struct {
	NetIncome        float64 `json:"net_income"`
	DividendsPaid    float64 `json:"dividends_paid"`
	ExpectedREChange float64 `json:"expected_re_change"`
	ActualREChange   float64 `json:"actual_re_change"`
	Difference       float64 `json:"difference"`
	IsLinked         bool    `json:"is_linked"`
	Tolerance        float64 `json:"tolerance"`
	Note             string  `json:"note,omitempty"`
}

// ValidateLinkages performs all cross-statement validations for one period of
// an already recomputed model.
func ValidateLinkages(m *models.Model, period string, tolerance float64) *LinkageReport {
	report := &LinkageReport{
		Period:    period,
		AllPassed: true,
	}

	// 1. IS -> CF: net income carried into the indirect method.
	isNI := m.Value(models.StatementIncome, models.IDNetIncome, period)
	cfNI := m.Value(models.StatementCashFlow, models.IDCFNetIncome, period)
	report.ISToCF = &NetIncomeLinkage{
		ISNetIncome:   isNI,
		CFNetIncStart: cfNI,
		Difference:    isNI - cfNI,
		IsLinked:      math.Abs(isNI-cfNI) <= tolerance,
		Tolerance:     tolerance,
	}
	if !report.ISToCF.IsLinked {
		report.AllPassed = false
		report.FailedChecks = append(report.FailedChecks, "IS Net Income -> CF Net Income")
	}

	// 2. CF -> BS: ending cash lands on the balance sheet, and the net
	// change matches the cash movement versus the prior period.
	cfEnd := m.Value(models.StatementCashFlow, models.IDEndingCash, period)
	bsCash := m.Value(models.StatementBalance, models.IDCash, period)
	cfNetChange := m.Value(models.StatementCashFlow, models.IDNetChangeInCash, period)
	bsCashChange := cfNetChange // without a prior period the check degenerates
	if prev, ok := m.PrevPeriod(period); ok {
		bsCashChange = bsCash - m.Value(models.StatementBalance, models.IDCash, prev)
	}
	report.CFToBS = &CashLinkage{
		CFCashEnding:   cfEnd,
		BSCash:         bsCash,
		DifferenceCash: cfEnd - bsCash,
		CFNetChange:    cfNetChange,
		BSCashChange:   bsCashChange,
		DifferenceNC:   cfNetChange - bsCashChange,
		IsLinked:       math.Abs(cfEnd-bsCash) <= tolerance && math.Abs(cfNetChange-bsCashChange) <= tolerance,
		Tolerance:      tolerance,
	}
	if !report.CFToBS.IsLinked {
		report.AllPassed = false
		report.FailedChecks = append(report.FailedChecks, "CF Ending Cash -> BS Cash")
	}

	// 3. IS -> BS: retained earnings roll-forward, prior period required.
	if prev, ok := m.PrevPeriod(period); ok {
		report.ISToBSRetainedEarnings = validateRetainedEarnings(m, period, prev, tolerance)
		if !report.ISToBSRetainedEarnings.IsLinked {
			report.AllPassed = false
			report.FailedChecks = append(report.FailedChecks, "Delta Retained Earnings ~ NI - Dividends")
		}
	}

	return report
}

// ValidateAll runs the linkage checks over every period.
func ValidateAll(m *models.Model, tolerance float64) []*LinkageReport {
	reports := make([]*LinkageReport, 0, len(m.Periods))
	for _, p := range m.Periods {
		reports = append(reports, ValidateLinkages(m, p.Label, tolerance))
	}
	return reports
}

func validateRetainedEarnings(m *models.Model, period, prev string, tolerance float64) *RetainedEarningsLink {
	result := &RetainedEarningsLink{
		NetIncome:     m.Value(models.StatementIncome, models.IDNetIncome, period),
		DividendsPaid: math.Abs(m.Value(models.StatementCashFlow, models.IDDividendsPaid, period)),
		Tolerance:     tolerance,
	}
	result.ExpectedREChange = result.NetIncome - result.DividendsPaid

	reCurrent := m.Value(models.StatementBalance, models.IDRetainedEarnings, period)
	rePrior := m.Value(models.StatementBalance, models.IDRetainedEarnings, prev)
	result.ActualREChange = reCurrent - rePrior
	result.Difference = result.ActualREChange - result.ExpectedREChange

	// RE also absorbs buybacks, OCI and preferred dividends, so allow a
	// wider band than the cash checks.
	reTolerance := math.Max(tolerance, math.Abs(result.NetIncome*0.10))
	result.IsLinked = math.Abs(result.Difference) <= reTolerance
	if !result.IsLinked {
		result.Note = "Variance may be due to buybacks, OCI reclassifications or preferred dividends"
	}
	return result
}
