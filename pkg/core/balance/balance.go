// Package balance verifies the balance sheet identity
// Total Assets = Total Liabilities + Total Equity per period. Violations are
// reported, never corrected: the model is allowed to be inconsistent while
// the user is still entering data.
package balance

import (
	"math"

	"finmodel/pkg/core/eval"
	"finmodel/pkg/models"
)

// DefaultTolerance is the acceptable absolute difference in working units.
const DefaultTolerance = 0.01

// PeriodCheck is the verdict for one period.
type PeriodCheck struct {
	Period            string  `json:"period"`
	Assets            float64 `json:"assets"`
	LiabilitiesEquity float64 `json:"liabilities_equity"`
	Difference        float64 `json:"difference"`
	Balanced          bool    `json:"balanced"`
}

// Check evaluates both sides of the identity for every period. It is a pure
// function over evaluator outputs and never mutates the model. A
// non-positive tolerance falls back to DefaultTolerance.
func Check(m *models.Model, tolerance float64) []PeriodCheck {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	checks := make([]PeriodCheck, 0, len(m.Periods))
	for _, p := range m.Periods {
		checks = append(checks, checkPeriod(m, p.Label, tolerance))
	}
	return checks
}

func checkPeriod(m *models.Model, period string, tolerance float64) PeriodCheck {
	assets := evaluateLine(m, models.IDTotalAssets, period)
	liabEquity := evaluateLine(m, models.IDTotalLiabEquity, period)
	diff := assets - liabEquity
	return PeriodCheck{
		Period:            period,
		Assets:            assets,
		LiabilitiesEquity: liabEquity,
		Difference:        diff,
		Balanced:          math.Abs(diff) < tolerance,
	}
}

func evaluateLine(m *models.Model, id, period string) float64 {
	l, ok := m.FindLine(models.StatementBalance, id)
	if !ok {
		return 0
	}
	return eval.Evaluate(l, period, m)
}
