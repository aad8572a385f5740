package models

// NewDemoModel returns a small two-period model with balanced books: one
// closed historical year and one projected year whose derived lines are left
// for the evaluator. The cmds use it as a ready-made example and the tests
// use it as a fixture with known closed-form results.
func NewDemoModel() *Model {
	m := NewStandardModel([]Period{
		{Label: "FY2023", Historical: true},
		{Label: "FY2024"},
	})

	set := func(kind StatementKind, id, period string, v float64) {
		if l, ok := m.FindLine(kind, id); ok {
			l.SetValue(period, v)
		}
	}

	// Historical year, entered as closed facts.
	set(StatementIncome, IDRevenue, "FY2023", 900)
	set(StatementIncome, IDCOGS, "FY2023", 380)
	set(StatementIncome, IDGrossProfit, "FY2023", 520)
	set(StatementIncome, IDGrossMargin, "FY2023", 520.0/900.0)
	set(StatementIncome, IDCompensation, "FY2023", 45)
	set(StatementIncome, "other_operating", "FY2023", 235)
	set(StatementIncome, IDOperatingExpense, "FY2023", 280)
	set(StatementIncome, IDEBITDA, "FY2023", 240)
	set(StatementIncome, IDDepreciation, "FY2023", 35)
	set(StatementIncome, IDEBIT, "FY2023", 205)
	set(StatementIncome, IDInterestExpense, "FY2023", 12)
	set(StatementIncome, IDIncomeBeforeTax, "FY2023", 193)
	set(StatementIncome, IDTaxExpense, "FY2023", 43)
	set(StatementIncome, IDNetIncome, "FY2023", 150)
	set(StatementIncome, IDNetMargin, "FY2023", 150.0/900.0)

	set(StatementBalance, IDCash, "FY2023", 100)
	set(StatementBalance, IDAccountsReceivable, "FY2023", 80)
	set(StatementBalance, IDInventory, "FY2023", 50)
	set(StatementBalance, IDOtherCurrentAssets, "FY2023", 20)
	set(StatementBalance, IDTotalCurrentAssets, "FY2023", 250)
	set(StatementBalance, IDPPENet, "FY2023", 300)
	set(StatementBalance, IDGoodwill, "FY2023", 100)
	set(StatementBalance, IDOtherNonCurrentAssets, "FY2023", 50)
	set(StatementBalance, IDTotalNonCurrentAssets, "FY2023", 450)
	set(StatementBalance, IDTotalAssets, "FY2023", 700)
	set(StatementBalance, IDAccountsPayable, "FY2023", 60)
	set(StatementBalance, IDAccruedLiabilities, "FY2023", 40)
	set(StatementBalance, IDShortTermDebt, "FY2023", 30)
	set(StatementBalance, IDTotalCurrentLiab, "FY2023", 130)
	set(StatementBalance, IDLongTermDebt, "FY2023", 200)
	set(StatementBalance, IDOtherNonCurrentLiab, "FY2023", 20)
	set(StatementBalance, IDTotalNonCurrentLiab, "FY2023", 220)
	set(StatementBalance, IDTotalLiabilities, "FY2023", 350)
	set(StatementBalance, IDCommonStock, "FY2023", 150)
	set(StatementBalance, IDRetainedEarnings, "FY2023", 200)
	set(StatementBalance, IDTotalEquity, "FY2023", 350)
	set(StatementBalance, IDTotalLiabEquity, "FY2023", 700)

	set(StatementCashFlow, IDCFNetIncome, "FY2023", 150)
	set(StatementCashFlow, IDCFDepreciation, "FY2023", 35)
	set(StatementCashFlow, IDChangeReceivables, "FY2023", 10)
	set(StatementCashFlow, IDChangeInventory, "FY2023", 5)
	set(StatementCashFlow, IDChangePayables, "FY2023", 8)
	set(StatementCashFlow, IDCashFromOperations, "FY2023", 178)
	set(StatementCashFlow, IDCapEx, "FY2023", 70)
	set(StatementCashFlow, IDCashFromInvesting, "FY2023", -70)
	set(StatementCashFlow, IDDebtIssuance, "FY2023", 15)
	set(StatementCashFlow, IDDebtRepayment, "FY2023", 33)
	set(StatementCashFlow, IDDividendsPaid, "FY2023", 30)
	set(StatementCashFlow, IDCashFromFinancing, "FY2023", -48)
	set(StatementCashFlow, IDNetChangeInCash, "FY2023", 60)
	set(StatementCashFlow, IDBeginningCash, "FY2023", 40)
	set(StatementCashFlow, IDEndingCash, "FY2023", 100)

	// Projected year, inputs only. Net income 200, dividends 25, so
	// retained earnings roll forward to 375 and the sheet balances at 900.
	set(StatementIncome, IDRevenue, "FY2024", 1000)
	set(StatementIncome, IDCOGS, "FY2024", 400)
	set(StatementIncome, "other_operating", "FY2024", 250)
	set(StatementIncome, IDInterestExpense, "FY2024", 10)
	set(StatementIncome, IDTaxExpense, "FY2024", 50)

	set(StatementBalance, IDAccountsReceivable, "FY2024", 100)
	set(StatementBalance, IDInventory, "FY2024", 60)
	set(StatementBalance, IDOtherCurrentAssets, "FY2024", 20)
	set(StatementBalance, IDPPENet, "FY2024", 320)
	set(StatementBalance, IDGoodwill, "FY2024", 100)
	set(StatementBalance, IDOtherNonCurrentAssets, "FY2024", 50)
	set(StatementBalance, IDAccountsPayable, "FY2024", 75)
	set(StatementBalance, IDAccruedLiabilities, "FY2024", 40)
	set(StatementBalance, IDShortTermDebt, "FY2024", 30)
	set(StatementBalance, IDLongTermDebt, "FY2024", 210)
	set(StatementBalance, IDOtherNonCurrentLiab, "FY2024", 20)
	set(StatementBalance, IDCommonStock, "FY2024", 150)
	set(StatementBalance, IDRetainedEarnings, "FY2024", 375)

	set(StatementCashFlow, IDChangeReceivables, "FY2024", 20)
	set(StatementCashFlow, IDChangeInventory, "FY2024", 10)
	set(StatementCashFlow, IDChangePayables, "FY2024", 15)
	set(StatementCashFlow, IDCapEx, "FY2024", 60)
	set(StatementCashFlow, IDDebtIssuance, "FY2024", 30)
	set(StatementCashFlow, IDDebtRepayment, "FY2024", 20)
	set(StatementCashFlow, IDDividendsPaid, "FY2024", 25)

	// Side tables: compensation breakdown and the D&A schedule.
	m.Compensation = map[string][]ScheduleEntry{
		"engineering": {{Label: "Engineering Payroll", Values: map[string]float64{"FY2023": 25, "FY2024": 30}}},
		"admin":       {{Label: "G&A Payroll", Values: map[string]float64{"FY2023": 20, "FY2024": 20}}},
	}
	m.Depreciation = &DASchedule{
		Entries:  []ScheduleEntry{{Label: "Equipment", Values: map[string]float64{"FY2023": 35, "FY2024": 40}}},
		Location: map[string]string{"Equipment": "separate"},
	}

	return m
}
