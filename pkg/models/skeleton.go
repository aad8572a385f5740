package models

// =============================================================================
// STANDARD SKELETON
// The fixed statement structure every guided model starts from. The wizard
// layer only ever attaches breakdowns and custom items around these lines;
// the protected subset can never be deleted.
// =============================================================================

// NewStandardModel builds the default three-statement tree for the given
// periods. Every well-known line is present with its evaluation kind; input
// lines start at zero.
func NewStandardModel(periods []Period) *Model {
	input := func(id, label string) *Line {
		return &Line{ID: id, Label: label, Kind: KindInput, ValueType: TypeCurrency, Values: map[string]float64{}}
	}
	calc := func(id, label string) *Line {
		return &Line{ID: id, Label: label, Kind: KindCalculated, ValueType: TypeCurrency, Values: map[string]float64{}}
	}
	pct := func(id, label string) *Line {
		return &Line{ID: id, Label: label, Kind: KindCalculated, ValueType: TypePercent, Values: map[string]float64{}}
	}
	subtotal := func(id, label string) *Line {
		return &Line{ID: id, Label: label, Kind: KindSubtotal, ValueType: TypeCurrency, Values: map[string]float64{}}
	}
	total := func(id, label string) *Line {
		return &Line{ID: id, Label: label, Kind: KindTotal, ValueType: TypeCurrency, Values: map[string]float64{}}
	}
	cfLine := func(id, label string, impact Impact, section Section, desc string) *Line {
		l := input(id, label)
		l.CFSLink = &CFSLink{Section: section, Impact: impact, Description: desc}
		return l
	}

	opex := input(IDOperatingExpense, "Operating Expenses")
	compensation := calc(IDCompensation, "Compensation & Benefits")
	otherOperating := input("other_operating", "Other Operating Expenses")
	opex.Children = []*Line{compensation, otherOperating}

	income := &Statement{Kind: StatementIncome, Lines: []*Line{
		input(IDRevenue, "Total Revenue"),
		input(IDCOGS, "Cost of Goods Sold"),
		calc(IDGrossProfit, "Gross Profit"),
		pct(IDGrossMargin, "Gross Margin"),
		opex,
		calc(IDEBITDA, "EBITDA"),
		calc(IDDepreciation, "Depreciation & Amortization"),
		calc(IDEBIT, "EBIT"),
		input(IDInterestExpense, "Interest Expense"),
		calc(IDIncomeBeforeTax, "Income Before Tax"),
		input(IDTaxExpense, "Tax Expense"),
		calc(IDNetIncome, "Net Income"),
		pct(IDNetMargin, "Net Margin"),
	}}

	balance := &Statement{Kind: StatementBalance, Lines: []*Line{
		calc(IDCash, "Cash & Equivalents"),
		input(IDAccountsReceivable, "Accounts Receivable"),
		input(IDInventory, "Inventory"),
		input(IDOtherCurrentAssets, "Other Current Assets"),
		subtotal(IDTotalCurrentAssets, "Total Current Assets"),
		input(IDPPENet, "Net PPE"),
		input(IDGoodwill, "Goodwill"),
		input(IDOtherNonCurrentAssets, "Other Non-Current Assets"),
		subtotal(IDTotalNonCurrentAssets, "Total Non-Current Assets"),
		total(IDTotalAssets, "Total Assets"),
		input(IDAccountsPayable, "Accounts Payable"),
		input(IDAccruedLiabilities, "Accrued Liabilities"),
		input(IDShortTermDebt, "Short Term Debt"),
		subtotal(IDTotalCurrentLiab, "Total Current Liabilities"),
		input(IDLongTermDebt, "Long Term Debt"),
		input(IDOtherNonCurrentLiab, "Other Non-Current Liabilities"),
		subtotal(IDTotalNonCurrentLiab, "Total Non-Current Liabilities"),
		total(IDTotalLiabilities, "Total Liabilities"),
		input(IDCommonStock, "Common Stock & APIC"),
		input(IDRetainedEarnings, "Retained Earnings"),
		subtotal(IDTotalEquity, "Total Equity"),
		total(IDTotalLiabEquity, "Total Liabilities & Equity"),
	}}

	cfNetIncome := calc(IDCFNetIncome, "Net Income")
	cfNetIncome.CFSLink = &CFSLink{Section: SectionOperating, Impact: ImpactPositive, Description: "Starting point of the indirect method"}
	cfNetIncome.ISLink = IDNetIncome

	cfDA := calc(IDCFDepreciation, "Depreciation & Amortization")
	cfDA.CFSLink = &CFSLink{Section: SectionOperating, Impact: ImpactPositive, Description: "Non-cash expense added back"}
	cfDA.ISLink = IDDepreciation

	cashflow := &Statement{Kind: StatementCashFlow, Lines: []*Line{
		cfNetIncome,
		cfDA,
		cfLine(IDChangeReceivables, "Increase in Receivables", ImpactNegative, SectionOperating, "Revenue booked but not yet collected"),
		cfLine(IDChangeInventory, "Increase in Inventory", ImpactNegative, SectionOperating, "Cash tied up in stock"),
		cfLine(IDChangePayables, "Increase in Payables", ImpactPositive, SectionOperating, "Expenses incurred but not yet paid"),
		subtotal(IDCashFromOperations, "Cash from Operations"),
		cfLine(IDCapEx, "Capital Expenditures", ImpactNegative, SectionInvesting, "Purchases of property and equipment"),
		subtotal(IDCashFromInvesting, "Cash from Investing"),
		cfLine(IDDebtIssuance, "Debt Issuance", ImpactPositive, SectionFinancing, "Proceeds from new borrowings"),
		cfLine(IDDebtRepayment, "Debt Repayment", ImpactNegative, SectionFinancing, "Principal repaid on borrowings"),
		cfLine(IDDividendsPaid, "Dividends Paid", ImpactNegative, SectionFinancing, "Distributions to shareholders"),
		subtotal(IDCashFromFinancing, "Cash from Financing"),
		calc(IDNetChangeInCash, "Net Change in Cash"),
		calc(IDBeginningCash, "Beginning Cash"),
		total(IDEndingCash, "Ending Cash"),
	}}

	return &Model{
		Income:   income,
		Balance:  balance,
		CashFlow: cashflow,
		Periods:  periods,
		Currency: "USD",
	}
}
