package models

// =============================================================================
// WELL-KNOWN LINE IDS
// These ids carry engine-defined formula and classification behavior.
// User-authored lines get slug or uuid ids and never collide with this set.
// =============================================================================

// Income Statement ids.
const (
	IDRevenue          = "revenue"
	IDCOGS             = "cogs"
	IDGrossProfit      = "gross_profit"
	IDGrossMargin      = "gross_margin"
	IDOperatingExpense = "operating_expenses"
	IDCompensation     = "compensation"
	IDEBITDA           = "ebitda"
	IDDepreciation     = "depreciation_amortization"
	IDEBIT             = "ebit"
	IDInterestExpense  = "interest_expense"
	IDIncomeBeforeTax  = "income_before_tax"
	IDTaxExpense       = "tax_expense"
	IDNetIncome        = "net_income"
	IDNetMargin        = "net_margin"
)

// Balance Sheet ids. The subtotal ids double as category boundaries:
// everything positioned before total_current_assets is a current asset
// unless it is itself a subtotal, and so on down the chain.
const (
	IDCash                  = "cash"
	IDAccountsReceivable    = "accounts_receivable"
	IDInventory             = "inventory"
	IDOtherCurrentAssets    = "other_current_assets"
	IDTotalCurrentAssets    = "total_current_assets"
	IDPPENet                = "ppe_net"
	IDGoodwill              = "goodwill"
	IDOtherNonCurrentAssets = "other_non_current_assets"
	IDTotalNonCurrentAssets = "total_non_current_assets"
	IDTotalAssets           = "total_assets"
	IDAccountsPayable       = "accounts_payable"
	IDAccruedLiabilities    = "accrued_liabilities"
	IDShortTermDebt         = "short_term_debt"
	IDTotalCurrentLiab      = "total_current_liabilities"
	IDLongTermDebt          = "long_term_debt"
	IDOtherNonCurrentLiab   = "other_non_current_liabilities"
	IDTotalNonCurrentLiab   = "total_non_current_liabilities"
	IDTotalLiabilities      = "total_liabilities"
	IDCommonStock           = "common_stock"
	IDRetainedEarnings      = "retained_earnings"
	IDTotalEquity           = "total_equity"
	IDTotalLiabEquity       = "total_liabilities_equity"
)

// Cash Flow Statement ids.
const (
	IDCFNetIncome        = "cf_net_income"
	IDCFDepreciation     = "cf_depreciation_amortization"
	IDChangeReceivables  = "change_in_receivables"
	IDChangeInventory    = "change_in_inventory"
	IDChangePayables     = "change_in_payables"
	IDCashFromOperations = "cash_from_operations"
	IDCapEx              = "capital_expenditures"
	IDCashFromInvesting  = "cash_from_investing"
	IDDebtIssuance       = "debt_issuance"
	IDDebtRepayment      = "debt_repayment"
	IDDividendsPaid      = "dividends_paid"
	IDCashFromFinancing  = "cash_from_financing"
	IDNetChangeInCash    = "net_change_in_cash"
	IDBeginningCash      = "beginning_cash"
	IDEndingCash         = "ending_cash"
)

// protectedIDs are the skeleton lines that may never be deleted. The
// formula table and the boundary chains are written against them; removing
// one would orphan every formula downstream of it. Breakdowns and custom
// items attach around them instead.
var protectedIDs = map[string]bool{
	IDRevenue:          true,
	IDCOGS:             true,
	IDGrossProfit:      true,
	IDGrossMargin:      true,
	IDOperatingExpense: true,
	IDCompensation:     true,
	IDEBITDA:           true,
	IDDepreciation:     true,
	IDEBIT:             true,
	IDInterestExpense:  true,
	IDIncomeBeforeTax:  true,
	IDTaxExpense:       true,
	IDNetIncome:        true,
	IDNetMargin:        true,

	IDCash:                  true,
	IDAccountsReceivable:    true,
	IDInventory:             true,
	IDOtherCurrentAssets:    true,
	IDTotalCurrentAssets:    true,
	IDPPENet:                true,
	IDGoodwill:              true,
	IDOtherNonCurrentAssets: true,
	IDTotalNonCurrentAssets: true,
	IDTotalAssets:           true,
	IDAccountsPayable:       true,
	IDAccruedLiabilities:    true,
	IDShortTermDebt:         true,
	IDTotalCurrentLiab:      true,
	IDLongTermDebt:          true,
	IDOtherNonCurrentLiab:   true,
	IDTotalNonCurrentLiab:   true,
	IDTotalLiabilities:      true,
	IDCommonStock:           true,
	IDRetainedEarnings:      true,
	IDTotalEquity:           true,
	IDTotalLiabEquity:       true,

	IDCFNetIncome:        true,
	IDCFDepreciation:     true,
	IDChangeReceivables:  true,
	IDChangeInventory:    true,
	IDChangePayables:     true,
	IDCashFromOperations: true,
	IDCapEx:              true,
	IDCashFromInvesting:  true,
	IDDebtIssuance:       true,
	IDDebtRepayment:      true,
	IDDividendsPaid:      true,
	IDCashFromFinancing:  true,
	IDNetChangeInCash:    true,
	IDBeginningCash:      true,
	IDEndingCash:         true,
}

// IsProtected reports whether id belongs to the fixed structural set.
func IsProtected(id string) bool {
	return protectedIDs[id]
}
