package compile

import (
	"strings"

	"finmodel/pkg/core/formula"
	"finmodel/pkg/models"
)

// statementPrefixes keep compiled names short and unambiguous across sheets.
var statementPrefixes = map[models.StatementKind]string{
	models.StatementIncome:       "IS",
	models.StatementBalance:      "BS",
	models.StatementCashFlow:     "CF",
	models.StatementBalanceCheck: "CHK",
}

// Name returns the stable defined name for a logical cell:
// <statement-prefix>_<sanitized-line-id>_<sanitized-period>. Formulas are
// addressed through these names instead of row/column coordinates so a later
// reorder of rows never invalidates them.
func Name(r formula.Ref) string {
	return statementPrefixes[r.Statement] + "_" + Sanitize(r.LineID) + "_" + Sanitize(r.Period)
}

// FactName returns the defined name of a cell's slot in the historical
// facts area.
func FactName(r formula.Ref) string {
	return "HIST_" + Name(r)
}

// Sanitize rewrites an id or period label into a token a spreadsheet
// accepts in a defined name: letters, digits and underscores, starting with
// a letter or underscore.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if c := out[0]; c >= '0' && c <= '9' {
		out = "_" + out
	}
	return out
}
