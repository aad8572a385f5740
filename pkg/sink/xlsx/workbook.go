// Package xlsx renders a compiled model into an Excel workbook with one
// sheet per statement plus a Data sheet for historical facts. The workbook
// owns all physical layout; the compiler only addresses logical cells, which
// this sink resolves through a layout pass done up front.
package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"finmodel/pkg/core/classify"
	"finmodel/pkg/core/compile"
	"finmodel/pkg/core/formula"
	"finmodel/pkg/models"
)

const (
	sheetIncome   = "Income Statement"
	sheetBalance  = "Balance Sheet"
	sheetCashFlow = "Cash Flow"
	sheetData     = "Data"

	labelCol       = 2 // column B
	firstPeriodCol = 3 // periods start at column C
)

var sheetNames = map[models.StatementKind]string{
	models.StatementIncome:       sheetIncome,
	models.StatementBalance:      sheetBalance,
	models.StatementCashFlow:     sheetCashFlow,
	models.StatementBalanceCheck: sheetBalance,
}

var cfSectionHeaders = map[models.Section]string{
	models.SectionOperating: "Operating Activities",
	models.SectionInvesting: "Investing Activities",
	models.SectionFinancing: "Financing Activities",
}

var bsCategoryHeaders = map[models.Category]string{
	models.CategoryCurrentAssets:      "Current Assets",
	models.CategoryNonCurrentAssets:   "Non-Current Assets",
	models.CategoryCurrentLiabilities: "Current Liabilities",
	models.CategoryNonCurrentLiab:     "Non-Current Liabilities",
	models.CategoryEquity:             "Equity",
}

type cellAddr struct {
	sheet string
	col   int
	row   int
}

// Workbook implements the compiler's sink and fact-sink contracts over an
// excelize file.
type Workbook struct {
	f     *excelize.File
	m     *models.Model
	cells map[formula.Ref]cellAddr

	factRow int
	styles  map[styleKey]int
}

type styleKey struct {
	valueType models.ValueType
	bold      bool
}

// New builds the workbook shell: sheets, column headers, row labels and
// section headers, and records where every logical cell lives. Values and
// formulas arrive afterwards through the sink methods.
func New(m *models.Model) (*Workbook, error) {
	f := excelize.NewFile()
	wb := &Workbook{
		f:       f,
		m:       m,
		cells:   map[formula.Ref]cellAddr{},
		factRow: 2,
		styles:  map[styleKey]int{},
	}

	f.SetSheetName("Sheet1", sheetIncome)
	for _, name := range []string{sheetBalance, sheetCashFlow, sheetData} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := wb.layoutStatement(m.Income); err != nil {
		return nil, err
	}
	if err := wb.layoutStatement(m.CashFlow); err != nil {
		return nil, err
	}
	if err := wb.layoutBalanceSheet(); err != nil {
		return nil, err
	}
	if err := wb.layoutDataSheet(); err != nil {
		return nil, err
	}
	return wb, nil
}

func (wb *Workbook) layoutDataSheet() error {
	if err := wb.setString(sheetData, 1, 1, "Historical Facts"); err != nil {
		return err
	}
	return nil
}

// layoutStatement writes headers and labels for the income and cash flow
// sheets and assigns every line/period cell.
func (wb *Workbook) layoutStatement(st *models.Statement) error {
	sheet := sheetNames[st.Kind]
	if err := wb.writePeriodHeader(sheet); err != nil {
		return err
	}
	row := 2
	var lastSection models.Section
	for _, top := range st.Lines {
		if st.Kind == models.StatementCashFlow {
			if section, ok := classify.SectionOf(top.ID, st); ok && section != lastSection {
				if err := wb.writeHeaderRow(sheet, row, cfSectionHeaders[section]); err != nil {
					return err
				}
				lastSection = section
				row++
			}
		}
		var err error
		row, err = wb.layoutLine(st, top, 0, row)
		if err != nil {
			return err
		}
	}
	return nil
}

// layoutBalanceSheet is like layoutStatement but inserts category headers
// and appends the balance-check block underneath.
func (wb *Workbook) layoutBalanceSheet() error {
	st := wb.m.Balance
	if err := wb.writePeriodHeader(sheetBalance); err != nil {
		return err
	}
	row := 2
	var lastCategory models.Category
	for _, top := range st.Lines {
		if cat, ok := classify.CategoryOf(top.ID, st); ok && cat != lastCategory && top.Kind != models.KindSubtotal {
			if err := wb.writeHeaderRow(sheetBalance, row, bsCategoryHeaders[cat]); err != nil {
				return err
			}
			lastCategory = cat
			row++
		}
		var err error
		row, err = wb.layoutLine(st, top, 0, row)
		if err != nil {
			return err
		}
	}

	row++ // blank separator
	if err := wb.writeHeaderRow(sheetBalance, row, "Balance Check"); err != nil {
		return err
	}
	row++
	checkLabels := []struct{ id, label string }{
		{compile.CheckAssets, "Total Assets"},
		{compile.CheckLiabEquity, "Total Liabilities & Equity"},
		{compile.CheckDifference, "Difference"},
		{compile.CheckBalanced, "Balanced"},
	}
	for _, c := range checkLabels {
		if err := wb.setString(sheetBalance, labelCol, row, c.label); err != nil {
			return err
		}
		for i, p := range wb.m.Periods {
			ref := formula.Ref{Statement: models.StatementBalanceCheck, LineID: c.id, Period: p.Label}
			wb.cells[ref] = cellAddr{sheet: sheetBalance, col: firstPeriodCol + i, row: row}
		}
		row++
	}
	return nil
}

func (wb *Workbook) layoutLine(st *models.Statement, l *models.Line, depth, row int) (int, error) {
	label := strings.Repeat("  ", depth) + l.Label
	if err := wb.setString(sheetNames[st.Kind], labelCol, row, label); err != nil {
		return row, err
	}
	if l.ISLink != "" {
		if err := wb.annotateLink(st.Kind, l, row); err != nil {
			return row, err
		}
	}
	for i, p := range wb.m.Periods {
		ref := formula.Ref{Statement: st.Kind, LineID: l.ID, Period: p.Label}
		wb.cells[ref] = cellAddr{sheet: sheetNames[st.Kind], col: firstPeriodCol + i, row: row}
	}
	row++
	for _, c := range l.Children {
		var err error
		row, err = wb.layoutLine(st, c, depth+1, row)
		if err != nil {
			return row, err
		}
	}
	return row, nil
}

// annotateLink attaches a comment pointing at the mirrored Income Statement
// line, so a reader knows the row is a linked restatement, not an input.
func (wb *Workbook) annotateLink(kind models.StatementKind, l *models.Line, row int) error {
	target := l.ISLink
	if src, ok := wb.m.FindLine(models.StatementIncome, l.ISLink); ok {
		target = src.Label
	}
	cell, err := excelize.CoordinatesToCellName(labelCol, row)
	if err != nil {
		return err
	}
	return wb.f.AddComment(sheetNames[kind], excelize.Comment{
		Cell:   cell,
		Author: "finmodel",
		Paragraph: []excelize.RichTextRun{
			{Text: "Mirrors Income Statement: " + target},
		},
	})
}

func (wb *Workbook) writePeriodHeader(sheet string) error {
	for i, p := range wb.m.Periods {
		label := p.Label
		if p.Historical {
			label += " (A)"
		}
		if err := wb.setString(sheet, firstPeriodCol+i, 1, label); err != nil {
			return err
		}
	}
	return nil
}

func (wb *Workbook) writeHeaderRow(sheet string, row int, text string) error {
	if text == "" {
		return nil
	}
	return wb.setString(sheet, 1, row, text)
}

func (wb *Workbook) setString(sheet string, col, row int, v string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return wb.f.SetCellValue(sheet, cell, v)
}

func (wb *Workbook) addr(ref formula.Ref) (cellAddr, string, error) {
	a, ok := wb.cells[ref]
	if !ok {
		return cellAddr{}, "", fmt.Errorf("no cell laid out for %s/%s/%s", ref.Statement, ref.LineID, ref.Period)
	}
	cell, err := excelize.CoordinatesToCellName(a.col, a.row)
	return a, cell, err
}

// DefineName registers an absolute workbook-scoped name for a logical cell.
func (wb *Workbook) DefineName(ref formula.Ref, name string) error {
	a, _, err := wb.addr(ref)
	if err != nil {
		return err
	}
	abs, err := excelize.CoordinatesToCellName(a.col, a.row, true)
	if err != nil {
		return err
	}
	return wb.f.SetDefinedName(&excelize.DefinedName{
		Name:     name,
		RefersTo: "'" + a.sheet + "'!" + abs,
	})
}

// SetFormula writes a formula into a logical cell.
func (wb *Workbook) SetFormula(ref formula.Ref, formulaText string) error {
	a, cell, err := wb.addr(ref)
	if err != nil {
		return err
	}
	return wb.f.SetCellFormula(a.sheet, cell, strings.TrimPrefix(formulaText, "="))
}

// SetValue writes a literal number into a logical cell.
func (wb *Workbook) SetValue(ref formula.Ref, value float64) error {
	a, cell, err := wb.addr(ref)
	if err != nil {
		return err
	}
	return wb.f.SetCellValue(a.sheet, cell, value)
}

// SetFormat styles a logical cell from its value type and display weight.
func (wb *Workbook) SetFormat(ref formula.Ref, format compile.Format) error {
	a, cell, err := wb.addr(ref)
	if err != nil {
		return err
	}
	bold := format.Kind == models.KindSubtotal || format.Kind == models.KindTotal
	styleID, err := wb.style(styleKey{valueType: format.ValueType, bold: bold})
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(a.sheet, cell, cell, styleID)
}

// SetFact appends a historical fact to the Data sheet and names its value
// cell, so statement cells can reference it instead of embedding a literal.
func (wb *Workbook) SetFact(ref formula.Ref, name string, value float64) error {
	row := wb.factRow
	wb.factRow++
	if err := wb.setString(sheetData, 1, row, name); err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return err
	}
	if err := wb.f.SetCellValue(sheetData, cell, value); err != nil {
		return err
	}
	abs, err := excelize.CoordinatesToCellName(2, row, true)
	if err != nil {
		return err
	}
	return wb.f.SetDefinedName(&excelize.DefinedName{
		Name:     name,
		RefersTo: "'" + sheetData + "'!" + abs,
	})
}

func (wb *Workbook) style(key styleKey) (int, error) {
	if id, ok := wb.styles[key]; ok {
		return id, nil
	}
	var numFmt string
	switch key.valueType {
	case models.TypePercent:
		numFmt = "0.0%"
	case models.TypeCount:
		numFmt = "#,##0"
	default:
		numFmt = "#,##0.00"
	}
	style := &excelize.Style{CustomNumFmt: &numFmt}
	if key.bold {
		style.Font = &excelize.Font{Bold: true}
	}
	id, err := wb.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	wb.styles[key] = id
	return id, nil
}

// Save writes the workbook to disk.
func (wb *Workbook) Save(path string) error {
	if err := wb.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
