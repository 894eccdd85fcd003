package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/xuri/excelize/v2"
)

type Input struct {
	TotalSales        float64
	TotalExpenses     float64
	TotalVatCollected float64
	TotalPayeRemitted float64
}

// FilingSummary is built only from kernel outputs.
type FilingSummary struct {
	Status            tax.CompanyStatus
	TotalSales        float64
	TotalExpenses     float64
	AssessableProfit  float64
	CITPayable        float64
	DevelopmentLevy   float64
	TotalVatCollected float64
	TotalInputVat     float64
	NetVat            float64
	TotalPayeRemitted float64
}

// Build assembles the summary. A loss-making year has an assessable profit
// of zero.
func Build(in Input, status tax.CompanyStatus, receipts []tax.Receipt) FilingSummary {
	profit := math.Max(0, in.TotalSales-in.TotalExpenses)

	return FilingSummary{
		Status:            status,
		TotalSales:        in.TotalSales,
		TotalExpenses:     in.TotalExpenses,
		AssessableProfit:  profit,
		CITPayable:        tax.ComputeCIT(profit, status),
		DevelopmentLevy:   tax.ComputeLevy(profit, status),
		TotalVatCollected: in.TotalVatCollected,
		TotalInputVat:     tax.TotalInputVat(receipts),
		NetVat:            tax.NetVat(in.TotalVatCollected, receipts),
		TotalPayeRemitted: in.TotalPayeRemitted,
	}
}

type Row struct {
	Metric string
	Value  string
}

func (s FilingSummary) exemptNote(v float64) string {
	if s.Status == tax.StatusSmall {
		return tax.FormatAmount(v) + " (Small Company)"
	}
	return tax.FormatAmount(v)
}

func (s FilingSummary) Rows() []Row {
	return []Row{
		{"Total Sales (Turnover)", tax.FormatAmount(s.TotalSales)},
		{"Total Allowable Expenses", tax.FormatAmount(s.TotalExpenses)},
		{"Assessable Profit", tax.FormatAmount(s.AssessableProfit)},
		{"CIT Payable", s.exemptNote(s.CITPayable)},
		{"4% Development Levy", s.exemptNote(s.DevelopmentLevy)},
		{"Total VAT Collected (Output)", tax.FormatAmount(s.TotalVatCollected)},
		{"Total VAT Paid (Input)", tax.FormatAmount(s.TotalInputVat)},
		{"Net VAT to Remit", tax.FormatAmount(s.NetVat)},
		{"Total PAYE Remitted", tax.FormatAmount(s.TotalPayeRemitted)},
	}
}

func WriteCSV(w io.Writer, s FilingSummary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}

	for _, r := range s.Rows() {
		if err := cw.Write([]string{r.Metric, r.Value}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

const sheetName = "Filing Report"

func WriteXLSX(w io.Writer, s FilingSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4F46E5"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheetName, "A1", &[]interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "B1", headerStyle); err != nil {
		return err
	}

	for i, r := range s.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheetName, cell, &[]interface{}{r.Metric, r.Value}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 32); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	return nil
}
