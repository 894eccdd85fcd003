package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/spf13/cobra"
)

func writeLines(w io.Writer, lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func row(label string, v float64) string {
	return fmt.Sprintf("%-22s %s", label+":", tax.FormatAmount(v))
}

func newClassifyCmd() *cobra.Command {
	var turnover, assets string

	c := &cobra.Command{
		Use:     "classify",
		Short:   "Classify a company as small or medium/large",
		Example: `  taxpadi classify --turnover 50,000,000 --fixed-assets 120,000,000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := tax.Classify(tax.ParseAmount(turnover), tax.ParseAmount(assets))

			writeLines(cmd.OutOrStdout(), "Status: "+status.String())

			return nil
		},
	}

	c.Flags().StringVar(&turnover, "turnover", "", "annual turnover")
	c.Flags().StringVar(&assets, "fixed-assets", "", "total fixed assets")

	return c
}

func newPayeCmd() *cobra.Command {
	var salary string

	c := &cobra.Command{
		Use:     "paye",
		Short:   "Compute PAYE, pension and housing fund for a monthly salary",
		Example: `  taxpadi paye --monthly 250,000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := tax.ComputePayroll(tax.ParseAmount(salary))
			annual, monthly := result.Breakdown(), result.Monthly()
			out := cmd.OutOrStdout()

			writeLines(out,
				row("Gross annual", result.Gross),
				row("Consolidated relief", result.Relief),
				row("Taxable income", result.TaxableIncome),
				"",
			)

			for _, s := range result.Statements {
				writeLines(out, row(s.Rate.Label, s.Tax))
			}

			writeLines(out,
				"",
				row("Annual PAYE", annual.Tax),
				row("Annual pension", annual.Pension),
				row("Annual housing fund", annual.HousingFund),
				row("Annual net pay", annual.NetPay),
				row("Monthly PAYE", monthly.Tax),
				row("Monthly net pay", monthly.NetPay),
			)

			return nil
		},
	}

	c.Flags().StringVar(&salary, "monthly", "", "gross monthly salary")

	return c
}

func newPitCmd() *cobra.Command {
	var income string

	c := &cobra.Command{
		Use:     "pit",
		Short:   "Estimate personal income tax for a freelancer",
		Example: `  taxpadi pit --income 4,500,000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			est := tax.EstimatePersonalTax(tax.ParseAmount(income))
			out := cmd.OutOrStdout()

			if est.Exempt {
				writeLines(out, "Exempt: income is at or below "+tax.FormatAmount(tax.ExemptionThreshold))
				return nil
			}

			writeLines(out, row("Annual income", est.Income), row("Estimated tax", est.Tax))

			return nil
		},
	}

	c.Flags().StringVar(&income, "income", "", "annual income")

	return c
}

func newLevyCmd() *cobra.Command {
	var profit, status string

	c := &cobra.Command{
		Use:     "levy",
		Short:   "Compute the development levy and CIT for a company",
		Example: `  taxpadi levy --profit 10,000,000 --status MEDIUM_LARGE`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := tax.ParseCompanyStatus(strings.ToUpper(status))
			if !ok {
				return fmt.Errorf("unknown status %q, use SMALL, MEDIUM_LARGE or UNKNOWN", status)
			}

			p := tax.ParseAmount(profit)

			writeLines(cmd.OutOrStdout(),
				row("Assessable profit", p),
				row("Development levy", tax.ComputeLevy(p, s)),
				row("CIT payable", tax.ComputeCIT(p, s)),
			)

			return nil
		},
	}

	c.Flags().StringVar(&profit, "profit", "", "assessable profit")
	c.Flags().StringVar(&status, "status", tax.StatusUnknown.String(), "company status")

	return c
}

func newVatCmd() *cobra.Command {
	var output string
	var inputs []string

	c := &cobra.Command{
		Use:     "vat",
		Short:   "Compute net VAT from output VAT and receipt input VAT",
		Example: `  taxpadi vat --output 850,250 --input 315,100 --input 12,000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			receipts := make([]tax.Receipt, 0, len(inputs))
			for _, in := range inputs {
				receipts = append(receipts, tax.Receipt{VatAmount: tax.ParseAmount(in)})
			}

			out := tax.ParseAmount(output)
			net := tax.NetVat(out, receipts)

			writeLines(cmd.OutOrStdout(),
				row("Output VAT", out),
				row("Input VAT", tax.TotalInputVat(receipts)),
				row("Net VAT", net),
			)

			if net < 0 {
				writeLines(cmd.OutOrStdout(), "Refund position: input VAT exceeds output VAT")
			}

			return nil
		},
	}

	c.Flags().StringVar(&output, "output", "", "output VAT collected")
	c.Flags().StringArrayVar(&inputs, "input", nil, "input VAT of one receipt, repeatable")

	return c
}
