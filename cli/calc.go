package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/cpi-engine/cpi"
)

// rangeFlags are shared by change and series.
type rangeFlags struct {
	start  string
	end    string
	amount string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "start month, YYYY-MM (required)")
	cmd.Flags().StringVar(&f.end, "end", "", "end month, YYYY-MM (required)")
	cmd.Flags().StringVar(&f.amount, "amount", "100", "amount to convert")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (f *rangeFlags) parse(calc *cpi.Calculator) (cpi.Range, decimal.Decimal, error) {
	start, err := cpi.ParsePeriod(f.start)
	if err != nil {
		return cpi.Range{}, decimal.Zero, err
	}
	end, err := cpi.ParsePeriod(f.end)
	if err != nil {
		return cpi.Range{}, decimal.Zero, err
	}
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return cpi.Range{}, decimal.Zero, fmt.Errorf("invalid amount %q", f.amount)
	}
	r, err := calc.NewRange(start.Year, int(start.Month), end.Year, int(end.Month))
	if err != nil {
		return cpi.Range{}, decimal.Zero, err
	}
	return r, amount, nil
}

// =============================================================================
// CHANGE
// =============================================================================

func changeCmd(appFn func() *app) *cobra.Command {
	var flags rangeFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "change",
		Short: "Percent change and inflation-adjusted amount between two months",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			r, amount, err := flags.parse(a.calc)
			if err != nil {
				return err
			}
			res, err := a.calc.ComputeChange(cmd.Context(), r, amount)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return writeChange(out, res)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func writeChange(w io.Writer, res cpi.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Period:\t%s (start and end months included)\n", res.Range)
	fmt.Fprintf(tw, "Index:\t%s -> %s\n", res.StartIndex, res.EndIndex)
	fmt.Fprintf(tw, "Change:\t%s%%\n", res.PercentChange.StringFixed(cpi.Precision))
	fmt.Fprintf(tw, "Amount:\t%s\n", res.Amount)
	fmt.Fprintf(tw, "Worth:\t%s\n", res.ConvertedAmount)
	fmt.Fprintf(tw, "Transition:\t%s\n", res.Transition.Category)
	return tw.Flush()
}

// =============================================================================
// SERIES
// =============================================================================

func seriesCmd(appFn func() *app) *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Monthly change relative to the start month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			r, amount, err := flags.parse(a.calc)
			if err != nil {
				return err
			}
			points, err := a.calc.ComputeSeries(cmd.Context(), r, amount)
			if err != nil {
				return err
			}
			return writeSeries(cmd.OutOrStdout(), points)
		},
	}

	flags.register(cmd)
	return cmd
}

func writeSeries(w io.Writer, points []cpi.SeriesPoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERIOD\tINDEX\tCHANGE %\tVALUE\t")
	for _, p := range points {
		if !p.Available() {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t\n", p.Period)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			p.Period,
			p.Index.String(),
			p.PercentChangeFromStart.StringFixed(cpi.Precision),
			p.Value.StringFixed(cpi.Precision))
	}
	return tw.Flush()
}

// =============================================================================
// CLASSIFY
// =============================================================================

func classifyCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify YYYY-MM",
		Short: "Show the currency era of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			p, err := cpi.ParsePeriod(args[0])
			if err != nil {
				return err
			}
			if err := a.calc.Bounds().Check(p); err != nil {
				return err
			}

			eras := a.calc.Eras()
			names := make([]string, 0, 2)
			for _, e := range eras.Eras(p) {
				names = append(names, e.String())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", p, eras.Classify(p))
			fmt.Fprintf(out, "eras: %s\n", strings.Join(names, ", "))
			if eras.InCoexistence(p) {
				fmt.Fprintln(out, "coexistence: two currencies circulate")
			}
			if eras.IsAnnual(p) {
				fmt.Fprintf(out, "annual: month locked, uses %s\n", eras.Normalize(p))
			}
			return nil
		},
	}
}
