package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/sourcing-cli/internal/compare"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/recommend"
	"github.com/sells-group/sourcing-cli/internal/risk"
)

var printer = message.NewPrinter(language.English)

// formatMoney renders amount in the given ISO currency, falling back to a
// plain grouped number when the code is unknown.
func formatMoney(code string, amount float64) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return printer.Sprintf("%.2f %s", amount, code)
	}
	return printer.Sprintf("%s %.2f", printer.Sprint(currency.Symbol(unit)), amount)
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// truncate shortens s to n runes, ending in "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

// formatSuppliers writes a tabular supplier list to out.
func formatSuppliers(out io.Writer, suppliers []model.Supplier) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSUPPLIER\tCOUNTRY\tINDUSTRY\tRELIABILITY\tDELIVERY\tCOST")
	_, _ = fmt.Fprintln(w, "--\t--------\t-------\t--------\t-----------\t--------\t----")
	for _, s := range suppliers {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f%%\t%.0fd\t%s\n",
			s.ID,
			truncate(s.Name, 30),
			s.Country,
			s.Industry,
			s.ReliabilityScore,
			s.AverageDeliveryTime,
			s.CostCompetitiveness,
		)
	}
	_ = w.Flush()
}

// formatOverview writes the overview cards grouped by country.
func formatOverview(out io.Writer, groups []risk.CountryGroup) {
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(out, "No suppliers in the overview.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintf(out, "%s  (%d suppliers, geo risk %s %s)\n",
			g.Country, len(g.Suppliers), optional(g.GeoScore, "%.1f/10"), g.GeoLevel)
		if g.GeoHeadline != "" {
			_, _ = fmt.Fprintf(out, "  %s\n", g.GeoHeadline)
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "  ID\tSUPPLIER\tINDUSTRY\tRELIABILITY\tDELAY\tCOMPOSITE\tRISK")
		for _, c := range g.Suppliers {
			_, _ = fmt.Fprintf(w, "  %d\t%s\t%s\t%.0f%%\t%.1f%%\t%.2f\t%s\n",
				c.SupplierID,
				truncate(c.Name, 30),
				c.Industry,
				c.ReliabilityScore,
				c.DelayPct,
				c.CompositeScore,
				c.CompositeLevel,
			)
		}
		_ = w.Flush()
	}
}

// formatRecommendations writes ranked recommendations to out.
func formatRecommendations(out io.Writer, res recommend.Result) {
	switch res.State {
	case recommend.StateNotComputed:
		_, _ = fmt.Fprintln(out, "Recommendations have not been computed yet.")
		return
	case recommend.StateEmpty:
		_, _ = fmt.Fprintln(out, "No suppliers matched your profile.")
		return
	}

	if res.Summary != "" {
		_, _ = fmt.Fprintln(out, res.Summary)
		_, _ = fmt.Fprintln(out)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tSUPPLIER\tCOUNTRY\tMATCH\tRELIABILITY\tSHIP DAYS\tUSD/KG\tRISK\tREASONS")
	_, _ = fmt.Fprintln(w, "----\t--------\t-------\t-----\t-----------\t---------\t------\t----\t-------")
	for _, e := range res.Entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.0f%%\t%s\t%s\t%s\t%s\n",
			e.Rank,
			truncate(e.SupplierName, 30),
			e.Country,
			e.MatchScore,
			e.ReliabilityScore,
			optional(e.AvgShippingDays, "%.0f"),
			optional(e.ShippingCostUSDPerKg, "%.2f"),
			e.RiskLevel,
			strings.Join(e.MatchReasons, "; "),
		)
	}
	_ = w.Flush()
}

// formatComparison writes comparison rows in the export column layout.
func formatComparison(out io.Writer, rows []compare.Row) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(compare.Header, "\t"))
	for _, rec := range compare.Records(rows) {
		_, _ = fmt.Fprintln(w, strings.Join(rec, "\t"))
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out, "* best value for the metric")
}

// formatAnalysis writes a classified supplier analysis.
func formatAnalysis(out io.Writer, v risk.AnalysisView) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Supplier:\t%s (#%d, %s)\n", v.SupplierName, v.SupplierID, v.Country)
	_, _ = fmt.Fprintf(w, "Ensemble risk:\t%.2f (%s)\n", v.EnsembleScore, v.EnsembleLevel)
	_, _ = fmt.Fprintf(w, "Confidence:\t%s\n", v.Confidence)
	if v.HighUncertainty {
		_, _ = fmt.Fprintf(w, "Uncertainty:\thigh (CV %.2f)\n", v.CV)
	}
	_, _ = fmt.Fprintf(w, "Schedule:\tSPI %.2f (%s), %.1f%% delayed, avg %.1fd late, %s risk\n",
		v.SPI, v.SPIBand, v.DelayPercent, v.AvgDelayDays, v.ScheduleLevel)
	if v.GeoScore != nil {
		_, _ = fmt.Fprintf(w, "Geopolitical:\t%.1f/10 (%s)\n", *v.GeoScore, v.GeoLevel)
		if v.GeoHeadline != "" {
			_, _ = fmt.Fprintf(w, "  Headline:\t%s\n", v.GeoHeadline)
		}
	}
	if v.CostImpact.EstimatedCost > 0 {
		_, _ = fmt.Fprintf(w, "Cost impact:\t%s\n", formatMoney(v.CostImpact.Currency, v.CostImpact.EstimatedCost))
	}
	_ = w.Flush()

	if len(v.Agents) > 0 {
		_, _ = fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "AGENT\tSCORE\tLEVEL\tREASONING")
		for _, a := range v.Agents {
			_, _ = fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\n", a.Agent, a.Score, a.Level, truncate(a.Reasoning, 60))
		}
		_ = w.Flush()
	}

	if len(v.Alternatives) > 0 {
		_, _ = fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ALTERNATIVE\tCOUNTRY\tSCORE\tSAME INDUSTRY")
		for _, a := range v.Alternatives {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%t\n", a.Name, a.Country, a.Score, a.SameIndustry)
		}
		_ = w.Flush()
	}

	if v.Summary != "" {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, v.Summary)
	}
}

// formatHistory writes the history list, newest first.
func formatHistory(out io.Writer, entries []model.HistoryEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No analyses recorded.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSUPPLIER\tCOUNTRY\tSCORE\tRISK\tANALYZED")
	_, _ = fmt.Fprintln(w, "--\t--------\t-------\t-----\t----\t--------")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			truncateID(e.ID),
			truncate(e.SupplierName, 30),
			e.Country,
			e.EnsembleScore,
			e.RiskLevel,
			e.Timestamp.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
