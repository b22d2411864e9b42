package compare

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Header is the column layout used by the table, CSV, and XLSX exports.
var Header = []string{
	"Country",
	"Suppliers",
	"Industry Matches",
	"Avg Reliability %",
	"Avg Delay %",
	"Geo Risk (0-10)",
	"Corporate Tax %",
	"Shipping Days",
	"Shipping USD/kg",
	"Customs Days",
	"Political Stability",
	"FTA",
	"Economy",
	"Risk Headline",
}

// bestMarker is appended to a cell holding the best value of its metric.
const bestMarker = " *"

// Records renders rows as string records in Header order. Unknown values
// render as "-"; best values are suffixed with an asterisk.
func Records(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		cell := func(m Metric, v *float64, prec int) string {
			if v == nil {
				return "-"
			}
			s := strconv.FormatFloat(*v, 'f', prec, 64)
			if r.IsBest(m) {
				s += bestMarker
			}
			return s
		}
		avg := func(m Metric, v float64) string {
			s := strconv.FormatFloat(v, 'f', 1, 64)
			if r.IsBest(m) {
				s += bestMarker
			}
			return s
		}

		fta := "-"
		if r.HasFTA != nil {
			fta = "No"
			if *r.HasFTA {
				fta = "Yes"
			}
		}
		headline := "-"
		if r.RiskHeadline != nil && strings.TrimSpace(*r.RiskHeadline) != "" {
			headline = *r.RiskHeadline
		}
		economy := r.EconomyLabel
		if economy == "" {
			economy = "-"
		}

		out = append(out, []string{
			r.Country,
			strconv.Itoa(r.SupplierCount),
			strconv.Itoa(r.IndustryMatches),
			avg(MetricAvgReliability, r.AvgReliability),
			avg(MetricAvgDelayPct, r.AvgDelayPct),
			cell(MetricRiskScore, r.RiskScore, 1),
			cell(MetricCorporateTax, r.CorporateTaxPct, 1),
			cell(MetricShippingDays, r.AvgShippingDays, 0),
			cell(MetricShippingCost, r.ShippingCostUSDPerKg, 2),
			cell(MetricCustomsDays, r.CustomsClearanceDays, 0),
			cell(MetricPoliticalStability, r.PoliticalStability, 1),
			fta,
			economy,
			headline,
		})
	}
	return out
}

// WriteCSV writes the header and one record per row to w.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return eris.Wrap(err, "compare: write csv header")
	}
	if err := cw.WriteAll(Records(rows)); err != nil {
		return eris.Wrap(err, "compare: write csv rows")
	}
	return nil
}

// SheetName is the worksheet name used by WriteXLSX.
const SheetName = "Comparison"

// WriteXLSX saves the comparison as a single-sheet workbook at path.
func WriteXLSX(path string, rows []Row) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "compare: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range Header {
		c := header.AddCell()
		c.SetString(h)
		c.GetStyle().Font.Bold = true
	}

	for _, rec := range Records(rows) {
		row := sheet.AddRow()
		for _, v := range rec {
			row.AddCell().SetString(v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "compare: save xlsx %s", path)
	}
	return nil
}
