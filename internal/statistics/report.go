package statistics

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// Report renders a session's TradingSummaries and exited positions as
// fixed-width text tables, the one piece of this engine's ambient stack
// with no wired third-party table-rendering library.
type Report struct{}

// NewReport returns a Report.
func NewReport() *Report { return &Report{} }

// Summary renders one row per asset plus a trailing "TOTAL" row.
func (Report) Summary(byAsset map[assets.Asset]*TradingSummary, total *TradingSummary) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 2, 2, ' ', 0)

	fmt.Fprintln(w, "ASSET\tTRADES\tPNL/TRADE\tSHARPE\tSORTINO\tCALMAR\tMAX DRAWDOWN")

	assetList := make([]assets.Asset, 0, len(byAsset))
	for a := range byAsset {
		assetList = append(assetList, a)
	}
	sort.Slice(assetList, func(i, j int) bool { return assetList[i].Less(assetList[j]) })

	for _, a := range assetList {
		s := byAsset[a]
		writeSummaryRow(w, a.String(), s)
	}
	if total != nil {
		writeSummaryRow(w, "TOTAL", total)
	}

	w.Flush()
	return sb.String()
}

func writeSummaryRow(w *tabwriter.Writer, label string, s *TradingSummary) {
	fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
		label,
		s.ProfitLoss.Total.Trades,
		s.ProfitLoss.Total.PnLPerContract,
		s.TearSheet.Sharpe.PerTrade,
		s.TearSheet.Sortino.PerTrade,
		s.TearSheet.Calmar.PerTrade,
		s.Drawdown.MaxDrawdown().Value,
	)
}

// ExitedPositions renders one row per closed position in exit-time order.
func (Report) ExitedPositions(exits []position.Exit) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 2, 2, ' ', 0)

	fmt.Fprintln(w, "ASSET\tSIDE\tQTY\tENTER\tEXIT\tREALISED PNL\tRETURN")
	for _, e := range exits {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.2f\t%.2f\t%.4f\t%.4f%%\n",
			e.Asset.String(),
			e.Side.String(),
			e.Quantity,
			e.EnterAvgPriceGross,
			e.ExitAvgPriceGross,
			e.RealisedProfitLoss,
			e.ProfitLossReturn*100,
		)
	}

	w.Flush()
	return sb.String()
}
