package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/casthub/catadm/internal/core/services"
	"github.com/casthub/catadm/pkg/ui"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var statsHTMLPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Long: `Show per-category asset counts and premium share.

With --html, also write an interactive bar chart to the given file.

Examples:
  catadm stats
  catadm stats --html report.html`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsHTMLPath, "html", "", "Write an HTML bar chart to this file")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := catalogService.Stats(ctx, services.StatsRequest{})
	if err != nil {
		return err
	}

	if resp.TotalCategories == 0 {
		fmt.Println(ui.FormatWarning("No categories found."))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "CATEGORY", Width: 20},
		{Header: "ASSETS", Width: 6, Align: "right"},
		{Header: "PREMIUM", Width: 7, Align: "right"},
		{Header: "SHARE", Width: 6, Align: "right"},
	})
	for _, row := range resp.Rows {
		table.AddRow([]string{
			row.Category.Name,
			fmt.Sprintf("%d", row.Category.AssetCount),
			fmt.Sprintf("%d", row.Category.PremiumCount),
			fmt.Sprintf("%.0f%%", row.PremiumShare*100),
		})
	}

	fmt.Println(ui.FormatTitle("Catalog Statistics"))
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Categories", fmt.Sprintf("%d", resp.TotalCategories)))
	fmt.Println(ui.RenderKeyValue("Assets", fmt.Sprintf("%d", resp.TotalAssets)))
	fmt.Println(ui.RenderKeyValue("Premium", fmt.Sprintf("%d", resp.TotalPremium)))

	if statsHTMLPath != "" {
		if err := writeStatsChart(resp, statsHTMLPath); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Println()
		fmt.Println(ui.FormatSuccess("Chart written to " + statsHTMLPath))
	}

	return nil
}

// writeStatsChart renders the per-category counts as an HTML bar chart
func writeStatsChart(resp *services.StatsResponse, path string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Catalog Assets by Category",
			Subtitle: fmt.Sprintf("%d assets in %d categories", resp.TotalAssets, resp.TotalCategories),
		}),
	)

	names := make([]string, 0, len(resp.Rows))
	totals := make([]opts.BarData, 0, len(resp.Rows))
	premiums := make([]opts.BarData, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		names = append(names, row.Category.Name)
		totals = append(totals, opts.BarData{Value: row.Category.AssetCount})
		premiums = append(premiums, opts.BarData{Value: row.Category.PremiumCount})
	}

	bar.SetXAxis(names).
		AddSeries("Assets", totals).
		AddSeries("Premium", premiums)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return bar.Render(f)
}
