package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casthub/catadm/internal/core/services"
	"github.com/casthub/catadm/pkg/ui"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

var (
	assetsPage    int
	assetsCountry string
	assetsPremium bool
	assetsCopy    bool
)

var assetsCmd = &cobra.Command{
	Use:   "assets [category]",
	Short: "List assets in a category",
	Long: `List one page of assets in a category.

With no category argument, an interactive picker is shown.
Use --copy to pick an asset and copy its media URL to the clipboard.

Examples:
  catadm assets wallpapers
  catadm assets wallpapers --page 2 --country us
  catadm assets wallpapers --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssets,
}

func init() {
	assetsCmd.Flags().IntVarP(&assetsPage, "page", "p", 1, "Page number")
	assetsCmd.Flags().StringVar(&assetsCountry, "country", "", "Filter by country code")
	assetsCmd.Flags().BoolVar(&assetsPremium, "premium", false, "Show only premium assets")
	assetsCmd.Flags().BoolVarP(&assetsCopy, "copy", "c", false, "Pick an asset and copy its media URL")
}

func runAssets(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	category, err := pickCategory(args)
	if err != nil {
		return err
	}

	resp, err := catalogService.ListAssets(ctx, services.ListAssetsRequest{
		CategoryID:    category.ID,
		Page:          assetsPage,
		PageSize:      appConfig.PageSize,
		CountryFilter: assetsCountry,
		PremiumOnly:   assetsPremium,
	})
	if err != nil {
		return err
	}

	if len(resp.Assets) == 0 {
		fmt.Println(ui.FormatWarning("No assets found."))
		return nil
	}

	if assetsCopy {
		return copyAssetURL(resp)
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ORDER", Width: 5, Align: "right"},
		{Header: "ID", Width: 12},
		{Header: "PREMIUM", Width: 7},
		{Header: "COUNT", Width: 5, Align: "right"},
		{Header: "COUNTRY", Width: 7},
		{Header: "PROMPT", Width: 30},
	})
	for _, a := range resp.Assets {
		premium := ""
		if a.IsPremium {
			premium = ui.IconPremium
		}
		prompt := a.Prompt
		if len(prompt) > 40 {
			prompt = prompt[:37] + "..."
		}
		table.AddRow([]string{
			fmt.Sprintf("%d", a.Order),
			a.ID,
			premium,
			fmt.Sprintf("%d", a.Count),
			a.Country,
			prompt,
		})
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%s - page %d/%d (%d assets total)",
		category.Name, resp.Pagination.Page, resp.Pagination.TotalPages, resp.Pagination.Total)))
	fmt.Println()
	fmt.Print(table.Render())

	return nil
}

func copyAssetURL(resp *services.ListAssetsResponse) error {
	idx, err := fuzzyfinder.Find(
		resp.Assets,
		func(i int) string {
			return fmt.Sprintf("#%d %s", resp.Assets[i].Order, resp.Assets[i].ID)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			a := resp.Assets[i]
			return fmt.Sprintf("URL: %s\nPremium: %v\nCount: %d\nPrompt: %s",
				a.MediaURL, a.IsPremium, a.Count, a.Prompt)
		}),
	)
	if err != nil {
		return nil // Cancelled
	}

	url := resp.Assets[idx].MediaURL
	fmt.Println(ui.FormatSuccess("Selected: " + resp.Assets[idx].ID))
	fmt.Println(ui.StyleBold.Render(url))

	// Try to write to clipboard (non-blocking if fails)
	if err := clipboard.WriteAll(url); err != nil {
		fmt.Println(ui.FormatMuted("(Clipboard access failed, please copy manually)"))
	}

	return nil
}
