package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/internal/core/services"
	"github.com/casthub/catadm/pkg/ui"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

var (
	categoriesSort    string
	categoriesReverse bool
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "List catalog categories (alias: cats)",
	Long: `List all catalog categories with asset counts.

Examples:
  catadm categories
  catadm categories --sort assets --reverse`,
	RunE: runCategories,
}

func init() {
	categoriesCmd.Flags().StringVarP(&categoriesSort, "sort", "s", "name", "Sort by: name, assets")
	categoriesCmd.Flags().BoolVarP(&categoriesReverse, "reverse", "r", false, "Reverse sort order")
}

func runCategories(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := catalogService.ListCategories(ctx, services.ListCategoriesRequest{
		SortBy:  categoriesSort,
		Reverse: categoriesReverse,
	})
	if err != nil {
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No categories found."))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "NAME", Width: 20},
		{Header: "SLUG", Width: 16},
		{Header: "ASSETS", Width: 6, Align: "right"},
		{Header: "PREMIUM", Width: 7, Align: "right"},
	})
	for _, cat := range resp.Categories {
		table.AddRow([]string{
			cat.Name,
			cat.Slug,
			fmt.Sprintf("%d", cat.AssetCount),
			fmt.Sprintf("%d", cat.PremiumCount),
		})
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Categories (%d)", resp.Total)))
	fmt.Println()
	fmt.Print(table.Render())

	return nil
}

// pickCategory resolves a category from an optional argument, falling back
// to an interactive fuzzy picker when none was given
func pickCategory(args []string) (*domain.Category, error) {
	ctx := getContext()

	if len(args) > 0 {
		return catalogService.FindCategory(ctx, args[0])
	}

	resp, err := catalogService.ListCategories(ctx, services.ListCategoriesRequest{SortBy: "name"})
	if err != nil {
		return nil, err
	}
	if resp.Total == 0 {
		return nil, fmt.Errorf("no categories found")
	}

	idx, err := fuzzyfinder.Find(
		resp.Categories,
		func(i int) string {
			return resp.Categories[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			cat := resp.Categories[i]
			return fmt.Sprintf("Name: %s\nSlug: %s\nAssets: %d (%d premium)",
				cat.Name, cat.Slug, cat.AssetCount, cat.PremiumCount)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("cancelled")
	}
	return &resp.Categories[idx], nil
}
