package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/casthub/catadm/internal/adapters/api"
	"github.com/casthub/catadm/internal/core/services"
	"github.com/casthub/catadm/pkg/config"
	"github.com/casthub/catadm/pkg/ui"
)

var (
	// Global config and API client
	appConfig *config.Config
	apiClient *api.Client

	// Services
	catalogService *services.CatalogService
	uploadService  *services.UploadService

	// Flags
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catadm",
	Short: "catadm - Terminal admin console for the content catalog",
	Long: ui.StyleTitle.Render("catadm") + " - Content Catalog Admin\n\n" +
		"Manage catalog categories and media assets from the terminal.\n" +
		"Edit fields inline, reorder by drag, and upload in bulk.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.config/catadm/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Config inspection must work without a reachable backend
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg

	ui.SetTheme(cfg.ColorTheme)

	if cmd.Name() == "config" || cmd.Name() == "version" {
		return nil
	}

	if cfg.APIBaseURL == "" {
		fmt.Println(ui.FormatError("No API base URL configured"))
		fmt.Println(ui.FormatInfo("Set api_base_url in the config file or export CATADM_API_URL"))
		os.Exit(1)
	}

	apiClient = api.NewClient(cfg.APIBaseURL, cfg.APIToken)

	catalogService = services.NewCatalogService(apiClient)
	uploadService = services.NewUploadService(apiClient)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
