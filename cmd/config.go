package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/casthub/catadm/pkg/config"
	"github.com/casthub/catadm/pkg/ui"
)

var configEdit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the catadm configuration",
	Long: `Show the resolved configuration, or open the config file in $EDITOR.

The API URL and token can also come from environment variables, which take
precedence over the file:
  CATADM_API_URL
  CATADM_API_TOKEN`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVarP(&configEdit, "edit", "e", false, "Open the config file in $EDITOR")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	if configEdit {
		// Write out current values first so the user edits a complete file
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := appConfig.Save(path); err != nil {
				return err
			}
			fmt.Println(ui.FormatInfo("Created config: " + path))
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	}

	token := "(not set)"
	if appConfig.APIToken != "" {
		token = "********"
	}

	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println(ui.FormatMuted("File: " + path))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("API URL", appConfig.APIBaseURL))
	fmt.Println(ui.RenderKeyValue("API Token", token))
	fmt.Println(ui.RenderKeyValue("Page Size", fmt.Sprintf("%d", appConfig.PageSize)))
	fmt.Println(ui.RenderKeyValue("Grid Columns", fmt.Sprintf("%d", appConfig.GridColumns)))
	fmt.Println(ui.RenderKeyValue("Card Height", fmt.Sprintf("%d", appConfig.CardHeight)))
	fmt.Println(ui.RenderKeyValue("Bypass Threshold", fmt.Sprintf("%d", appConfig.GridBypassThreshold)))
	fmt.Println(ui.RenderKeyValue("Debounce", fmt.Sprintf("%dms", appConfig.DebounceMS)))
	fmt.Println(ui.RenderKeyValue("Prompt Debounce", fmt.Sprintf("%dms", appConfig.PromptDebounceMS)))
	fmt.Println(ui.RenderKeyValue("Watch Debounce", fmt.Sprintf("%dms", appConfig.WatchDebounceMS)))
	fmt.Println(ui.RenderKeyValue("Theme", appConfig.ColorTheme))

	return nil
}
