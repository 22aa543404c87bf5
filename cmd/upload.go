package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/internal/core/services"
	"github.com/casthub/catadm/pkg/ui"
)

var (
	uploadPremium bool
	uploadCount   int
	uploadPrompt  string
	uploadCountry string
	uploadWatch   bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <category> <file>... ",
	Short: "Upload media files to a category",
	Long: `Upload one or more media files to a category.

Accepted types: jpg, jpeg, png, gif, webp, mp4, webm.
Files go up one at a time; the backend appends each to the end of the
collection. Duplicate content (same bytes) within a session is skipped.

With --watch, the given directory is monitored and new media files are
uploaded as they appear.

Examples:
  catadm upload wallpapers hero.png beach.jpg
  catadm upload wallpapers ~/renders --watch --premium --country us`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadPremium, "premium", false, "Mark uploads as premium")
	uploadCmd.Flags().IntVar(&uploadCount, "count", 1, "Initial count value")
	uploadCmd.Flags().StringVar(&uploadPrompt, "prompt", "", "Prompt text for the uploads")
	uploadCmd.Flags().StringVar(&uploadCountry, "country", "", "Country code for the uploads")
	uploadCmd.Flags().BoolVarP(&uploadWatch, "watch", "w", false, "Watch a directory and upload new media files")
}

func runUpload(cmd *cobra.Command, args []string) error {
	category, err := pickCategory(args[:1])
	if err != nil {
		return err
	}

	meta := domain.UploadMeta{
		IsPremium: uploadPremium,
		Count:     uploadCount,
		Prompt:    uploadPrompt,
		Country:   uploadCountry,
	}
	if meta.Country == "" {
		meta.Country = appConfig.DefaultCountry
	}

	if uploadWatch {
		return watchAndUpload(category.ID, args[1], meta)
	}

	return uploadBatch(category.ID, args[1:], meta)
}

func uploadBatch(categoryID string, files []string, meta domain.UploadMeta) error {
	ctx := getContext()

	resp, err := uploadService.Execute(ctx, services.UploadRequest{
		CategoryID: categoryID,
		Files:      files,
		Meta:       meta,
	})
	if err != nil {
		return err
	}

	for _, r := range resp.Results {
		name := filepath.Base(r.Path)
		switch {
		case r.Err != nil:
			fmt.Println(ui.FormatError(name + ": " + r.Err.Error()))
		case r.Skipped:
			fmt.Println(ui.FormatMuted(name + ": duplicate content, skipped"))
		default:
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s → #%d", name, r.Asset.Order)))
		}
	}

	fmt.Println()
	summary := fmt.Sprintf("%d uploaded, %d skipped, %d failed", resp.Succeeded, resp.Skipped, resp.Failed)
	if resp.Failed > 0 {
		fmt.Println(ui.FormatWarning(summary))
	} else {
		fmt.Println(ui.FormatSuccess(summary))
	}

	return nil
}

// watchAndUpload monitors a directory and uploads new media files as they
// settle. Editors and downloaders emit several events per file, so each
// path gets a debounce timer before it goes up.
func watchAndUpload(categoryID, dir string, meta domain.UploadMeta) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	fmt.Println(ui.FormatInfo("Watching: " + dir))
	fmt.Println(ui.FormatMuted("New media files will be uploaded automatically. Ctrl+C to stop."))
	fmt.Println()

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	timers := make(map[string]*time.Timer)
	uploads := make(chan string)

	go func() {
		for path := range uploads {
			if err := uploadBatch(categoryID, []string{path}, meta); err != nil {
				fmt.Println(ui.FormatError(err.Error()))
			}
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !services.IsMediaFile(event.Name) {
				continue
			}

			// Filter out hidden and partial files
			baseName := filepath.Base(event.Name)
			if strings.HasPrefix(baseName, ".") || strings.HasPrefix(baseName, "~") {
				continue
			}

			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				path := event.Name
				if t, ok := timers[path]; ok {
					t.Stop()
				}
				timers[path] = time.AfterFunc(debounce, func() {
					uploads <- path
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}
