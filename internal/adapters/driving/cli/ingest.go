package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doctalk-labs/doctalk/internal/logger"
)

var (
	ingestTitle string
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest text or markdown files",
	Long: `Reads the given files, splits them into chunks and indexes them for
search. Markdown structure (headers, code blocks, lists, tables) is
preserved in the chunk boundaries.

With --watch, keeps running and re-ingests files when they change on
disk.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title (single file only, defaults to file name)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch files and re-ingest on change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if ingestTitle != "" && len(args) > 1 {
		return errors.New("--title applies to a single file")
	}

	ingested := make(map[string]int64, len(args))
	for _, path := range args {
		id, err := ingestFile(cmd, path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		ingested[abs] = id
	}

	if ingestWatch {
		return watchFiles(cmd, ingested)
	}
	return nil
}

func ingestFile(cmd *cobra.Command, path string) (int64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	title := ingestTitle
	if title == "" {
		title = filepath.Base(path)
	}

	doc, err := documentService.Ingest(
		cmd.Context(), userIDFlag, title, documentTypeFor(path), string(content))
	if err != nil {
		return 0, fmt.Errorf("ingest %s: %w", path, err)
	}

	cmd.Printf("Ingested %s as document %d (%d chunks, status %s)\n",
		path, doc.ID, doc.ChunkCount, doc.Status)
	return doc.ID, nil
}

// documentTypeFor maps a file extension to a document type.
func documentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	default:
		return "text"
	}
}

// watchFiles blocks, re-ingesting any watched file that is written to.
// The previous document is deleted first so a changed file replaces its
// index entry instead of accumulating copies.
func watchFiles(cmd *cobra.Command, ingested map[string]int64) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for abs := range ingested {
		// Watch the directory: many editors rename over the file, which
		// drops a watch registered on the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", abs, err)
		}
	}

	cmd.Printf("Watching %d file(s) for changes. Ctrl-C to stop.\n", len(ingested))

	// Editors often emit bursts of events per save; coalesce them.
	const debounce = 500 * time.Millisecond
	lastIngest := make(map[string]time.Time)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			oldID, watched := ingested[abs]
			if !watched {
				continue
			}
			if time.Since(lastIngest[abs]) < debounce {
				continue
			}
			lastIngest[abs] = time.Now()

			if err := documentService.Delete(cmd.Context(), oldID); err != nil {
				logger.Warn("Delete of stale document %d failed: %v", oldID, err)
			}
			newID, err := ingestFile(cmd, abs)
			if err != nil {
				logger.Warn("Re-ingest failed: %v", err)
				continue
			}
			ingested[abs] = newID

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
