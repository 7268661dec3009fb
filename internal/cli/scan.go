package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/receiptscan/internal/upload"
)

// Scan uploads a receipt image for server-side extraction and prints the
// resulting text. Usage: scan <path> [category].
func (a *App) Scan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: scan <path> [category]")
		return nil
	}
	path := args[0]
	category := ""
	if len(args) > 1 {
		category = args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}

	selected, err := a.pipeline.SelectFile(ctx, filepath.Base(path), data, category)
	if err != nil {
		if errors.Is(err, upload.ErrInvalidFile) {
			printlnFn("Please select a valid image file.")
		} else {
			printlnFn("Upload failed:", err.Error())
		}
		return err
	}

	printlnFn("Extracting details...")
	artifact := a.waitArtifact(ctx, selected.ID)

	switch artifact.State {
	case upload.StateDone:
		printlnFn(artifact.Message)
		printlnFn("")
		printlnFn(artifact.ExtractedText)
	case upload.StateFailed:
		printlnFn("Failed:", artifact.Message)
	default:
		printlnFn("Still processing; run 'export' later to fetch the result.")
	}
	return nil
}

// Export writes the extracted text of the last completed scan to the given
// path, or prints it when no path is given. Best-effort: failures do not
// change the artifact.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.pipeline.ExportText(os.Stdout); err != nil {
			printlnFn("Nothing to export:", err.Error())
			return err
		}
		printlnFn("")
		return nil
	}

	f, err := os.Create(args[0])
	if err != nil {
		printlnFn("Cannot create file:", err.Error())
		return err
	}
	defer f.Close()

	if err := a.pipeline.ExportText(f); err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Extracted text written to %s", args[0]))
	return nil
}
