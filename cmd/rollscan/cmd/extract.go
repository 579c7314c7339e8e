package cmd

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rollscan/rollscan/internal/export"
	"github.com/rollscan/rollscan/internal/pdf"
	"github.com/rollscan/rollscan/internal/pipeline"
	"github.com/rollscan/rollscan/internal/utils"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract voter records from roll scans",
	Long: `Extract voter records from one or more scanned roll pages. Inputs may
be page images (PNG, JPEG) or a PDF containing full-page scans. The
output format follows the output file extension (.csv, .json, .xlsx);
without -o, CSV goes to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "output file (.csv, .json, or .xlsx; default stdout CSV)")
	extractCmd.Flags().String("pages", "", "PDF page selection, e.g. \"1-5\" or \"2,4\"")
	extractCmd.Flags().String("language", "", "recognition language (default from config)")
	extractCmd.Flags().String("layout", "", "box layout variant (default from config)")
	extractCmd.Flags().Int("workers", 0, "page-level worker count (default from config)")
	extractCmd.Flags().Duration("page-timeout", 0, "per-page processing timeout")
	extractCmd.Flags().String("debug-dir", "", "write box overlays and cleaned crops to this directory")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	start := time.Now()

	images, err := loadInputs(cmd, args)
	if err != nil {
		return err
	}

	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			slog.Warn("pipeline close failed", "error", cerr)
		}
	}()

	run, err := p.ProcessPages(cmd.Context(), images)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if failed := run.FailedPages(); len(failed) > 0 {
		slog.Warn("some pages failed", "pages", failed)
	}

	if err := writeOutput(cmd, run); err != nil {
		return err
	}

	slog.Info("extraction finished",
		"pages", len(run.Pages),
		"records", run.Summary.Total,
		"complete", run.Summary.Complete,
		"duplicates", run.Summary.Duplicates,
		"duration", time.Since(start))
	return nil
}

// loadInputs turns the command arguments into page images. A single PDF
// argument expands into its page scans; otherwise every argument is an
// image file.
func loadInputs(cmd *cobra.Command, args []string) ([]image.Image, error) {
	if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
		pageRange, _ := cmd.Flags().GetString("pages")
		if pageRange == "" {
			pageRange = globalConfig.Output.Pages
		}
		images, nums, err := pdf.LoadPages(args[0], pageRange)
		if err != nil {
			return nil, fmt.Errorf("load PDF %s: %w", args[0], err)
		}
		slog.Info("PDF pages loaded", "file", args[0], "pages", nums)
		return images, nil
	}

	images := make([]image.Image, 0, len(args))
	for _, path := range args {
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil, fmt.Errorf("PDF input must be the only argument (got %s among %d inputs)", path, len(args))
		}
		img, err := utils.LoadImageFile(path)
		if err != nil {
			return nil, fmt.Errorf("load image %s: %w", path, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func buildPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	builder := pipeline.NewBuilder().WithConfig(globalConfig.Pipeline)

	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		builder.WithLanguage(lang)
	}
	if layoutName, _ := cmd.Flags().GetString("layout"); layoutName != "" {
		builder.WithLayoutVariant(layoutName)
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		builder.WithWorkers(workers)
	}
	if timeout, _ := cmd.Flags().GetDuration("page-timeout"); timeout > 0 {
		builder.WithPageTimeout(timeout)
	}
	if debugDir, _ := cmd.Flags().GetString("debug-dir"); debugDir != "" {
		builder.WithDebugDir(debugDir)
	}

	return builder.Build()
}

func writeOutput(cmd *cobra.Command, run *pipeline.RunResult) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = globalConfig.Output.Path
	}
	if output == "" {
		return export.WriteCSV(os.Stdout, run.Records)
	}
	if err := export.WriteRun(output, run); err != nil {
		return err
	}
	slog.Info("results written", "path", output)
	return nil
}
