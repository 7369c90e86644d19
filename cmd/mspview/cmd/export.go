package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mspview/pkg/pipeline"
	"github.com/ChrisMcGann/mspview/pkg/writer/sqlite"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export normalized views to a SQLite database",
	Long: `Export the bounded, normalized view of every selected spectrum to a SQLite
database. Masses and intensities are stored as little-endian float64 blobs.

Examples:
  mspview export library.msp --out views.db --start 40 --end 400 -n fraction`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	kind, err := cfg.Kind()
	if err != nil {
		return err
	}

	records, err := loadRecords(args[0], cfg.Filter)
	if err != nil {
		return err
	}
	records, err = selectRecords(records, recordSel)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Exporting %s to %s...", args[0], outputFile)
	pterm.Info.Printfln("Mass window: %s", cfg.Bounds.X)
	pterm.Info.Printfln("Normalization: %s", kind)

	// Create SQLite writer
	writer, err := sqlite.NewWriter(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	p := pipeline.New()
	empty := 0
	for _, rec := range records {
		view := p.Frame(rec.Spectrum, cfg.Bounds.X, kind)
		if view.Len() == 0 {
			empty++
		}

		if err := writer.WriteView(rec, cfg.Bounds.X, view); err != nil {
			return fmt.Errorf("failed to write view %s: %w", rec.Label(), err)
		}
		p.EndFrame()

		if writer.Count()%1000 == 0 {
			pterm.Info.Printfln("Processed %d spectra...", writer.Count())
		}
	}

	// Finalize database
	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	pterm.Success.Printfln("Export complete: %d views written to %s", writer.Count(), outputFile)
	if empty > 0 {
		pterm.Warning.Printfln("%d views have no peaks in %s", empty, cfg.Bounds.X)
	}

	return nil
}
