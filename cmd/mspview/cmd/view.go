package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mspview/pkg/config"
	"github.com/ChrisMcGann/mspview/pkg/core"
	"github.com/ChrisMcGann/mspview/pkg/pipeline"
	"github.com/ChrisMcGann/mspview/pkg/render"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Draw spectra as bar charts",
	Long: `Draw the spectra of an MSP library as bar charts, restricted to a mass
window and normalized to the base peak of that window.

Examples:
  # Draw every spectrum between m/z 20 and 200 in percent
  mspview view library.msp --start 20 --end 200

  # Draw one record as fractions with a peak table
  mspview view library.msp --record Propane -n fraction --table`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
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

	pterm.Info.Printfln("Mass window %s, normalization %s, %d records", cfg.Bounds.X, kind, len(records))

	p := pipeline.New()
	if err := drawRecords(os.Stdout, p, records, cfg, kind); err != nil {
		return err
	}

	bounded, normalized := p.Stats()
	pterm.Debug.Printfln("Frames %d; bound cache %d hits/%d misses; normalize cache %d hits/%d misses",
		p.Frames(), bounded.Hits, bounded.Misses, normalized.Hits, normalized.Misses)

	if saveConfig != "" {
		if err := cfg.Save(saveConfig); err != nil {
			return err
		}
		pterm.Success.Printfln("Configuration saved to %s", saveConfig)
	}

	return nil
}

// drawRecords renders one frame per record.
func drawRecords(w io.Writer, p *pipeline.Pipeline, records []*core.Record, cfg config.Config, kind core.Kind) error {
	for _, rec := range records {
		view := p.Frame(rec.Spectrum, cfg.Bounds.X, kind)

		title := cfg.Chart.Caption
		if title == "" {
			title = rec.Label()
		}
		opts := render.Options{
			Title:  title,
			XDesc:  cfg.Chart.Descriptions.X,
			YDesc:  cfg.Chart.Descriptions.Y,
			Y:      cfg.Bounds.Y,
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
			Table:  cfg.Chart.Table,
		}
		if err := render.Chart(w, view, opts); err != nil {
			return fmt.Errorf("failed to draw %s: %w", rec.Label(), err)
		}

		p.EndFrame()
	}
	return nil
}
