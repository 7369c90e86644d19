package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mspview/pkg/filter"
	"github.com/ChrisMcGann/mspview/pkg/summary"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize spectral library contents",
	Long:  `Print summary statistics about a spectral library including spectrum count, mass ranges, base peaks and total ion current.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(args[0], filter.Config{KeepZero: true})
	if err != nil {
		return err
	}

	items := make([]summary.Summary, 0, len(records))
	data := pterm.TableData{{"#", "Name", "Peaks", "Mass range", "Base peak", "TIC", "Mean"}}
	for _, rec := range records {
		s := summary.Of(rec.Label(), rec.Spectrum)
		items = append(items, s)
		data = append(data, []string{
			strconv.Itoa(rec.Index + 1),
			s.Name,
			strconv.Itoa(s.Peaks),
			fmt.Sprintf("%d-%d", s.MinMass, s.MaxMass),
			fmt.Sprintf("%d (%d)", s.BasePeak.Mass, s.BasePeak.Intensity),
			strconv.FormatFloat(s.TotalIntensity, 'f', 0, 64),
			strconv.FormatFloat(s.MeanIntensity, 'f', 1, 64),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	lib := summary.Aggregate(items)
	pterm.Info.Printfln("%d records (%d empty), %d peaks, mass range %d-%d, %.1f peaks per record",
		lib.Records, lib.EmptyRecords, lib.TotalPeaks, lib.MinMass, lib.MaxMass, lib.MeanPeaks)
	return nil
}
