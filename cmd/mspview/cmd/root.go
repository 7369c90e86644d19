// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mspview/pkg/config"
	"github.com/ChrisMcGann/mspview/pkg/core"
	"github.com/ChrisMcGann/mspview/pkg/filter"
	"github.com/ChrisMcGann/mspview/pkg/reader/msp"
)

var (
	// Global flags
	configFile string
	debug      bool

	// Flags shared by view and export
	massStart     uint64
	massEnd       uint64
	yStart        uint64
	yEnd          uint64
	normalization string
	topN          int
	cutoffPercent float64
	keepZero      bool
	recordSel     string

	// Flags for view command
	showTable  bool
	width      int
	height     int
	saveConfig string

	// Flags for export command
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:   "mspview",
	Short: "mspview - Peak-list viewer for MSP spectral libraries",
	Long: `mspview draws the peak lists of MSP spectral libraries as bar charts.

Each spectrum is restricted to a mass window and normalized to its base peak
before it is drawn:
- Mass window bounds (inclusive)
- Percent or fractional normalization
- Peak filtering (top-N, intensity cutoff)
- Summaries, validation and SQLite export`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			pterm.EnableDebugMessages()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML view configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print debug messages")

	for _, c := range []*cobra.Command{viewCmd, exportCmd} {
		c.Flags().Uint64Var(&massStart, "start", 0, "First mass of the window (inclusive)")
		c.Flags().Uint64Var(&massEnd, "end", 100, "Last mass of the window (inclusive)")
		c.Flags().StringVarP(&normalization, "normalization", "n", "percent", "Normalization: percent or fraction")
		c.Flags().IntVar(&topN, "top-n", 0, "Keep only top N most intense peaks (0 = no limit)")
		c.Flags().Float64Var(&cutoffPercent, "cutoff", 0, "Intensity cutoff as % of base peak (0 = no cutoff)")
		c.Flags().BoolVar(&keepZero, "keep-zero", false, "Keep zero intensity peaks")
		c.Flags().StringVarP(&recordSel, "record", "r", "", "Record name or 1-based index (default: all)")
	}

	// View command flags
	viewCmd.Flags().Uint64Var(&yStart, "y-start", 0, "Lowest visible intensity in percent")
	viewCmd.Flags().Uint64Var(&yEnd, "y-end", 100, "Highest visible intensity in percent")
	viewCmd.Flags().BoolVar(&showTable, "table", false, "Print a peak table below each chart")
	viewCmd.Flags().IntVar(&width, "width", 80, "Chart width in columns")
	viewCmd.Flags().IntVar(&height, "height", 20, "Chart height in rows")
	viewCmd.Flags().StringVar(&saveConfig, "save-config", "", "Write the effective configuration to this file")

	// Export command flags
	exportCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output database file (required)")
	exportCmd.MarkFlagRequired("out")
}

// resolveConfig loads the configuration file, if any, and applies the flags
// the user set explicitly.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return config.Config{}, err
		}
		pterm.Debug.Printfln("Loaded configuration from %s", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Bounds.X.Start = massStart
	}
	if flags.Changed("end") {
		cfg.Bounds.X.End = massEnd
	}
	if flags.Changed("y-start") {
		cfg.Bounds.Y.Start = yStart
	}
	if flags.Changed("y-end") {
		cfg.Bounds.Y.End = yEnd
	}
	if flags.Changed("normalization") {
		cfg.Normalization = normalization
	}
	if flags.Changed("top-n") {
		cfg.Filter.TopN = topN
	}
	if flags.Changed("cutoff") {
		cfg.Filter.IntensityCutoff = cutoffPercent
	}
	if flags.Changed("keep-zero") {
		cfg.Filter.KeepZero = keepZero
	}
	if flags.Changed("table") {
		cfg.Chart.Table = showTable
	}
	if flags.Changed("width") {
		cfg.Chart.Width = width
	}
	if flags.Changed("height") {
		cfg.Chart.Height = height
	}

	// Clamp start <= end before bounds reach the pipeline
	if cfg.Bounds.X.Empty() {
		pterm.Warning.Printfln("Mass window %s is inverted, clamping", cfg.Bounds.X)
	}
	if err := cfg.Normalize(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// loadRecords parses an MSP file and applies the configured peak filters.
func loadRecords(path string, fc filter.Config) ([]*core.Record, error) {
	// Validate input file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", path)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".msp" {
		pterm.Warning.Printfln("Unexpected extension '%s', reading as MSP", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	records, err := msp.ReadAll(f, path)
	if err != nil {
		return nil, fmt.Errorf("error reading input file: %w", err)
	}
	pterm.Debug.Printfln("Parsed %d records from %s", len(records), path)

	if fc.Enabled() {
		pterm.Debug.Printfln("Filtering peaks: top-n=%d cutoff=%.2f%%", fc.TopN, fc.IntensityCutoff)
	}
	for _, rec := range records {
		rec.Spectrum = fc.Apply(rec.Spectrum)
	}

	return records, nil
}

// selectRecords returns the records matching sel: a 1-based index or an
// exact (case-insensitive) name. An empty selector selects all.
func selectRecords(records []*core.Record, sel string) ([]*core.Record, error) {
	if sel == "" {
		return records, nil
	}

	if n, err := strconv.Atoi(sel); err == nil {
		if n < 1 || n > len(records) {
			return nil, fmt.Errorf("record index %d out of range [1, %d]", n, len(records))
		}
		return records[n-1 : n], nil
	}

	var selected []*core.Record
	for _, rec := range records {
		if strings.EqualFold(rec.Name, sel) {
			selected = append(selected, rec)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no record named '%s'", sel)
	}
	return selected, nil
}
