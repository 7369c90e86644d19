// Package render draws normalized spectra in the terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/ChrisMcGann/mspview/pkg/core"
)

// Options controls chart output.
type Options struct {
	Title  string
	XDesc  string
	YDesc  string
	Y      core.Bounds // visible intensity window, in percent
	Width  int
	Height int
	Table  bool
}

// Percent converts a normalized intensity of the given kind to percent.
func Percent(v float64, kind core.Kind) float64 {
	return v * 100 / kind.Scale()
}

// Bars builds one bar per peak, in ascending mass order. Intensities are
// clipped to y and offset so y.Start is the baseline.
func Bars(view core.Normalized, y core.Bounds) pterm.Bars {
	bars := make(pterm.Bars, 0, view.Len())
	for mass, v := range view.All() {
		pct := Percent(v, view.Kind())
		pct = math.Max(pct, float64(y.Start))
		pct = math.Min(pct, float64(y.End))
		bars = append(bars, pterm.Bar{
			Label: strconv.FormatUint(mass, 10),
			Value: int(math.Round(pct - float64(y.Start))),
		})
	}
	return bars
}

// Rows builds a peak table with a header row.
func Rows(view core.Normalized) pterm.TableData {
	unit := "%"
	if view.Kind() == core.Fraction {
		unit = "fraction"
	}
	data := pterm.TableData{{"m/z", "Intensity (" + unit + ")"}}
	for mass, v := range view.All() {
		data = append(data, []string{
			strconv.FormatUint(mass, 10),
			strconv.FormatFloat(v, 'f', 4, 64),
		})
	}
	return data
}

// Chart renders view as a horizontal bar chart, followed by a peak table
// when opts.Table is set.
func Chart(w io.Writer, view core.Normalized, opts Options) error {
	if view.Len() == 0 {
		_, err := fmt.Fprintln(w, pterm.DefaultBox.WithTitle(opts.Title).Sprint("no peaks in range"))
		return err
	}

	printer := pterm.DefaultBarChart.
		WithBars(Bars(view, opts.Y)).
		WithHorizontal().
		WithShowValue()
	if opts.Width > 0 {
		printer = printer.WithWidth(opts.Width)
	}
	if opts.Height > 0 {
		printer = printer.WithHeight(opts.Height)
	}

	chart, err := printer.Srender()
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	var out strings.Builder
	out.WriteString(chart)
	if opts.XDesc != "" || opts.YDesc != "" {
		out.WriteString(fmt.Sprintf("\n%s ↓   %s → %s\n", opts.XDesc, opts.YDesc, opts.Y))
	}
	if _, err := fmt.Fprintln(w, pterm.DefaultBox.WithTitle(opts.Title).WithTitleTopLeft().Sprint(out.String())); err != nil {
		return err
	}

	if opts.Table {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(Rows(view)).Srender()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		if _, err := fmt.Fprintln(w, table); err != nil {
			return err
		}
	}

	return nil
}
