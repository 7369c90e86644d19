package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mspview/pkg/reader/msp"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate input file format and contents",
	Long:  `Validate that an input file is properly formatted and that every record has a name and the number of peaks it declares.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	reader := msp.NewReader(f, args[0])
	count := 0
	invalid := 0
	for reader.Next() {
		rec := reader.Record()
		count++
		if err := rec.Validate(); err != nil {
			pterm.Warning.Println(err)
			invalid++
		}
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d records are invalid", invalid, count)
	}
	pterm.Success.Printfln("%d records are valid", count)
	return nil
}
