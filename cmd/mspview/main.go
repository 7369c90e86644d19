// mspview - Peak-list viewer for MSP spectral libraries
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/mspview/cmd/mspview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
