package core

import (
	"fmt"
	"strings"
)

// Record is one entry of a peak-list library: a named spectrum with the
// metadata found in its header.
type Record struct {
	Name     string
	Comment  string
	Metadata map[string]string // key=value pairs from the Comment field
	Spectrum Spectrum

	// DeclaredPeaks is the "Num peaks" header value; RawPeaks counts the
	// peak lines actually read before nominal-mass merging.
	DeclaredPeaks int
	RawPeaks      int

	// Internal tracking
	SourceFile string
	Index      int // 0-based position in the source file
}

// ValidationError represents an error found during record validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that a record is complete enough to be displayed.
func (r *Record) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.DeclaredPeaks < 0 {
		errs = append(errs, "declared peak count must be non-negative")
	}
	if r.RawPeaks != r.DeclaredPeaks {
		errs = append(errs, fmt.Sprintf("declared %d peaks, read %d", r.DeclaredPeaks, r.RawPeaks))
	}
	if r.Spectrum.Len() == 0 {
		errs = append(errs, "at least one peak is required")
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   r.Label(),
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// Label returns the record name, or its position when the name is missing.
func (r *Record) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("#%d", r.Index+1)
}
