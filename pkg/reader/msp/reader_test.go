package msp

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChrisMcGann/mspview/pkg/core"
)

const sampleLibrary = `Name: Propane
Formula: C3H8
Comment: "Parent=44.06" Source=NIST
Num peaks: 4
27 120
29 340
43 999
44.4 60

Name: Packed
Num peaks: 3
41 10; 43 999;
41.2 5;
Name: Annotated
Num peaks: 2
147.1128	1000.0	"y1/0.1ppm"
147.4	200	"b1/0.2ppm"
`

func TestReadAll(t *testing.T) {
	records, err := ReadAll(strings.NewReader(sampleLibrary), "sample.msp")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	tests := []struct {
		index    int
		name     string
		declared int
		raw      int
		peaks    []core.Peak
	}{
		{
			index:    0,
			name:     "Propane",
			declared: 4,
			raw:      4,
			peaks: []core.Peak{
				{Mass: 27, Intensity: 120},
				{Mass: 29, Intensity: 340},
				{Mass: 43, Intensity: 999},
				{Mass: 44, Intensity: 60},
			},
		},
		{
			index:    1,
			name:     "Packed",
			declared: 3,
			raw:      3,
			peaks: []core.Peak{
				{Mass: 41, Intensity: 15},
				{Mass: 43, Intensity: 999},
			},
		},
		{
			index:    2,
			name:     "Annotated",
			declared: 2,
			raw:      2,
			peaks: []core.Peak{
				{Mass: 147, Intensity: 1200},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := records[tt.index]
			if rec.Name != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, rec.Name)
			}
			if rec.Index != tt.index {
				t.Errorf("Expected index %d, got %d", tt.index, rec.Index)
			}
			if rec.SourceFile != "sample.msp" {
				t.Errorf("Expected source file sample.msp, got %s", rec.SourceFile)
			}
			if rec.DeclaredPeaks != tt.declared || rec.RawPeaks != tt.raw {
				t.Errorf("Expected %d/%d peaks, got %d/%d", tt.declared, tt.raw, rec.DeclaredPeaks, rec.RawPeaks)
			}
			if diff := cmp.Diff(tt.peaks, rec.Spectrum.Peaks()); diff != "" {
				t.Errorf("Peaks mismatch (-want +got):\n%s", diff)
			}
			if err := rec.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestMergedIntensitySaturates(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "one peak per line",
			input: "Name: Loud\nNum peaks: 2\n10.2 1.8e19\n9.8 1.8e19\n",
		},
		{
			name:  "packed",
			input: "Name: Loud\nNum peaks: 2\n10.2 1.8e19; 9.8 1.8e19;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadAll(strings.NewReader(tt.input), "")
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(records))
			}
			want := []core.Peak{{Mass: 10, Intensity: math.MaxUint64}}
			if diff := cmp.Diff(want, records[0].Spectrum.Peaks()); diff != "" {
				t.Errorf("Peaks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	records, err := ReadAll(strings.NewReader(sampleLibrary), "")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := map[string]string{
		"Parent":  "44.06",
		"Source":  "NIST",
		"Formula": "C3H8",
	}
	if diff := cmp.Diff(want, records[0].Metadata); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "invalid num peaks",
			input: "Name: X\nNum peaks: many\n",
		},
		{
			name:  "invalid m/z",
			input: "Name: X\nNum peaks: 1\nabc 10\n",
		},
		{
			name:  "negative intensity",
			input: "Name: X\nNum peaks: 1\n10 -5\n",
		},
		{
			name:  "peak before header",
			input: "Name: X\n10 5\n",
		},
		{
			name:  "missing intensity",
			input: "Name: X\nNum peaks: 1\n10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadAll(strings.NewReader(tt.input), ""); err == nil {
				t.Error("Expected error, got nil")
			} else if !strings.HasPrefix(err.Error(), "line ") {
				t.Errorf("Expected line number in error, got %v", err)
			}
		})
	}
}

func TestTruncatedRecord(t *testing.T) {
	records, err := ReadAll(strings.NewReader("Name: Short\nNum peaks: 3\n10 1\n"), "")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if err := records[0].Validate(); err == nil {
		t.Error("Expected validation error for truncated record")
	}
}

func TestEmptyInput(t *testing.T) {
	records, err := ReadAll(strings.NewReader("\n\n"), "")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}
