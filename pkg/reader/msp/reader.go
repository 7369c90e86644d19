// Package msp provides a streaming reader for MSP (NIST) peak-list libraries
package msp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/mspview/pkg/core"
)

// Reader provides streaming access to MSP format files
type Reader struct {
	scanner    *bufio.Scanner
	sourceFile string
	lineNum    int
	index      int
	current    *core.Record
	pending    string // header line read past the end of the previous entry
	err        error
}

// NewReader creates a new MSP reader. sourceFile is recorded on every
// record and may be empty.
func NewReader(r io.Reader, sourceFile string) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Reader{
		scanner:    scanner,
		sourceFile: sourceFile,
	}
}

// ReadAll parses every record in r.
func ReadAll(r io.Reader, sourceFile string) ([]*core.Record, error) {
	reader := NewReader(r, sourceFile)
	var records []*core.Record
	for reader.Next() {
		records = append(records, reader.Record())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Next advances to the next record. Returns false when no more records or error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	rec, err := r.readRecord()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = rec
	r.index++
	return true
}

// Record returns the current record
func (r *Reader) Record() *core.Record {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) nextLine() (string, bool) {
	if r.pending != "" {
		line := r.pending
		r.pending = ""
		return line, true
	}
	if !r.scanner.Scan() {
		return "", false
	}
	r.lineNum++
	return strings.TrimSpace(r.scanner.Text()), true
}

// readRecord reads a single entry. An entry ends after its declared number
// of peaks, at a blank line, or at the next "Name:" header.
func (r *Reader) readRecord() (*core.Record, error) {
	rec := &core.Record{
		SourceFile: r.sourceFile,
		Index:      r.index,
	}

	var peaks []core.Peak
	started := false
	inPeaks := false

	for {
		line, ok := r.nextLine()
		if !ok {
			break
		}

		if line == "" {
			if started {
				break
			}
			continue
		}

		key, value, isHeader := splitHeader(line)
		if isHeader && strings.EqualFold(key, "Name") && started {
			r.pending = line
			break
		}

		if !inPeaks && isHeader {
			started = true
			if err := r.parseHeader(rec, key, value, &inPeaks); err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			continue
		}

		if !inPeaks {
			return nil, fmt.Errorf("line %d: unexpected content before 'Num peaks': %q", r.lineNum, line)
		}

		parsed, err := parsePeaks(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
		}
		peaks = append(peaks, parsed...)
		rec.RawPeaks += len(parsed)

		if rec.RawPeaks >= rec.DeclaredPeaks {
			break
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if !started {
		return nil, io.EOF
	}

	rec.Spectrum = core.NewSpectrum(peaks)
	return rec, nil
}

// splitHeader splits a "Key: value" header line.
func splitHeader(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

func (r *Reader) parseHeader(rec *core.Record, key, value string, inPeaks *bool) error {
	switch strings.ToLower(key) {
	case "name":
		rec.Name = value
	case "comment", "comments":
		rec.Comment = value
		if rec.Metadata == nil {
			rec.Metadata = make(map[string]string)
		}
		parseComment(rec.Metadata, value)
	case "num peaks":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid num peaks: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("invalid num peaks: %d", n)
		}
		rec.DeclaredPeaks = n
		*inPeaks = n > 0
	default:
		if rec.Metadata == nil {
			rec.Metadata = make(map[string]string)
		}
		rec.Metadata[key] = value
	}
	return nil
}

// parseComment extracts key=value pairs from a Comment field.
// Example: Parent=414.71 Collision_energy=35 "Spec=Consensus" iRT=61.01
func parseComment(metadata map[string]string, comment string) {
	for _, field := range strings.Fields(comment) {
		field = strings.Trim(field, "\"")
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			continue
		}
		metadata[key] = value
	}
}

// parsePeaks parses a peak line. Both the one-peak-per-line form
// ("mz intensity "annotation"") and the packed form ("mz intensity; mz intensity;")
// are accepted. m/z is rounded to nominal mass.
func parsePeaks(line string) ([]core.Peak, error) {
	var peaks []core.Peak

	for _, chunk := range strings.Split(line, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		fields := strings.Fields(chunk)
		if len(fields) < 2 {
			return nil, fmt.Errorf("invalid peak format, expected at least 2 fields")
		}

		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid m/z value: %w", err)
		}
		intensity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid intensity value: %w", err)
		}

		mass, err := toNominal(mz, "m/z")
		if err != nil {
			return nil, err
		}
		inten, err := toNominal(intensity, "intensity")
		if err != nil {
			return nil, err
		}

		peaks = append(peaks, core.Peak{Mass: mass, Intensity: inten})

		// The one-per-line form carries a trailing annotation; stop there.
		if len(fields) > 2 {
			break
		}
	}

	return peaks, nil
}

func toNominal(v float64, what string) (uint64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s value: %v", what, v)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must be non-negative, got %v", what, v)
	}
	if v >= math.MaxUint64 {
		return 0, fmt.Errorf("%s out of range: %v", what, v)
	}
	return uint64(math.Round(v)), nil
}
