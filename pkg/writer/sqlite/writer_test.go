package sqlite

import (
	"database/sql"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChrisMcGann/mspview/pkg/core"
)

func decodeFloat64s(blob []byte) []float64 {
	values := make([]float64, len(blob)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return values
}

func TestWriteView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views.db")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	rec := &core.Record{
		Name:       "Propane",
		SourceFile: "propane.msp",
		Metadata:   map[string]string{"Source": "NIST", "Formula": "C3H8"},
	}
	view := core.NewNormalized([]core.NormalizedPeak{
		{Mass: 29, Intensity: 34},
		{Mass: 43, Intensity: 100},
	}, core.Percent)

	if err := w.WriteView(rec, core.Bounds{Start: 20, End: 50}, view); err != nil {
		t.Fatalf("WriteView() error = %v", err)
	}
	if err := w.WriteView(&core.Record{Index: 1}, core.Bounds{Start: 0, End: 10}, core.NewNormalized(nil, core.Fraction)); err != nil {
		t.Fatalf("WriteView() error = %v", err)
	}
	if w.Count() != 2 {
		t.Errorf("Expected 2 views, got %d", w.Count())
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	// Close after Finalize is a no-op.
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.WriteView(rec, core.Bounds{}, view); err == nil {
		t.Error("Expected error writing to a finalized writer")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	var (
		name          string
		start, end    int64
		normalization string
		count         int
		base          sql.NullInt64
		massBlob      []byte
		intBlob       []byte
	)
	row := db.QueryRow(`SELECT Name, BoundStart, BoundEnd, Normalization, PeakCount, BasePeakMass, blobMass, blobIntensity
		FROM ViewTable WHERE ViewId = 1`)
	if err := row.Scan(&name, &start, &end, &normalization, &count, &base, &massBlob, &intBlob); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if name != "Propane" || start != 20 || end != 50 || normalization != "percent" || count != 2 {
		t.Errorf("Unexpected row: %s %d %d %s %d", name, start, end, normalization, count)
	}
	if !base.Valid || base.Int64 != 43 {
		t.Errorf("Expected base peak mass 43, got %+v", base)
	}
	if diff := cmp.Diff([]float64{29, 43}, decodeFloat64s(massBlob)); diff != "" {
		t.Errorf("Mass blob mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{34, 100}, decodeFloat64s(intBlob)); diff != "" {
		t.Errorf("Intensity blob mismatch (-want +got):\n%s", diff)
	}

	var emptyName string
	var emptyBase sql.NullInt64
	if err := db.QueryRow(`SELECT Name, BasePeakMass FROM ViewTable WHERE ViewId = 2`).Scan(&emptyName, &emptyBase); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if emptyName != "#2" || emptyBase.Valid {
		t.Errorf("Expected unnamed empty view, got %s %+v", emptyName, emptyBase)
	}

	metadataTests := []struct {
		viewID int
		want   sql.NullString
	}{
		{viewID: 1, want: sql.NullString{String: "Formula=C3H8 Source=NIST", Valid: true}},
		{viewID: 2, want: sql.NullString{}},
	}
	for _, tt := range metadataTests {
		var got sql.NullString
		if err := db.QueryRow(`SELECT Metadata FROM ViewTable WHERE ViewId = ?`, tt.viewID).Scan(&got); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("View %d: expected metadata %+v, got %+v", tt.viewID, tt.want, got)
		}
	}

	var viewCount int
	if err := db.QueryRow(`SELECT ViewCount FROM HeaderTable`).Scan(&viewCount); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if viewCount != 2 {
		t.Errorf("Expected header view count 2, got %d", viewCount)
	}
}
