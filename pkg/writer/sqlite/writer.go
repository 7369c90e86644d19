// Package sqlite provides SQLite export of normalized spectrum views
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/mspview/pkg/core"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	schemaVersion    = 1
)

// Writer handles writing spectrum views to SQLite database files
type Writer struct {
	db         *sql.DB
	tx         *sql.Tx
	outputPath string
	viewStmt   *sql.Stmt
	viewID     int
	finalized  bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		viewID:     1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ViewTable (
		ViewId INTEGER PRIMARY KEY,
		Name TEXT,
		SourceFile TEXT,
		RecordIndex INTEGER,
		BoundStart INTEGER,
		BoundEnd INTEGER,
		Normalization TEXT,
		PeakCount INTEGER,
		BasePeakMass INTEGER,
		Metadata TEXT,
		blobMass BLOB,
		blobIntensity BLOB
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Description TEXT,
		ViewCount INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements opens the insert transaction and prepares its statement
func (w *Writer) prepareStatements() error {
	var err error

	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.viewStmt, err = w.tx.Prepare(`
		INSERT INTO ViewTable (
			ViewId, Name, SourceFile, RecordIndex, BoundStart, BoundEnd,
			Normalization, PeakCount, BasePeakMass, Metadata, blobMass, blobIntensity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("failed to prepare view statement: %w", err)
	}

	return nil
}

// WriteView writes the normalized view of a record within bounds
func (w *Writer) WriteView(rec *core.Record, bounds core.Bounds, view core.Normalized) error {
	if w.finalized {
		return fmt.Errorf("writer for %s is already finalized", w.outputPath)
	}

	// Encode peaks as binary blobs (little-endian float64)
	massBlob, intBlob := encodeView(view)

	var basePeak interface{}
	best := -1.0
	for mass, v := range view.All() {
		if v > best {
			best = v
			basePeak = int64(mass)
		}
	}

	_, err := w.viewStmt.Exec(
		w.viewID,             // ViewId
		rec.Label(),          // Name
		rec.SourceFile,       // SourceFile
		rec.Index,            // RecordIndex
		int64(bounds.Start),  // BoundStart
		int64(bounds.End),    // BoundEnd
		view.Kind().String(), // Normalization
		view.Len(),           // PeakCount
		basePeak,             // BasePeakMass
		encodeMetadata(rec),  // Metadata
		massBlob,             // blobMass
		intBlob,              // blobIntensity
	)
	if err != nil {
		return fmt.Errorf("failed to insert view: %w", err)
	}

	w.viewID++
	return nil
}

// encodeView encodes masses and intensities as little-endian float64 blobs
func encodeView(view core.Normalized) (masses, intensities []byte) {
	masses = make([]byte, view.Len()*8)
	intensities = make([]byte, view.Len()*8)
	i := 0
	for mass, v := range view.All() {
		binary.LittleEndian.PutUint64(masses[i*8:], math.Float64bits(float64(mass)))
		binary.LittleEndian.PutUint64(intensities[i*8:], math.Float64bits(v))
		i++
	}
	return masses, intensities
}

// encodeMetadata joins the record metadata as key=value pairs sorted by key.
// Records without metadata store NULL.
func encodeMetadata(rec *core.Record) interface{} {
	if len(rec.Metadata) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(rec.Metadata))
	for _, key := range slices.Sorted(maps.Keys(rec.Metadata)) {
		pairs = append(pairs, key+"="+rec.Metadata[key])
	}
	return strings.Join(pairs, " ")
}

// Count returns the number of views written so far
func (w *Writer) Count() int {
	return w.viewID - 1
}

// Finalize commits the views, writes the header table and closes the database
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	if w.viewStmt != nil {
		w.viewStmt.Close()
	}
	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit views: %w", err)
	}

	// Write HeaderTable
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Description, ViewCount)
		VALUES (?, ?, ?, ?)
	`, schemaVersion, time.Now().Format(headerDateFormat), "mspview export", w.Count())
	if err != nil {
		w.db.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close finalizes the database if it has not been finalized yet
func (w *Writer) Close() error {
	return w.Finalize()
}
