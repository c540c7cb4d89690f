package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// BatchSize is the number of records committed per batch, chosen to stay
// under the store's 500-writes-per-batch limit with headroom.
const BatchSize = 450

// Value is one parsed CSV cell: exactly one of the three kinds is set.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
}

type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
)

// Scalar returns the dynamically-typed value for serialization.
func (v Value) Scalar() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	default:
		return v.Str
	}
}

// Record is one CSV data row: a derived document identifier plus the
// column-name-to-value mapping. Shapes vary row to row and are only
// resolved to typed structs at the point of use.
type Record struct {
	ID     string
	Fields map[string]Value
}

// BatchWriter commits a batch of records to the backing store.
type BatchWriter interface {
	WriteBatch(ctx context.Context, records []Record) error
}

// ProgressFunc receives the running completion percentage after each
// committed batch.
type ProgressFunc func(percent int)

// keyAliases are the header names recognized as the identifier column,
// in priority order, compared case-insensitively.
var keyAliases = []string{"product key", "productkey", "clave producto", "id", "identificador"}

// sanitizer strips the characters the document store forbids in ids.
// Slashes become dashes so compound keys like "A/B#1" stay readable.
var sanitizer = strings.NewReplacer("/", "-", "#", "", ".", "", "$", "", "[", "", "]", "")

// SanitizeID makes a raw cell value safe to use as a document identifier.
func SanitizeID(raw string) string {
	return strings.TrimSpace(sanitizer.Replace(raw))
}

// Parse reads header-driven CSV text into records. The first row names
// the columns; each later row becomes one record. A single layer of
// surrounding double quotes is already handled by encoding/csv.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	keyCol := findKeyColumn(header)

	var records []Record
	for _, row := range rows[1:] {
		fields := make(map[string]Value, len(header))
		for i, col := range header {
			if i >= len(row) {
				break
			}
			fields[col] = parseValue(strings.TrimSpace(row[i]))
		}

		records = append(records, Record{
			ID:     deriveID(header, row, keyCol),
			Fields: fields,
		})
	}
	return records, nil
}

// Import parses the CSV and commits records in fixed-size batches.
// Batches commit sequentially; the first failure aborts the remainder.
// There is no retry and no resume checkpoint: the user re-runs the
// import after fixing the cause.
func Import(ctx context.Context, r io.Reader, w BatchWriter, progress ProgressFunc) (int, error) {
	records, err := Parse(r)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	committed := 0
	for start := 0; start < len(records); start += BatchSize {
		end := start + BatchSize
		if end > len(records) {
			end = len(records)
		}

		if err := w.WriteBatch(ctx, records[start:end]); err != nil {
			return committed, fmt.Errorf("batch starting at record %d: %w", start, err)
		}

		committed = end
		if progress != nil {
			progress(committed * 100 / len(records))
		}
	}
	return committed, nil
}

// findKeyColumn returns the index of the highest-priority identifier
// column present in the header, or -1.
func findKeyColumn(header []string) int {
	for _, alias := range keyAliases {
		for i, col := range header {
			if strings.EqualFold(col, alias) {
				return i
			}
		}
	}
	return -1
}

func deriveID(header, row []string, keyCol int) string {
	if keyCol >= 0 && keyCol < len(row) {
		if id := SanitizeID(row[keyCol]); id != "" {
			return id
		}
	}
	if len(row) > 0 {
		if id := SanitizeID(row[0]); id != "" {
			return id
		}
	}
	return uuid.New().String()
}

// parseValue types a cell: digits only becomes an integer, digits with a
// decimal point a float, everything else stays a string.
func parseValue(s string) Value {
	if s == "" {
		return Value{Kind: KindString}
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Value{Kind: KindFloat, Float: f}
		}
	} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: n}
	}
	return Value{Kind: KindString, Str: s}
}
