package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	batches [][]Record
	failAt  int // 1-based batch number to fail on, 0 = never
}

func (w *fakeWriter) WriteBatch(ctx context.Context, records []Record) error {
	if w.failAt > 0 && len(w.batches)+1 == w.failAt {
		return errors.New("store unavailable")
	}
	w.batches = append(w.batches, records)
	return nil
}

func TestParseTypesAndIdentifier(t *testing.T) {
	in := "Product Key,Name,Price,Stock\nA/B#1, Widget, 10.50, 3\n"

	records, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "A-B1", rec.ID, "slash replaced with dash, hash stripped")
	assert.Equal(t, "Widget", rec.Fields["Name"].Scalar())
	assert.Equal(t, 10.50, rec.Fields["Price"].Scalar(), "decimal point makes a float")
	assert.Equal(t, int64(3), rec.Fields["Stock"].Scalar(), "plain digits make an int")
}

func TestParseKeyColumnPriority(t *testing.T) {
	// "id" is a lower-priority alias than "clave producto".
	in := "id,clave producto,Name\nrow-1,CP-9,Thing\n"

	records, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CP-9", records[0].ID)
}

func TestParseFallsBackToFirstColumn(t *testing.T) {
	in := "Nombre,Precio\nCloralex,25\n"

	records, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Cloralex", records[0].ID)
}

func TestParseGeneratesIDWhenEmpty(t *testing.T) {
	in := "Product Key,Name\n,Widget\n"

	records, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = uuid.Parse(records[0].ID)
	assert.NoError(t, err, "empty key and empty first column fall back to a random id")
}

func TestSanitizeID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"A/B#1", "A-B1"},
		{" abc.def ", "abcdef"},
		{"x$[y]z", "xyz"},
		{"plain", "plain"},
		{"#.$[]", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeID(tt.in), "input %q", tt.in)
	}
}

func buildCSV(n int) string {
	var b strings.Builder
	b.WriteString("Product Key,Name,Price\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "P%04d,Item %d,%d\n", i, i, i+1)
	}
	return b.String()
}

func TestImportBatching(t *testing.T) {
	tests := []struct {
		records     int
		wantBatches int
	}{
		{1, 1},
		{450, 1},
		{451, 2},
		{900, 2},
		{901, 3},
	}

	for _, tt := range tests {
		w := &fakeWriter{}
		n, err := Import(context.Background(), strings.NewReader(buildCSV(tt.records)), w, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.records, n)
		assert.Len(t, w.batches, tt.wantBatches, "%d records", tt.records)
	}
}

func TestImportProgress(t *testing.T) {
	w := &fakeWriter{}
	var reported []int

	n, err := Import(context.Background(), strings.NewReader(buildCSV(900)), w, func(p int) {
		reported = append(reported, p)
	})
	require.NoError(t, err)
	assert.Equal(t, 900, n)
	assert.Equal(t, []int{50, 100}, reported)
}

func TestImportAbortsOnBatchFailure(t *testing.T) {
	w := &fakeWriter{failAt: 2}

	n, err := Import(context.Background(), strings.NewReader(buildCSV(901)), w, nil)
	require.Error(t, err)
	assert.Equal(t, 450, n, "only the first batch committed")
	assert.Len(t, w.batches, 1, "no batch after the failure")
}

func TestImportEmptyInput(t *testing.T) {
	w := &fakeWriter{}

	n, err := Import(context.Background(), strings.NewReader("Product Key,Name\n"), w, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, w.batches)
}
