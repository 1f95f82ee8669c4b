package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/planingest-go/pkg/planingest"
)

func TestRecorder_ObserveIngest(t *testing.T) {
	r := NewRecorder()

	stats := planingest.Stats{RowsRead: 3, RowsKept: 2, RowsFiltered: 1, RecordsEmitted: 62, CellErrors: 1}
	r.ObserveIngest(planingest.VariantShovel, stats, 20*time.Millisecond, nil)
	r.ObserveIngest(planingest.VariantShovel, stats, 10*time.Millisecond, nil)
	r.ObserveIngest(planingest.VariantNatural, planingest.Stats{}, time.Millisecond,
		planingest.NewIngestError("a.xlsx", planingest.StageScan, planingest.ErrNoData))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runs.WithLabelValues("shovel", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("natural", OutcomeNoData)))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.rows.WithLabelValues("shovel", "read")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rows.WithLabelValues("shovel", "filtered")))
	assert.Equal(t, 124.0, testutil.ToFloat64(r.records.WithLabelValues("shovel")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cellErrors.WithLabelValues("shovel")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{planingest.ErrNoData, OutcomeNoData},
		{fmt.Errorf("%w: nothing left", planingest.ErrNoValidData), OutcomeNoValidData},
		{planingest.NewIngestError("x", planingest.StageOpen, planingest.ErrUnsupportedFormat), OutcomeUnsupported},
		{planingest.ErrMalformedWorkbook, OutcomeMalformed},
		{planingest.ErrFileTooLarge, OutcomeTooLarge},
		{planingest.ErrFileNotFound, OutcomeNotFound},
		{planingest.ErrInvalidOptions, OutcomeInvalid},
		{fmt.Errorf("read input: %w", context.Canceled), OutcomeCanceled},
		{errors.New("disk on fire"), OutcomeOtherFailures},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err), "%v", tt.err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveIngest(planingest.VariantOperational, planingest.Stats{RecordsEmitted: 5}, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "planingest.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `planingest_records_emitted_total{variant="operational"} 5`))
}
