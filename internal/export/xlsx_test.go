package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/moonboard/backend/internal/ingest"
	"github.com/moonboard/backend/internal/schema"
)

func TestWorkbookReservations(t *testing.T) {
	fallback := ingest.FallbackReservations()
	records := make([]Record, len(fallback))
	for i, r := range fallback {
		records[i] = r
	}
	meta := Meta{
		CycleID:     "cycle-1",
		Kind:        "reservations",
		Source:      "fallback",
		CompletedAt: time.Date(2025, 10, 18, 12, 0, 0, 0, time.UTC),
		Filters:     map[string]string{"branch": "La luna"},
	}

	f, err := Workbook(schema.Reservation, meta, records)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{RecordsSheet, SummarySheet}, wb.GetSheetList())

	rows, err := wb.GetRows(RecordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(fallback)+1)
	assert.Equal(t, "name", rows[0][0])
	assert.Equal(t, "status", rows[0][7])
	assert.Equal(t, "Ana García", rows[1][0])
	assert.Equal(t, "4", rows[1][3])

	summary, err := wb.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"cycle_id", "cycle-1"}, summary[0])
	assert.Equal(t, []string{"completed_at", "2025-10-18T12:00:00Z"}, summary[3])
	assert.Equal(t, []string{"count", "6"}, summary[4])
	assert.Equal(t, []string{"filter.branch", "La luna"}, summary[5])
}

func TestWorkbookEmpty(t *testing.T) {
	f, err := Workbook(schema.Engagement, Meta{Kind: "engagements"}, nil)
	require.NoError(t, err)

	rows, err := f.GetRows(RecordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(schema.Engagement.Fields))
}

func TestWorkbookFilterRowsAreSorted(t *testing.T) {
	meta := Meta{Filters: map[string]string{"status": "Confirmed", "branch": "La luna", "day": "18/10/2025"}}
	for i := 0; i < 5; i++ {
		f, err := Workbook(schema.Reservation, meta, nil)
		require.NoError(t, err)
		summary, err := f.GetRows(SummarySheet)
		require.NoError(t, err)
		require.Len(t, summary, 8)
		assert.Equal(t, "filter.branch", summary[5][0])
		assert.Equal(t, "filter.day", summary[6][0])
		assert.Equal(t, "filter.status", summary[7][0])
	}
}
