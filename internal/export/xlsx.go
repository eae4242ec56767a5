package export

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/moonboard/backend/internal/schema"
)

const (
	RecordsSheet = "records"
	SummarySheet = "summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Record interface {
	Value(field string) string
}

// Meta describes the snapshot the exported rows were taken from.
type Meta struct {
	CycleID     string
	Kind        string
	Source      string
	CompletedAt time.Time
	Filters     map[string]string
}

// Workbook writes records to a sheet whose columns follow the schema's
// field order. Numeric fields are written as numbers.
func Workbook(s schema.Schema, meta Meta, records []Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(s.Fields))
	for i, field := range s.Fields {
		header[i] = field.Name
	}
	if err := f.SetSheetRow(RecordsSheet, "A1", &header); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(RecordsSheet, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	for i, rec := range records {
		row := make([]interface{}, len(s.Fields))
		for j, field := range s.Fields {
			row[j] = cellValue(field, rec.Value(field.Name))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(RecordsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(s.Fields))
	_ = f.SetColWidth(RecordsSheet, "A", last, 18)

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	summary := [][]interface{}{
		{"cycle_id", meta.CycleID},
		{"kind", meta.Kind},
		{"source", meta.Source},
		{"completed_at", meta.CompletedAt.UTC().Format(time.RFC3339)},
		{"count", len(records)},
	}
	names := make([]string, 0, len(meta.Filters))
	for name := range meta.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		summary = append(summary, []interface{}{"filter." + name, meta.Filters[name]})
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "B", 24)

	return f, nil
}

func cellValue(field schema.Field, raw string) interface{} {
	if field.Type != schema.TypeNumeric {
		return raw
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return n
}
