package ingest

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrInvalidEncoding = errors.New("csv body is not valid utf-8")

// Row maps a normalized header name to the raw cell text.
type Row map[string]string

// Decode splits a spreadsheet CSV export into rows. Lines are split on
// newlines and cells on commas; quoted cells are not understood, so a comma
// inside a value shifts the remaining cells of that line.
func Decode(data []byte) ([]Row, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return []Row{}, nil
	}

	headers := strings.Split(lines[0], ",")
	for i, h := range headers {
		headers[i] = NormalizeHeader(h)
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := strings.Split(line, ",")
		row := make(Row, len(headers))
		for i, h := range headers {
			v := ""
			if i < len(cells) {
				v = strings.TrimSpace(cells[i])
			}
			row[h] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NormalizeHeader turns "  Assigned   Table" into "assigned_table".
func NormalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}
