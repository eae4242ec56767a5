package service

import (
	"fmt"
	"strings"

	"github.com/moonboard/backend/internal/schema"
)

// Filter keeps the records whose fields equal every non-empty criterion.
// A criterion of "all" matches everything, like the dashboard's "All" option.
func Filter[R Record](s schema.Schema, records []R, criteria map[string]string) ([]R, error) {
	active := map[string]string{}
	for field, want := range criteria {
		if _, ok := s.Field(field); !ok {
			return nil, fmt.Errorf("%w: %s", schema.ErrUnknownField, field)
		}
		want = strings.TrimSpace(want)
		if want == "" || strings.EqualFold(want, "all") {
			continue
		}
		active[field] = want
	}

	out := make([]R, 0, len(records))
	for _, r := range records {
		if matches(r, active) {
			out = append(out, r)
		}
	}
	return out, nil
}

func matches(r Record, criteria map[string]string) bool {
	for field, want := range criteria {
		if r.Value(field) != want {
			return false
		}
	}
	return true
}
