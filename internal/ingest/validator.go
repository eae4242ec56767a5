package ingest

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/moonboard/backend/internal/schema"
)

// FieldError explains why a row was rejected.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %s: %s (%q)", e.Field, e.Reason, e.Value)
}

// Coerce converts a decoded row into typed values for every field of s.
func Coerce(s schema.Schema, row Row) (schema.Values, error) {
	values := schema.NewValues()
	for _, f := range s.Fields {
		raw, ok := f.Lookup(row)
		if !ok {
			return schema.Values{}, &FieldError{Field: f.Name, Reason: "missing column"}
		}
		switch f.Type {
		case schema.TypeNumeric:
			n, err := parseNumber(raw)
			if err != nil {
				return schema.Values{}, &FieldError{Field: f.Name, Value: raw, Reason: err.Error()}
			}
			values.Numbers[f.Name] = n
		case schema.TypeEnum:
			values.Text[f.Name] = f.Canonical(raw)
		default:
			values.Text[f.Name] = raw
		}
	}
	return values, nil
}

func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty number")
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return n, nil
}

// Validator turns decoded rows into records of type R.
type Validator[R any] struct {
	Schema    schema.Schema
	Build     func(schema.Values) R
	Validator *validator.Validate
	Logger    zerolog.Logger
}

func NewValidator[R any](s schema.Schema, build func(schema.Values) R, logger zerolog.Logger) Validator[R] {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return Validator[R]{
		Schema:    s,
		Build:     build,
		Validator: validate,
		Logger:    logger,
	}
}

// Record validates a single row.
func (v Validator[R]) Record(row Row) (R, error) {
	var zero R
	values, err := Coerce(v.Schema, row)
	if err != nil {
		return zero, err
	}
	rec := v.Build(values)
	if v.Validator != nil {
		if err := v.Validator.Struct(rec); err != nil {
			return zero, constraintError(err)
		}
	}
	return rec, nil
}

// All validates rows in order, dropping and logging the ones that fail.
// It returns the accepted records and the number of rejected rows.
func (v Validator[R]) All(rows []Row) ([]R, int) {
	out := make([]R, 0, len(rows))
	rejected := 0
	for i, row := range rows {
		rec, err := v.Record(row)
		if err != nil {
			rejected++
			v.Logger.Warn().
				Err(err).
				Int("row", i+1).
				Str("kind", string(v.Schema.Kind)).
				Interface("raw", row).
				Msg("invalid row dropped")
			continue
		}
		out = append(out, rec)
	}
	return out, rejected
}

func constraintError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{
		Field:  fe.Field(),
		Value:  fmt.Sprint(fe.Value()),
		Reason: "violates " + fe.Tag() + "=" + fe.Param(),
	}
}
