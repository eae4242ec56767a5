package schema

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindReservations Kind = "reservations"
	KindEngagements  Kind = "engagements"
)

type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumeric FieldType = "numeric"
	TypeEnum    FieldType = "string-enum"
)

var (
	ErrUnknownKind  = errors.New("unknown dataset kind")
	ErrUnknownField = errors.New("unknown field")
)

type Field struct {
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Values  []string  `json:"values,omitempty"`
	Aliases []string  `json:"aliases,omitempty"`
	// ValueAliases maps alternative spellings of an enum value to the
	// canonical one.
	ValueAliases map[string]string `json:"value_aliases,omitempty"`
}

type Schema struct {
	Kind   Kind    `json:"kind"`
	Fields []Field `json:"fields"`
}

const (
	StatusConfirmed = "Confirmed"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
	StatusBlocked   = "Blocked"

	StatusCompleted  = "Completed"
	StatusInProgress = "In Progress"
)

// Reservation describes one row of the restaurant bookings sheet.
// Aliases cover the Spanish headers used by the original spreadsheet.
var Reservation = Schema{
	Kind: KindReservations,
	Fields: []Field{
		{Name: "name", Type: TypeString, Aliases: []string{"nombre"}},
		{Name: "day", Type: TypeString, Aliases: []string{"dia", "día"}},
		{Name: "time", Type: TypeString, Aliases: []string{"hora"}},
		{Name: "party_size", Type: TypeNumeric, Aliases: []string{"personas"}},
		{Name: "notes", Type: TypeString, Aliases: []string{"especificaciones"}},
		{Name: "branch", Type: TypeString, Aliases: []string{"sucursal"}},
		{Name: "assigned_table", Type: TypeString, Aliases: []string{"mesa_asignada"}},
		{
			Name:    "status",
			Type:    TypeEnum,
			Values:  []string{StatusConfirmed, StatusPending, StatusCancelled, StatusBlocked},
			Aliases: []string{"estado"},
			ValueAliases: map[string]string{
				"Confirmado": StatusConfirmed,
				"Pendiente":  StatusPending,
				"Cancelado":  StatusCancelled,
				"Bloqueado":  StatusBlocked,
			},
		},
	},
}

// Engagement describes one row of the services/revenue sheet.
var Engagement = Schema{
	Kind: KindEngagements,
	Fields: []Field{
		{Name: "date", Type: TypeString, Aliases: []string{"fecha"}},
		{Name: "client", Type: TypeString, Aliases: []string{"cliente"}},
		{Name: "service", Type: TypeString, Aliases: []string{"servicio"}},
		{
			Name:    "status",
			Type:    TypeEnum,
			Values:  []string{StatusCompleted, StatusInProgress},
			Aliases: []string{"estado"},
			ValueAliases: map[string]string{
				"Completado":  StatusCompleted,
				"En Progreso": StatusInProgress,
			},
		},
		{Name: "amount", Type: TypeNumeric, Aliases: []string{"valor"}},
		{Name: "channel", Type: TypeString, Aliases: []string{"canal"}},
		{Name: "team", Type: TypeString, Aliases: []string{"equipo"}},
	},
}

func ByKind(kind string) (Schema, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindReservations:
		return Reservation, nil
	case KindEngagements:
		return Engagement, nil
	default:
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Lookup returns the raw value for f from a decoded row, trying the
// canonical name first and then the aliases.
func (f Field) Lookup(row map[string]string) (string, bool) {
	if v, ok := row[f.Name]; ok {
		return v, true
	}
	for _, alias := range f.Aliases {
		if v, ok := row[alias]; ok {
			return v, true
		}
	}
	return "", false
}

// Allowed reports whether value belongs to the field's enumeration.
// Validation does not enforce it; it only drives consumer-side styling.
func (f Field) Allowed(value string) bool {
	if f.Type != TypeEnum {
		return true
	}
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Canonical returns the canonical spelling of an enum value, matching
// aliases case-insensitively. Other values are returned unchanged.
func (f Field) Canonical(value string) string {
	for alias, canonical := range f.ValueAliases {
		if strings.EqualFold(alias, value) {
			return canonical
		}
	}
	return value
}

// Values holds one row after coercion, keyed by canonical field name.
type Values struct {
	Text    map[string]string
	Numbers map[string]float64
}

func NewValues() Values {
	return Values{Text: map[string]string{}, Numbers: map[string]float64{}}
}

func (v Values) Get(name string) string {
	return v.Text[name]
}

func (v Values) Num(name string) float64 {
	return v.Numbers[name]
}
