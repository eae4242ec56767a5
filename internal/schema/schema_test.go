package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByKind(t *testing.T) {
	s, err := ByKind(" Reservations ")
	require.NoError(t, err)
	assert.Equal(t, KindReservations, s.Kind)

	s, err = ByKind("engagements")
	require.NoError(t, err)
	assert.Equal(t, KindEngagements, s.Kind)

	_, err = ByKind("tickets")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFieldLookupUsesAliases(t *testing.T) {
	f, ok := Reservation.Field("party_size")
	require.True(t, ok)

	v, ok := f.Lookup(map[string]string{"personas": "4"})
	assert.True(t, ok)
	assert.Equal(t, "4", v)

	v, ok = f.Lookup(map[string]string{"party_size": "2", "personas": "4"})
	assert.True(t, ok)
	assert.Equal(t, "2", v, "canonical name wins over alias")

	_, ok = f.Lookup(map[string]string{"name": "Ana"})
	assert.False(t, ok)
}

func TestFieldAllowed(t *testing.T) {
	status, ok := Engagement.Field("status")
	require.True(t, ok)
	assert.True(t, status.Allowed(StatusCompleted))
	assert.False(t, status.Allowed("Archived"))

	client, _ := Engagement.Field("client")
	assert.True(t, client.Allowed("anything"))
}

func TestFieldCanonicalValue(t *testing.T) {
	status, ok := Reservation.Field("status")
	require.True(t, ok)
	assert.Equal(t, StatusConfirmed, status.Canonical("Confirmado"))
	assert.Equal(t, StatusPending, status.Canonical("pendiente"))
	assert.Equal(t, StatusBlocked, status.Canonical(StatusBlocked))
	assert.Equal(t, "Waitlisted", status.Canonical("Waitlisted"))

	status, _ = Engagement.Field("status")
	assert.Equal(t, StatusInProgress, status.Canonical("En Progreso"))
}
