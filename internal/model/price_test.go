package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "decorated string", in: `"₦15,000"`, want: "₦15,000"},
		{name: "number", in: `5000`, want: "5000"},
		{name: "decimal number", in: `12.50`, want: "12.50"},
		{name: "null", in: `null`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestPrice_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewPrice("5000"))
	require.NoError(t, err)
	assert.Equal(t, `5000`, string(b))

	b, err = json.Marshal(NewPrice("₦5,000"))
	require.NoError(t, err)
	assert.Equal(t, `"₦5,000"`, string(b))

	b, err = json.Marshal(NewPrice("NaN"))
	require.NoError(t, err)
	assert.Equal(t, `"NaN"`, string(b))
}

func TestService_PackageLookup(t *testing.T) {
	svc := Service{ID: "svc1", Packages: []Package{{ID: "pkgA"}, {ID: "pkgB"}}}

	p, ok := svc.Package("pkgB")
	assert.True(t, ok)
	assert.Equal(t, "pkgB", p.ID)

	_, ok = svc.Package("nope")
	assert.False(t, ok)
}

func TestServiceRegistration_CanMoveTo(t *testing.T) {
	pending := ServiceRegistration{Status: StatusPending}
	assert.True(t, pending.CanMoveTo(StatusApproved))
	assert.True(t, pending.CanMoveTo(StatusRejected))
	assert.False(t, pending.CanMoveTo(StatusPending))

	approved := ServiceRegistration{Status: StatusApproved}
	assert.False(t, approved.CanMoveTo(StatusRejected))
}
