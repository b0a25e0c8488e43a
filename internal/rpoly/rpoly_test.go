package rpoly

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const square = `# Relaxation of square file. 2 helices.
# Total separation: Initial: min: 1, max: 2, average: 1.5, total: 3 nm, final: min: 0.1, max: 0.2, average: 0.15, total: 0.3 nm
hb helix_1 30 5 0 0 0 0.707107 0 0.707107
hb helix_2 31 -1.5e-05 5 .25 0 0 0 1

c helix_1 f3' helix_2 f5'
c helix_2 b3' helix_1 b5'

autostaple
ps helix_1 f3'
`

func TestParse(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	s, err := ParseString(square)
	require.NoError(t, err)

	require.Len(t, s.Helices, 2)
	assert.Equal(t, "helix_1", s.Helices[0].Name)
	assert.Equal(t, 30, s.Helices[0].Bases)
	assert.Equal(t, r3.Vec{X: 5}, s.Helices[0].Position)
	assert.InDelta(t, 0.707107, s.Helices[0].Rotation.Jmag, 1e-9)
	assert.InDelta(t, 0.707107, s.Helices[0].Rotation.Real, 1e-9)
	assert.InDelta(t, -1.5e-05, s.Helices[1].Position.X, 1e-12)
	assert.InDelta(t, 0.25, s.Helices[1].Position.Z, 1e-12)

	assert.Equal(t, []Connection{
		{From: "helix_1", FromPoint: "f3'", To: "helix_2", ToPoint: "f5'"},
		{From: "helix_2", FromPoint: "b3'", To: "helix_1", ToPoint: "b5'"},
	}, s.Connections)
	assert.True(t, s.Autostaple)
	assert.Equal(t, &Start{Helix: "helix_1", Point: "f3'"}, s.Start)

	h, ok := s.Helix("helix_2")
	assert.True(t, ok)
	assert.Equal(t, 31, h.Bases)
	_, ok = s.Helix("helix_3")
	assert.False(t, ok)
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"unknown helix", "hb a 10 0 0 0 0 0 0 1\nc a f3' b f5'\n", ErrUnknownHelix},
		{"unknown start", "hb a 10 0 0 0 0 0 0 1\nps b f3'\n", ErrUnknownHelix},
		{"short helix line", "hb a 10 0 0 0\n", nil},
		{"bad point", "hb a 10 0 0 0 0 0 0 1\nc a f4' a f5'\n", nil},
		{"unknown statement", "xx a\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			if tt.cause != nil {
				assert.Equal(t, tt.cause, errors.Cause(err))
			}
		})
	}
}

func TestParse_empty(t *testing.T) {
	s, err := ParseString("# nothing here\n")
	require.NoError(t, err)
	assert.Empty(t, s.Helices)
	assert.Nil(t, s.Start)
	assert.False(t, s.Autostaple)
}
