package cache

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jjtimmons/vhelix/internal/mesh"
)

func tetrahedron() *mesh.Mesh {
	return &mesh.Mesh{
		Name:     "tetra",
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Faces:    [][]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}},
	}
}

func TestCache_roundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	c, err := Open("")
	require.NoError(t, err)
	defer c.Close()

	key := Key(tetrahedron(), "atrail")
	_, err = c.Get(key)
	assert.Equal(t, ErrMiss, errors.Cause(err))

	want := &Entry{
		Variant: "atrail",
		Found:   true,
		Trails:  [][]int{{0, 1, 2, 0, 3, 1, 0}},
		Edges:   []int{0, 2, 1, 5, 4, 3},
	}
	require.NoError(t, c.Put(key, want))
	got, err := c.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	notFound := &Entry{Variant: "atrail", Reason: "no A-trail for either parity"}
	require.NoError(t, c.Put(key, notFound))
	got, err = c.Get(key)
	require.NoError(t, err)
	assert.Equal(t, notFound, got)

	require.NoError(t, c.Delete(key))
	_, err = c.Get(key)
	assert.Equal(t, ErrMiss, errors.Cause(err))
}

func TestKey(t *testing.T) {
	m := tetrahedron()
	a := Key(m, "atrail")
	assert.True(t, bytes.HasPrefix(a, keyPrefix))
	assert.Equal(t, a, Key(tetrahedron(), "atrail"))
	assert.NotEqual(t, a, Key(m, "scaffold-free"))

	moved := tetrahedron()
	moved.Vertices[3].Z = 2
	assert.NotEqual(t, a, Key(moved, "atrail"))

	withEdge := tetrahedron()
	withEdge.Edges = [][2]int{{2, 3}}
	assert.NotEqual(t, a, Key(withEdge, "atrail"))
}

func TestDecode_corrupt(t *testing.T) {
	tests := []struct {
		name string
		val  []byte
	}{
		{"empty", nil},
		{"wrong version", []byte{9}},
		{"truncated", encode(&Entry{Variant: "atrail", Trails: [][]int{{1, 2, 3}}})[:6]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(tt.val)
			assert.Equal(t, ErrCorrupt, errors.Cause(err))
		})
	}
}
