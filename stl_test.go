package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestMesh(t *testing.T) *Mesh {
	t.Helper()
	g := gridOf(3, 3,
		2, 3, 4,
		5, 2, 6,
		3, 7, 2)
	m, err := BuildMesh(g, 1)
	require.NoError(t, err)
	return m
}

func TestWriteSTLLayout(t *testing.T) {
	m := buildTestMesh(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, m))

	b := buf.Bytes()
	require.Len(t, b, 80+4+stlRecordSize*len(m.Tris))
	assert.Equal(t, uint32(len(m.Tris)), binary.LittleEndian.Uint32(b[80:]))
	// The header is the mesh name padded with spaces.
	assert.Equal(t, byte('f'), b[0])
	assert.Equal(t, byte(' '), b[79])
	// Every record's attribute field is zero.
	for i := 0; i < len(m.Tris); i++ {
		rec := b[84+i*stlRecordSize:]
		assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(rec[48:50]))
	}
}

func TestSTLRoundTrip(t *testing.T) {
	m := buildTestMesh(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, m))

	got, err := ReadSTL(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Header, got.Header)
	require.Len(t, got.Tris, len(m.Tris))
	// The reader deduplicates bit-identical vertices, so the count comes
	// back to the builder's 2*nx*ny.
	assert.Len(t, got.Verts, len(m.Verts))

	// Each triangle's positions survive, up to float32 rounding, in the
	// original winding order.
	for i, tri := range m.Tris {
		for v := 0; v < 3; v++ {
			want := m.Verts[tri[v]]
			gotV := got.Verts[got.Tris[i][v]]
			for c := 0; c < 3; c++ {
				assert.Equal(t, float64(float32(want[c])), gotV[c])
			}
		}
	}
}

func TestWriteSTLNormals(t *testing.T) {
	// A flat plate's first triangle is on the top surface: its stored
	// normal must be the +z unit vector.
	g := NewGrid(3, 2)
	g.Fill(5)
	m, err := BuildMesh(g, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, m))
	b := buf.Bytes()

	normal := func(rec int) [3]float32 {
		off := 84 + rec*stlRecordSize
		var n [3]float32
		for c := range n {
			n[c] = math.Float32frombits(binary.LittleEndian.Uint32(b[off+4*c:]))
		}
		return n
	}
	assert.Equal(t, [3]float32{0, 0, 1}, normal(0))

	// The bottom surface starts after the top's 2*(nx-1)*(ny-1)
	// triangles and faces -z.
	assert.Equal(t, [3]float32{0, 0, -1}, normal(2*2*1))
}

func TestFacetNormalDegenerate(t *testing.T) {
	n := facetNormal([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, [3]float64{2, 2, 2})
	assert.Equal(t, 0.0, n.X)
	assert.Equal(t, 0.0, n.Y)
	assert.Equal(t, 0.0, n.Z)
}

func TestWriteSTLPreservesWinding(t *testing.T) {
	m := buildTestMesh(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, m))
	got, err := ReadSTL(&buf)
	require.NoError(t, err)
	// The signed volume survives the round trip, confirming winding
	// order was preserved record by record.
	assert.InDelta(t, m.Volume(), got.Volume(), 1e-3)
}
