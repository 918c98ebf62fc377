package main

import (
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// stlRecordSize is one binary STL facet: a normal and three vertices as
// float32 triples, plus a 16-bit attribute field.
const stlRecordSize = 4*3*4 + 2

// WriteSTL writes m in binary STL format: an 80-byte header, a
// little-endian uint32 triangle count, and one 50-byte record per
// triangle. Vertices are written per triangle, in winding order, with no
// deduplication. The stored facet normal is the unit normal implied by
// the winding, or zero for a degenerate triangle.
func WriteSTL(w io.Writer, m *Mesh) error {
	var header struct {
		H    [80]byte
		NTri uint32
	}
	for i := range header.H {
		header.H[i] = ' '
	}
	copy(header.H[:], m.Header)
	header.NTri = uint32(len(m.Tris))
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return errors.Wrap(err, "write STL header")
	}

	buf := make([]byte, stlRecordSize)
	for _, tri := range m.Tris {
		n := facetNormal(m.Verts[tri[0]], m.Verts[tri[1]], m.Verts[tri[2]])
		putVec(buf[0:], n.X, n.Y, n.Z)
		for v, idx := range tri {
			vert := m.Verts[idx]
			putVec(buf[12+12*v:], vert[0], vert[1], vert[2])
		}
		buf[48], buf[49] = 0, 0 // attribute byte count
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "write STL triangle")
		}
	}
	return nil
}

func putVec(b []byte, x, y, z float64) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(x)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(z)))
}

func facetNormal(a, b, c [3]float64) r3.Vec {
	n := r3.Cross(r3.Sub(vec(b), vec(a)), r3.Sub(vec(c), vec(a)))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// ReadSTL parses a binary STL stream into a Mesh, deduplicating vertices
// that are bit-identical so the result is indexed like a built mesh.
func ReadSTL(r io.Reader) (*Mesh, error) {
	m := new(Mesh)

	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read STL header")
	}
	m.Header = strings.TrimRight(string(header.H[:]), " ")

	vertMap := make(map[[3]float32]int)

	var vert [3]float32
	var tri [3]int
	triBuf := make([]byte, stlRecordSize)
	for i := 0; i < int(header.NTri); i++ {
		// Read a triangle
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, errors.Wrap(err, "read STL triangle")
		}
		// Read the vertexes.
		for v := range tri {
			// Read the coordinates of this vertex.
			for c := range vert {
				const start = 3 * 4 // Skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(triBuf[start+12*v+4*c:]))
			}
			// Add the vertex to the vertex set.
			vertIndex, ok := vertMap[vert]
			if !ok {
				vertIndex = len(m.Verts)
				m.Verts = append(m.Verts, [3]float64{float64(vert[0]), float64(vert[1]), float64(vert[2])})
				vertMap[vert] = vertIndex
			}
			tri[v] = vertIndex
		}
		// Add the triangle.
		m.Tris = append(m.Tris, tri)
	}

	return m, nil
}
