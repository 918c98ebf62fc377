package main

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Mesh is an indexed triangle mesh. The triangle winding follows the
// right-hand rule, so a correctly built mesh has all normals facing
// outward.
type Mesh struct {
	Header string

	Verts [][3]float64
	Tris  [][3]int
}

// TriangleCount returns the number of triangles a closed relief solid
// over an nx-by-ny grid must have: two surfaces of 2(nx-1)(ny-1)
// triangles each, plus two triangles per unit segment on each of the four
// walls.
func TriangleCount(nx, ny int) int {
	return 4*(nx-1)*(ny-1) + 4*(nx-1) + 4*(ny-1)
}

// BuildMesh extrudes the height grid into a closed solid: the relief on
// top, a flat bottom at z=0, and four connecting walls. x and y are grid
// coordinates scaled to millimeters; z is the height value. The result is
// a closed 2-manifold with outward-facing normals.
func BuildMesh(g *Grid, scale float64) (*Mesh, error) {
	nx, ny := g.W, g.H
	n := nx * ny

	// Vertex k is the top surface; k+n is the bottom vertex directly
	// below it.
	top := func(i, j int) int { return j*nx + i }
	bottom := func(i, j int) int { return n + j*nx + i }

	verts := make([][3]float64, 2*n)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x := float64(i) * scale
			y := float64(j) * scale
			verts[top(i, j)] = [3]float64{x, y, g.At(i, j)}
			verts[bottom(i, j)] = [3]float64{x, y, 0}
		}
	}

	tris := make([][3]int, 0, TriangleCount(nx, ny))

	// Top surface, normals toward +z.
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			v00, v10 := top(i, j), top(i+1, j)
			v01, v11 := top(i, j+1), top(i+1, j+1)
			tris = append(tris, [3]int{v00, v10, v01}, [3]int{v10, v11, v01})
		}
	}
	// Bottom surface, winding reversed so normals face -z.
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			v00, v10 := bottom(i, j), bottom(i+1, j)
			v01, v11 := bottom(i, j+1), bottom(i+1, j+1)
			tris = append(tris, [3]int{v00, v01, v10}, [3]int{v10, v01, v11})
		}
	}
	// Front (j=0) and back (j=ny-1) walls.
	for i := 0; i < nx-1; i++ {
		t0, t1 := top(i, 0), top(i+1, 0)
		b0, b1 := bottom(i, 0), bottom(i+1, 0)
		tris = append(tris, [3]int{t0, b0, b1}, [3]int{t0, b1, t1})

		t0, t1 = top(i, ny-1), top(i+1, ny-1)
		b0, b1 = bottom(i, ny-1), bottom(i+1, ny-1)
		tris = append(tris, [3]int{t0, b1, b0}, [3]int{t0, t1, b1})
	}
	// Left (i=0) and right (i=nx-1) walls.
	for j := 0; j < ny-1; j++ {
		t0, t1 := top(0, j), top(0, j+1)
		b0, b1 := bottom(0, j), bottom(0, j+1)
		tris = append(tris, [3]int{t0, b1, b0}, [3]int{t0, t1, b1})

		t0, t1 = top(nx-1, j), top(nx-1, j+1)
		b0, b1 = bottom(nx-1, j), bottom(nx-1, j+1)
		tris = append(tris, [3]int{t0, b0, b1}, [3]int{t0, b1, t1})
	}

	if len(tris) != TriangleCount(nx, ny) {
		return nil, errors.Wrapf(ErrMeshConsistency,
			"emitted %d triangles for %dx%d grid, want %d",
			len(tris), nx, ny, TriangleCount(nx, ny))
	}
	return &Mesh{Header: "fits2stl relief", Verts: verts, Tris: tris}, nil
}

// Volume returns the signed volume enclosed by the mesh via the
// divergence theorem. It is positive when the winding is consistently
// outward.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, tri := range m.Tris {
		a := vec(m.Verts[tri[0]])
		b := vec(m.Verts[tri[1]])
		c := vec(m.Verts[tri[2]])
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
