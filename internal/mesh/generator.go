package mesh

import (
	"fmt"
	"math"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

// Build converts a normalized height field into a closed solid: the
// relief surface on top, a flat base plate at z = 0, and perimeter walls
// joining the two. For a W x H grid the triangle budget is exact:
// 2(W-1)(H-1) top, the same for the base, and 4((W-1)+(H-1)) walls.
//
// x and y span [0, width_mm] and [0, height_mm], with height_mm derived
// from the grid aspect ratio so cells stay square. z is
// base_thickness_mm + value * relief_depth_mm.
func Build(field *heightfield.Field, phys params.Physical) (*Mesh, error) {
	w, h := field.Width, field.Height
	if w < 2 || h < 2 {
		return nil, &GeometryError{
			Operation: "build",
			Message:   fmt.Sprintf("grid %dx%d too small to triangulate, need at least 2x2", w, h),
		}
	}
	for i, v := range field.Data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, &GeometryError{
				Operation: "build",
				Message:   fmt.Sprintf("non-finite height at index %d", i),
			}
		}
	}

	scale := phys.WidthMM / float64(w-1)
	base := phys.BaseThicknessMM
	depth := phys.ReliefDepthMM

	m := &Mesh{
		Vertices:  make([]Vec3, 0, 2*w*h),
		Triangles: make([]Triangle, 0, 4*(w-1)*(h-1)+4*((w-1)+(h-1))),
	}

	// Top vertices, then base vertices at the same (x, y) with z = 0.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Vertices = append(m.Vertices, Vec3{
				X: float64(x) * scale,
				Y: float64(y) * scale,
				Z: base + float64(field.At(x, y))*depth,
			})
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Vertices = append(m.Vertices, Vec3{
				X: float64(x) * scale,
				Y: float64(y) * scale,
			})
		}
	}

	top := func(x, y int) int { return y*w + x }
	bot := func(x, y int) int { return w*h + y*w + x }

	// Top surface, diagonal from (x, y) to (x+1, y+1) in every cell.
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			m.addTriangle(top(x, y), top(x+1, y), top(x+1, y+1))
			m.addTriangle(top(x, y), top(x+1, y+1), top(x, y+1))
		}
	}

	// Base plate, wound so normals face down.
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			m.addTriangle(bot(x, y), bot(x+1, y+1), bot(x+1, y))
			m.addTriangle(bot(x, y), bot(x, y+1), bot(x+1, y+1))
		}
	}

	// Perimeter walls, one quad per boundary cell edge.
	for x := 0; x < w-1; x++ {
		// y = 0 edge, outward -y.
		m.addTriangle(bot(x, 0), bot(x+1, 0), top(x+1, 0))
		m.addTriangle(bot(x, 0), top(x+1, 0), top(x, 0))
		// y = h-1 edge, outward +y.
		m.addTriangle(bot(x, h-1), top(x+1, h-1), bot(x+1, h-1))
		m.addTriangle(bot(x, h-1), top(x, h-1), top(x+1, h-1))
	}
	for y := 0; y < h-1; y++ {
		// x = 0 edge, outward -x.
		m.addTriangle(bot(0, y), top(0, y+1), bot(0, y+1))
		m.addTriangle(bot(0, y), top(0, y), top(0, y+1))
		// x = w-1 edge, outward +x.
		m.addTriangle(bot(w-1, y), bot(w-1, y+1), top(w-1, y+1))
		m.addTriangle(bot(w-1, y), top(w-1, y+1), top(w-1, y))
	}

	return m, nil
}

// addTriangle appends a triangle with its winding normal.
func (m *Mesh) addTriangle(a, b, c int) {
	t := Triangle{V: [3]int{a, b, c}}
	t.Normal = m.WindingNormal(t)
	m.Triangles = append(m.Triangles, t)
}

// TriangleBudget returns the exact triangle count Build produces for a
// w x h grid.
func TriangleBudget(w, h int) int {
	return 4*(w-1)*(h-1) + 4*((w-1)+(h-1))
}
