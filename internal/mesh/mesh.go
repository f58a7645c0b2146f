// Package mesh builds, serializes, validates and repairs the triangulated
// solid produced from a normalized height field.
//
// All coordinates are millimeters. A Mesh is immutable once built; the
// repair pass returns a corrected copy instead of mutating.
package mesh

import (
	"fmt"
	"math"
)

// Vec3 is a point or direction in millimeter space.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalized returns the unit vector, or the zero vector for degenerate
// input.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Triangle references three vertices by index, counter-clockwise when
// viewed from outside, plus the outward unit normal.
type Triangle struct {
	V      [3]int
	Normal Vec3
}

// Mesh is a triangulated solid.
type Mesh struct {
	Vertices  []Vec3
	Triangles []Triangle
}

// BoundingBox is the axis-aligned extent of a mesh.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Size returns the extent along each axis.
func (b BoundingBox) Size() Vec3 { return b.Max.Sub(b.Min) }

// BoundingBox returns the axis-aligned extent of all vertices.
func (m *Mesh) BoundingBox() BoundingBox {
	if len(m.Vertices) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb.Min.X = math.Min(bb.Min.X, v.X)
		bb.Min.Y = math.Min(bb.Min.Y, v.Y)
		bb.Min.Z = math.Min(bb.Min.Z, v.Z)
		bb.Max.X = math.Max(bb.Max.X, v.X)
		bb.Max.Y = math.Max(bb.Max.Y, v.Y)
		bb.Max.Z = math.Max(bb.Max.Z, v.Z)
	}
	return bb
}

// Centroid returns the vertex centroid.
func (m *Mesh) Centroid() Vec3 {
	var c Vec3
	if len(m.Vertices) == 0 {
		return c
	}
	for _, v := range m.Vertices {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(m.Vertices)))
}

// FaceCenter returns the centroid of triangle t.
func (m *Mesh) FaceCenter(t Triangle) Vec3 {
	return m.Vertices[t.V[0]].
		Add(m.Vertices[t.V[1]]).
		Add(m.Vertices[t.V[2]]).
		Scale(1.0 / 3.0)
}

// WindingNormal recomputes the unit normal from the triangle's vertex
// winding, independent of the stored normal.
func (m *Mesh) WindingNormal(t Triangle) Vec3 {
	a, b, c := m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalized()
}

// SignedVolume returns the enclosed volume via the divergence theorem.
// Positive for a closed mesh with outward winding.
func (m *Mesh) SignedVolume() float64 {
	var vol float64
	for _, t := range m.Triangles {
		a, b, c := m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
		vol += a.Dot(b.Cross(c))
	}
	return vol / 6
}

// GeometryError reports an input that cannot produce a valid solid.
type GeometryError struct {
	Operation string
	Message   string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error in %s: %s", e.Operation, e.Message)
}
