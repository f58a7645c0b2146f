package mesh

import (
	"fmt"
	"math"
	"sort"
)

// ValidatorConfig holds the printability thresholds.
type ValidatorConfig struct {
	// MinFeatureSizeMM is the smallest raised-feature span considered
	// printable; smaller features get a warning.
	MinFeatureSizeMM float64 `mapstructure:"min_feature_size_mm" yaml:"min_feature_size_mm" json:"min_feature_size_mm"`

	// BedWidthMM and BedDepthMM describe the printer bed; a larger
	// footprint gets a warning.
	BedWidthMM float64 `mapstructure:"bed_width_mm" yaml:"bed_width_mm" json:"bed_width_mm"`
	BedDepthMM float64 `mapstructure:"bed_depth_mm" yaml:"bed_depth_mm" json:"bed_depth_mm"`

	// SelfIntersectionLimit skips the intersection scan above this many
	// triangles. Zero disables the scan entirely.
	SelfIntersectionLimit int `mapstructure:"self_intersection_limit" yaml:"self_intersection_limit" json:"self_intersection_limit"`
}

// DefaultValidatorConfig returns thresholds for a common desktop printer.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MinFeatureSizeMM:      2,
		BedWidthMM:            220,
		BedDepthMM:            220,
		SelfIntersectionLimit: 200_000,
	}
}

// Report is the outcome of validating one mesh. Warnings never block
// export; the only hard errors are zero triangles and zero volume.
type Report struct {
	IsManifold              bool        `json:"is_manifold"`
	HasInvertedNormals      bool        `json:"has_inverted_normals"`
	HasSelfIntersections    bool        `json:"has_self_intersections"`
	SelfIntersectionChecked bool        `json:"self_intersection_checked"`
	MinFeatureSizeMM        float64     `json:"min_feature_size_mm"`
	BoundingBoxMM           BoundingBox `json:"bounding_box_mm"`
	TriangleCount           int         `json:"triangle_count"`
	VolumeMM3               float64     `json:"volume_mm3"`
	Warnings                []string    `json:"warnings"`
	Errors                  []string    `json:"errors"`
}

// OK reports whether the mesh passed without hard errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Validate inspects a mesh for printability. The mesh is never modified;
// see Repair for the corrective pass.
func Validate(m *Mesh, cfg ValidatorConfig) *Report {
	r := &Report{
		TriangleCount: len(m.Triangles),
		BoundingBoxMM: m.BoundingBox(),
		Warnings:      []string{},
		Errors:        []string{},
	}

	if len(m.Triangles) == 0 {
		r.Errors = append(r.Errors, "mesh has zero triangles")
		return r
	}

	r.VolumeMM3 = m.SignedVolume()
	if math.Abs(r.VolumeMM3) < 1e-9 {
		r.Errors = append(r.Errors, "mesh has zero volume")
	}

	boundary, overshared := edgeDefects(m)
	r.IsManifold = boundary == 0 && overshared == 0
	if boundary > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d boundary edges, mesh is not watertight", boundary))
	}
	if overshared > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d edges shared by more than two triangles", overshared))
	}

	inverted := countInvertedNormals(m)
	r.HasInvertedNormals = inverted > 0
	if inverted > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d triangles with inward-facing normals", inverted))
	}

	switch {
	case cfg.SelfIntersectionLimit <= 0 || len(m.Triangles) > cfg.SelfIntersectionLimit:
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("self-intersection check skipped for %d triangles", len(m.Triangles)))
	default:
		r.SelfIntersectionChecked = true
		if hasSelfIntersections(m) {
			r.HasSelfIntersections = true
			r.Warnings = append(r.Warnings, "mesh has self-intersecting triangles")
		}
	}

	if span, ok := minFeatureSize(m); ok {
		r.MinFeatureSizeMM = span
		if span < cfg.MinFeatureSizeMM {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("smallest raised feature spans %.2fmm, below the %.2fmm printable minimum",
					span, cfg.MinFeatureSizeMM))
		}
	}

	size := r.BoundingBoxMM.Size()
	if size.X > cfg.BedWidthMM || size.Y > cfg.BedDepthMM {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("footprint %.0fx%.0fmm exceeds the %.0fx%.0fmm bed",
				size.X, size.Y, cfg.BedWidthMM, cfg.BedDepthMM))
	}

	return r
}

// ValidateFile decodes an STL file and validates the mesh it contains.
func ValidateFile(path string, cfg ValidatorConfig) (*Report, error) {
	m, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(m, cfg), nil
}

// edgeKey is an undirected edge between two vertex indices.
type edgeKey struct{ a, b int }

func makeEdge(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeDefects counts boundary edges (shared by one triangle) and
// over-shared edges (more than two).
func edgeDefects(m *Mesh) (boundary, overshared int) {
	counts := make(map[edgeKey]int, len(m.Triangles)*3/2)
	for _, t := range m.Triangles {
		counts[makeEdge(t.V[0], t.V[1])]++
		counts[makeEdge(t.V[1], t.V[2])]++
		counts[makeEdge(t.V[2], t.V[0])]++
	}
	for _, c := range counts {
		switch {
		case c == 1:
			boundary++
		case c > 2:
			overshared++
		}
	}
	return boundary, overshared
}

// countInvertedNormals counts triangles whose winding normal points
// toward the mesh centroid instead of away from it.
func countInvertedNormals(m *Mesh) int {
	centroid := m.Centroid()
	var inverted int
	for _, t := range m.Triangles {
		n := m.WindingNormal(t)
		if n.Length() < 1e-12 {
			continue
		}
		if n.Dot(m.FaceCenter(t).Sub(centroid)) < 0 {
			inverted++
		}
	}
	return inverted
}

// hasSelfIntersections runs a uniform-grid broad phase and an exact
// triangle-triangle narrow phase over candidate pairs. Pairs sharing a
// vertex are adjacent by construction and skipped.
func hasSelfIntersections(m *Mesh) bool {
	bb := m.BoundingBox()
	size := bb.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim < 1e-9 {
		return false
	}
	cell := maxDim / 32

	grid := make(map[[3]int][]int)
	cellOf := func(v Vec3) [3]int {
		return [3]int{
			int((v.X - bb.Min.X) / cell),
			int((v.Y - bb.Min.Y) / cell),
			int((v.Z - bb.Min.Z) / cell),
		}
	}

	for i, t := range m.Triangles {
		lo := cellOf(triMin(m, t))
		hi := cellOf(triMax(m, t))
		for cx := lo[0]; cx <= hi[0]; cx++ {
			for cy := lo[1]; cy <= hi[1]; cy++ {
				for cz := lo[2]; cz <= hi[2]; cz++ {
					key := [3]int{cx, cy, cz}
					grid[key] = append(grid[key], i)
				}
			}
		}
	}

	checked := make(map[edgeKey]bool)
	for _, tris := range grid {
		for i := 0; i < len(tris); i++ {
			for j := i + 1; j < len(tris); j++ {
				a, b := tris[i], tris[j]
				pair := makeEdge(a, b)
				if checked[pair] {
					continue
				}
				checked[pair] = true
				if sharesVertex(m.Triangles[a], m.Triangles[b]) {
					continue
				}
				if trianglesIntersect(m, m.Triangles[a], m.Triangles[b]) {
					return true
				}
			}
		}
	}
	return false
}

func triMin(m *Mesh, t Triangle) Vec3 {
	a, b, c := m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
	return Vec3{
		X: math.Min(a.X, math.Min(b.X, c.X)),
		Y: math.Min(a.Y, math.Min(b.Y, c.Y)),
		Z: math.Min(a.Z, math.Min(b.Z, c.Z)),
	}
}

func triMax(m *Mesh, t Triangle) Vec3 {
	a, b, c := m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
	return Vec3{
		X: math.Max(a.X, math.Max(b.X, c.X)),
		Y: math.Max(a.Y, math.Max(b.Y, c.Y)),
		Z: math.Max(a.Z, math.Max(b.Z, c.Z)),
	}
}

func sharesVertex(a, b Triangle) bool {
	for _, va := range a.V {
		for _, vb := range b.V {
			if va == vb {
				return true
			}
		}
	}
	return false
}

// trianglesIntersect tests whether any edge of one triangle passes
// through the interior of the other.
func trianglesIntersect(m *Mesh, a, b Triangle) bool {
	av := [3]Vec3{m.Vertices[a.V[0]], m.Vertices[a.V[1]], m.Vertices[a.V[2]]}
	bv := [3]Vec3{m.Vertices[b.V[0]], m.Vertices[b.V[1]], m.Vertices[b.V[2]]}
	for i := 0; i < 3; i++ {
		if segmentCrossesTriangle(av[i], av[(i+1)%3], bv[0], bv[1], bv[2]) {
			return true
		}
		if segmentCrossesTriangle(bv[i], bv[(i+1)%3], av[0], av[1], av[2]) {
			return true
		}
	}
	return false
}

// segmentCrossesTriangle reports whether segment pq passes strictly
// through the interior of triangle abc (Moller-Trumbore with strict
// bounds, so boundary touches do not count).
func segmentCrossesTriangle(p, q, a, b, c Vec3) bool {
	const eps = 1e-9
	dir := q.Sub(p)
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	h := dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < 1e-12 {
		return false
	}
	inv := 1 / det

	s := p.Sub(a)
	u := s.Dot(h) * inv
	if u < eps || u > 1-eps {
		return false
	}
	qv := s.Cross(e1)
	v := dir.Dot(qv) * inv
	if v < eps || u+v > 1-eps {
		return false
	}
	t := e2.Dot(qv) * inv
	return t > eps && t < 1-eps
}

// minFeatureSize measures the smallest raised feature on the top surface:
// clusters of upward-facing vertices above the mid-height of the relief,
// measured by the smaller side of each cluster's footprint. The second
// return value is false when the relief carries no raised features.
func minFeatureSize(m *Mesh) (float64, bool) {
	// Upward-facing triangles form the relief surface.
	var topTris []Triangle
	topVerts := make(map[int]bool)
	for _, t := range m.Triangles {
		if m.WindingNormal(t).Z > 0.3 {
			topTris = append(topTris, t)
			for _, vi := range t.V {
				topVerts[vi] = true
			}
		}
	}
	if len(topVerts) == 0 {
		return 0, false
	}

	zLo, zHi := math.Inf(1), math.Inf(-1)
	for vi := range topVerts {
		z := m.Vertices[vi].Z
		zLo = math.Min(zLo, z)
		zHi = math.Max(zHi, z)
	}
	if zHi-zLo < 1e-9 {
		return 0, false
	}
	mid := zLo + (zHi-zLo)/2

	raised := make(map[int]bool)
	for vi := range topVerts {
		if m.Vertices[vi].Z > mid {
			raised[vi] = true
		}
	}
	if len(raised) == 0 {
		return 0, false
	}

	// Union-find over edges of the top surface joining raised vertices.
	parent := make(map[int]int, len(raised))
	for vi := range raised {
		parent[vi] = vi
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(x, y int) {
		rx, ry := find(x), find(y)
		if rx != ry {
			parent[rx] = ry
		}
	}
	for _, t := range topTris {
		for i := 0; i < 3; i++ {
			a, b := t.V[i], t.V[(i+1)%3]
			if raised[a] && raised[b] {
				union(a, b)
			}
		}
	}

	type extent struct{ minX, maxX, minY, maxY float64 }
	clusters := make(map[int]*extent)
	for vi := range raised {
		root := find(vi)
		v := m.Vertices[vi]
		e, ok := clusters[root]
		if !ok {
			clusters[root] = &extent{minX: v.X, maxX: v.X, minY: v.Y, maxY: v.Y}
			continue
		}
		e.minX = math.Min(e.minX, v.X)
		e.maxX = math.Max(e.maxX, v.X)
		e.minY = math.Min(e.minY, v.Y)
		e.maxY = math.Max(e.maxY, v.Y)
	}

	spans := make([]float64, 0, len(clusters))
	for _, e := range clusters {
		spans = append(spans, math.Min(e.maxX-e.minX, e.maxY-e.minY))
	}
	sort.Float64s(spans)
	return spans[0], true
}
