package mesh

import "fmt"

// Repair returns a corrected copy of m plus a description of every repair
// performed. It flips triangles wound toward the centroid and fan-closes
// boundary loops left by missing faces. Repairs are best-effort: the
// result is topologically closed but need not reproduce the intended
// surface where geometry was missing.
//
// The input mesh is never modified.
func Repair(m *Mesh) (*Mesh, []string) {
	out := &Mesh{
		Vertices:  append([]Vec3(nil), m.Vertices...),
		Triangles: append([]Triangle(nil), m.Triangles...),
	}
	var repairs []string

	if flipped := flipInverted(out); flipped > 0 {
		repairs = append(repairs, fmt.Sprintf("flipped %d inverted triangles", flipped))
	}

	for _, loop := range boundaryLoops(out) {
		closeLoop(out, loop)
		repairs = append(repairs, fmt.Sprintf("closed boundary loop of %d edges", len(loop)))
	}

	// Stored normals follow the (possibly new) winding.
	for i := range out.Triangles {
		out.Triangles[i].Normal = out.WindingNormal(out.Triangles[i])
	}
	return out, repairs
}

// flipInverted reverses the winding of triangles facing the centroid.
func flipInverted(m *Mesh) int {
	centroid := m.Centroid()
	var flipped int
	for i, t := range m.Triangles {
		n := m.WindingNormal(t)
		if n.Length() < 1e-12 {
			continue
		}
		if n.Dot(m.FaceCenter(t).Sub(centroid)) < 0 {
			m.Triangles[i].V[1], m.Triangles[i].V[2] = t.V[2], t.V[1]
			flipped++
		}
	}
	return flipped
}

// boundaryLoops chains the directed boundary edges (edges whose reverse
// is missing) into closed vertex loops. Unclosable chains are dropped.
func boundaryLoops(m *Mesh) [][]int {
	directed := make(map[edgeKey]bool, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		directed[edgeKey{t.V[0], t.V[1]}] = true
		directed[edgeKey{t.V[1], t.V[2]}] = true
		directed[edgeKey{t.V[2], t.V[0]}] = true
	}

	// A directed edge with no reverse partner borders a hole.
	next := make(map[int]int)
	for e := range directed {
		if !directed[edgeKey{e.b, e.a}] {
			next[e.a] = e.b
		}
	}

	var loops [][]int
	visited := make(map[int]bool, len(next))
	for start := range next {
		if visited[start] {
			continue
		}
		loop := []int{start}
		visited[start] = true
		closed := false
		for cur := next[start]; ; {
			if cur == start {
				closed = true
				break
			}
			if visited[cur] {
				break
			}
			loop = append(loop, cur)
			visited[cur] = true
			n, ok := next[cur]
			if !ok {
				break
			}
			cur = n
		}
		if closed && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// closeLoop fans the hole bounded by loop around its centroid. New
// triangles reverse the boundary direction so their winding matches the
// surrounding surface.
func closeLoop(m *Mesh, loop []int) {
	var center Vec3
	for _, vi := range loop {
		center = center.Add(m.Vertices[vi])
	}
	center = center.Scale(1 / float64(len(loop)))

	ci := len(m.Vertices)
	m.Vertices = append(m.Vertices, center)

	for i, a := range loop {
		b := loop[(i+1)%len(loop)]
		t := Triangle{V: [3]int{b, a, ci}}
		t.Normal = m.WindingNormal(t)
		m.Triangles = append(m.Triangles, t)
	}
}
