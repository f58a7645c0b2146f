package semantic

import (
	"image"
	"sort"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/imgutil"
	"github.com/tactileforge/relief/internal/mempool"
	"github.com/tactileforge/relief/internal/params"
)

// processDiagram builds the diagram height field: filled regions are
// quantized into discrete levels and edges are raised on top:
//
//	region_level*region_contrast + edge_mask*edge_emphasis
//
// Region levels are assigned by area descending with position tie-breaks,
// so the same input always yields the same region-to-height assignment.
func (e *Engine) processDiagram(img image.Image, sem params.Semantic) (*heightfield.Field, []string, error) {
	luma := imgutil.Luma(img)
	w, h := luma.Width, luma.Height

	// Diagram content is dark ink on a light background.
	th := imgutil.OtsuThreshold(luma)
	ink := make([]bool, w*h)
	for i, v := range luma.Data {
		ink[i] = v < th
	}

	regions := labelRegions(ink, w, h)
	raw := heightfield.New(w, h)

	contrast := float32(sem.RegionContrast / 100)
	n := len(regions)
	for rank, r := range regions {
		level := contrast * float32(n-rank) / float32(n)
		for _, idx := range r.pixels {
			raw.Data[idx] = level
		}
	}

	edges, err := e.providers.Edge.DetectEdges(img)
	if err != nil {
		return nil, nil, err
	}
	raw.AddScaled(edges, float32(sem.EdgeEmphasis/100))

	var warnings []string
	if n == 0 {
		warnings = append(warnings, "no filled regions detected, relief carries edges only")
	}
	return raw, warnings, nil
}

// region is one 4-connected component of the ink mask.
type region struct {
	pixels     []int
	minX, minY int
}

// labelRegions extracts 4-connected components of mask and orders them by
// area descending, breaking ties by top-left position.
func labelRegions(mask []bool, w, h int) []region {
	visited := mempool.GetBool(w * h)
	defer mempool.PutBool(visited)

	var regions []region
	queue := make([]int, 0, 256)

	for start, on := range mask {
		if !on || visited[start] {
			continue
		}
		r := region{minX: start % w, minY: start / w}
		queue = append(queue[:0], start)
		visited[start] = true

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			r.pixels = append(r.pixels, idx)

			x, y := idx%w, idx/w
			if y < r.minY || (y == r.minY && x < r.minX) {
				r.minX, r.minY = x, y
			}

			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if mask[ni] && !visited[ni] {
					visited[ni] = true
					queue = append(queue, ni)
				}
			}
		}
		regions = append(regions, r)
	}

	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i], regions[j]
		if len(a.pixels) != len(b.pixels) {
			return len(a.pixels) > len(b.pixels)
		}
		if a.minY != b.minY {
			return a.minY < b.minY
		}
		return a.minX < b.minX
	})
	return regions
}
