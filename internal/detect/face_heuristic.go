package detect

import (
	"image"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/imgutil"
	"github.com/tactileforge/relief/internal/mempool"
)

// HeuristicFaceDetector approximates a face detector without any model
// asset: it thresholds the luminance field with Otsu and treats the
// largest bright connected component near the image center as the subject
// region. Useful as a portable fallback and for synthetic test inputs.
type HeuristicFaceDetector struct {
	// MinAreaFrac and MaxAreaFrac bound the accepted component size
	// relative to the image, rejecting speckle and full-frame blobs.
	MinAreaFrac float64
	MaxAreaFrac float64
}

// NewHeuristicFaceDetector returns a detector with default bounds.
func NewHeuristicFaceDetector() *HeuristicFaceDetector {
	return &HeuristicFaceDetector{MinAreaFrac: 0.01, MaxAreaFrac: 0.6}
}

// DetectFaces finds at most one subject region.
func (d *HeuristicFaceDetector) DetectFaces(img image.Image) ([]Face, error) {
	luma := imgutil.Luma(img)
	w, h := luma.Width, luma.Height

	th := imgutil.OtsuThreshold(luma)
	mask := imgutil.BinarizeAbove(luma, th)

	comp, ok := largestComponent(mask, luma, w, h)
	if !ok {
		return nil, nil
	}

	area := float64(comp.count) / float64(w*h)
	if area < d.MinAreaFrac || area > d.MaxAreaFrac {
		return nil, nil
	}

	box := Box{X: comp.minX, Y: comp.minY, W: comp.maxX - comp.minX + 1, H: comp.maxY - comp.minY + 1}

	// Confidence from component brightness, discounted by distance of the
	// component centroid from the image center.
	cx := float64(comp.sumX) / float64(comp.count)
	cy := float64(comp.sumY) / float64(comp.count)
	dx := (cx - float64(w)/2) / float64(w)
	dy := (cy - float64(h)/2) / float64(h)
	centerPenalty := dx*dx + dy*dy // 0 at center, 0.5 at a corner

	conf := comp.meanVal * (1 - centerPenalty)
	if conf < 0 {
		conf = 0
	}

	return []Face{{
		Box:        box,
		Confidence: conf,
		Landmarks:  landmarksFromBox(box),
	}}, nil
}

// component accumulates the stats of one connected region.
type component struct {
	count      int
	minX, minY int
	maxX, maxY int
	sumX, sumY int64
	meanVal    float64
}

// largestComponent finds the 4-connected component with the most pixels
// in the mask using an iterative BFS over an index queue.
func largestComponent(mask []bool, vals *heightfield.Field, w, h int) (component, bool) {
	visited := mempool.GetBool(w * h)
	defer mempool.PutBool(visited)

	var best component
	found := false

	queue := make([]int, 0, 256)
	for start, on := range mask {
		if !on || visited[start] {
			continue
		}

		cur := component{minX: start % w, minY: start / w, maxX: start % w, maxY: start / w}
		var valSum float64
		queue = append(queue[:0], start)
		visited[start] = true

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := idx%w, idx/w

			cur.count++
			cur.sumX += int64(x)
			cur.sumY += int64(y)
			valSum += float64(vals.Data[idx])
			if x < cur.minX {
				cur.minX = x
			}
			if y < cur.minY {
				cur.minY = y
			}
			if x > cur.maxX {
				cur.maxX = x
			}
			if y > cur.maxY {
				cur.maxY = y
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

		cur.meanVal = valSum / float64(cur.count)
		if !found || cur.count > best.count {
			best = cur
			found = true
		}
	}
	return best, found
}
