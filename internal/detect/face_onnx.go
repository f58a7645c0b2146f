package detect

import (
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXFaceConfig holds settings for the ONNX face detector backend.
type ONNXFaceConfig struct {
	ModelPath   string
	InputName   string // default "input"
	ScoresName  string // default "scores"
	BoxesName   string // default "boxes"
	InputWidth  int    // default 320
	InputHeight int    // default 240
	ScoreThresh float32
	IoUThresh   float64
	NumThreads  int
}

// DefaultONNXFaceConfig returns defaults matching the UltraFace-320 layout.
func DefaultONNXFaceConfig(modelPath string) ONNXFaceConfig {
	return ONNXFaceConfig{
		ModelPath:   modelPath,
		InputName:   "input",
		ScoresName:  "scores",
		BoxesName:   "boxes",
		InputWidth:  320,
		InputHeight: 240,
		ScoreThresh: 0.7,
		IoUThresh:   0.3,
	}
}

// ONNXFaceDetector runs an UltraFace-style ONNX model. The session is
// created once and is safe for concurrent Run calls.
type ONNXFaceDetector struct {
	cfg     ONNXFaceConfig
	session *ort.DynamicAdvancedSession
}

// NewONNXFaceDetector initializes the ONNX Runtime environment (idempotent)
// and creates the inference session.
func NewONNXFaceDetector(cfg ONNXFaceConfig) (*ONNXFaceDetector, error) {
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer func() {
		if derr := opts.Destroy(); derr != nil {
			fmt.Printf("failed to destroy session options: %v", derr)
		}
	}()

	if cfg.NumThreads > 0 {
		if err = opts.SetIntraOpNumThreads(cfg.NumThreads); err != nil {
			return nil, fmt.Errorf("set thread count: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.ScoresName, cfg.BoxesName}, opts)
	if err != nil {
		return nil, fmt.Errorf("create face session: %w", err)
	}

	return &ONNXFaceDetector{cfg: cfg, session: session}, nil
}

// Close releases the session.
func (d *ONNXFaceDetector) Close() error {
	if d.session == nil {
		return nil
	}
	err := d.session.Destroy()
	d.session = nil
	return err
}

// DetectFaces resizes the image to the model input, runs inference and
// decodes score/box pairs back to original pixel coordinates.
func (d *ONNXFaceDetector) DetectFaces(img image.Image) ([]Face, error) {
	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()

	data := d.preprocess(img)
	inputTensor, err := ort.NewTensor(
		ort.NewShape(1, 3, int64(d.cfg.InputHeight), int64(d.cfg.InputWidth)), data)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer func() {
		if derr := inputTensor.Destroy(); derr != nil {
			fmt.Printf("failed to destroy input tensor: %v", derr)
		}
	}()

	outputs := []ort.Value{nil, nil}
	if err := d.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("face inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				if derr := out.Destroy(); derr != nil {
					fmt.Printf("failed to destroy output tensor: %v", derr)
				}
			}
		}
	}()

	scoresT, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected scores tensor type %T", outputs[0])
	}
	boxesT, ok := outputs[1].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected boxes tensor type %T", outputs[1])
	}

	faces := d.decode(scoresT.GetData(), boxesT.GetData(), origW, origH)
	sortFacesByArea(faces)
	return faces, nil
}

// preprocess resizes to the model input and normalizes to (x-127)/128 NCHW.
func (d *ONNXFaceDetector) preprocess(img image.Image) []float32 {
	resized := imaging.Resize(img, d.cfg.InputWidth, d.cfg.InputHeight, imaging.Linear)
	w, h := d.cfg.InputWidth, d.cfg.InputHeight

	data := make([]float32, 3*w*h)
	plane := w * h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := resized.At(x, y).RGBA()
			idx := y*w + x
			data[idx] = (float32(r>>8) - 127) / 128
			data[plane+idx] = (float32(g>>8) - 127) / 128
			data[2*plane+idx] = (float32(bl>>8) - 127) / 128
		}
	}
	return data
}

// decode converts raw score/box outputs into faces in source coordinates,
// applying score filtering and IoU suppression.
func (d *ONNXFaceDetector) decode(scores, boxes []float32, origW, origH int) []Face {
	n := len(scores) / 2
	if len(boxes) < n*4 {
		n = len(boxes) / 4
	}

	cands := make([]Face, 0, 8)
	for i := 0; i < n; i++ {
		score := scores[i*2+1] // [background, face]
		if score < d.cfg.ScoreThresh {
			continue
		}
		x0 := boxes[i*4] * float32(origW)
		y0 := boxes[i*4+1] * float32(origH)
		x1 := boxes[i*4+2] * float32(origW)
		y1 := boxes[i*4+3] * float32(origH)
		box := clampBox(Box{X: int(x0), Y: int(y0), W: int(x1 - x0), H: int(y1 - y0)}, origW, origH)
		if box.W <= 0 || box.H <= 0 {
			continue
		}
		cands = append(cands, Face{Box: box, Confidence: float64(score), Landmarks: landmarksFromBox(box)})
	}

	return suppressOverlaps(cands, d.cfg.IoUThresh)
}

// suppressOverlaps keeps the highest-confidence face of each overlapping
// cluster (hard non-max suppression).
func suppressOverlaps(faces []Face, iouThresh float64) []Face {
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].Confidence > faces[j].Confidence })

	kept := make([]Face, 0, len(faces))
	for _, f := range faces {
		overlaps := false
		for _, k := range kept {
			if boxIoU(f.Box, k.Box) > iouThresh {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, f)
		}
	}
	return kept
}

// boxIoU returns the intersection-over-union of two boxes.
func boxIoU(a, b Box) float64 {
	ix0 := max(a.X, b.X)
	iy0 := max(a.Y, b.Y)
	ix1 := min(a.X+a.W, b.X+b.W)
	iy1 := min(a.Y+a.H, b.Y+b.H)
	if ix1 <= ix0 || iy1 <= iy0 {
		return 0
	}
	inter := float64((ix1 - ix0) * (iy1 - iy0))
	union := float64(a.W*a.H + b.W*b.H - (ix1-ix0)*(iy1-iy0))
	return inter / union
}
