package pipeline

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/imgutil"
	"github.com/tactileforge/relief/internal/mesh"
	"github.com/tactileforge/relief/internal/semantic"
)

// Result is the outcome of one pipeline run. The mesh is returned even
// when validation reports problems; the report tells the caller whether
// export is advisable.
type Result struct {
	SourcePath  string
	Mode        semantic.Mode
	Selection   *semantic.Selection
	HeightField *heightfield.Field
	Mesh        *mesh.Mesh
	Report      *mesh.Report
	Warnings    []string
	Repairs     []string
	Elapsed     time.Duration
}

// ProcessFile loads an image file and runs the pipeline on it.
func (p *Pipeline) ProcessFile(path string) (*Result, error) {
	img, _, err := imgutil.LoadImage(path)
	if err != nil {
		return nil, err
	}
	res, err := p.ProcessImage(img)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}
	res.SourcePath = path
	return res, nil
}

// ProcessImage runs the full chain on an in-memory image.
func (p *Pipeline) ProcessImage(img image.Image) (*Result, error) {
	start := time.Now()
	res := &Result{Mode: p.cfg.Mode}

	resized := imgutil.ResizeToGrid(img, p.cfg.Params.Processing.Resolution)

	if res.Mode == semantic.ModeAuto {
		sel, err := p.engine.Select(resized)
		if err != nil {
			return nil, fmt.Errorf("mode selection: %w", err)
		}
		res.Mode = sel.Mode
		res.Selection = &sel
		slog.Debug("mode selected",
			"mode", sel.Mode.String(),
			"face_confidence", sel.FaceConfidence,
			"text_coverage", sel.TextCoverage,
			"edge_density", sel.EdgeDensity)
	}

	raw, warnings, err := p.engine.Process(res.Mode, resized, p.cfg.Params.Semantic)
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings

	normalized := semantic.Apply(raw, p.cfg.Params.Processing)
	normalized = imgutil.PreprocessLuma(normalized, p.cfg.Params.Processing)
	res.HeightField = normalized

	m, err := mesh.Build(normalized, p.cfg.Params.Physical)
	if err != nil {
		return nil, err
	}

	report := mesh.Validate(m, p.cfg.Validator)
	if p.cfg.AutoRepair && (!report.IsManifold || report.HasInvertedNormals) {
		repaired, repairs := mesh.Repair(m)
		if len(repairs) > 0 {
			slog.Info("mesh repaired", "repairs", repairs)
			m = repaired
			report = mesh.Validate(m, p.cfg.Validator)
			res.Repairs = repairs
		}
	}

	res.Mesh = m
	res.Report = report
	res.Elapsed = time.Since(start)
	slog.Debug("pipeline finished",
		"mode", res.Mode.String(),
		"triangles", len(m.Triangles),
		"manifold", report.IsManifold,
		"elapsed", res.Elapsed)
	return res, nil
}
