package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tactileforge/relief/internal/mesh"
	"github.com/tactileforge/relief/internal/semantic"
)

// reportDocument is the JSON shape written next to exported meshes.
type reportDocument struct {
	Source     string              `json:"source,omitempty"`
	Mode       string              `json:"mode"`
	Selection  *semantic.Selection `json:"selection,omitempty"`
	Warnings   []string            `json:"warnings"`
	Repairs    []string            `json:"repairs,omitempty"`
	Validation *mesh.Report        `json:"validation"`
	ElapsedMS  int64               `json:"elapsed_ms"`
}

// ReportJSON serializes the run outcome as indented JSON.
func (r *Result) ReportJSON() ([]byte, error) {
	doc := reportDocument{
		Source:     r.SourcePath,
		Mode:       r.Mode.String(),
		Selection:  r.Selection,
		Warnings:   r.Warnings,
		Repairs:    r.Repairs,
		Validation: r.Report,
		ElapsedMS:  r.Elapsed.Milliseconds(),
	}
	if doc.Warnings == nil {
		doc.Warnings = []string{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteMesh exports the mesh as STL.
func (r *Result) WriteMesh(path string, binaryFormat bool) error {
	return mesh.WriteFile(path, r.Mesh, binaryFormat)
}

// WriteReport writes the JSON report to path.
func (r *Result) WriteReport(path string) error {
	data, err := r.ReportJSON()
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: report is not a secret
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
