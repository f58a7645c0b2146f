package mesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

func TestValidateGeneratedMeshClean(t *testing.T) {
	field := heightfield.New(8, 8)
	for i := range field.Data {
		field.Data[i] = float32(i%5) / 5
	}
	m := buildTestMesh(t, field)

	report := Validate(m, DefaultValidatorConfig())
	assert.True(t, report.IsManifold)
	assert.False(t, report.HasInvertedNormals)
	assert.False(t, report.HasSelfIntersections)
	assert.True(t, report.SelfIntersectionChecked)
	assert.True(t, report.OK())
	assert.Equal(t, TriangleBudget(8, 8), report.TriangleCount)
	assert.Greater(t, report.VolumeMM3, 0.0)
}

func TestValidateEmptyMesh(t *testing.T) {
	report := Validate(&Mesh{}, DefaultValidatorConfig())
	assert.False(t, report.OK())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "zero triangles")
}

func TestValidateDetectsBoundaryEdges(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 0.5))
	m.Triangles = m.Triangles[1:] // punch a hole

	report := Validate(m, DefaultValidatorConfig())
	assert.False(t, report.IsManifold)
	assert.NotEmpty(t, report.Warnings)
}

func TestValidateDetectsInvertedNormals(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 0.5))
	m.Triangles[0].V[1], m.Triangles[0].V[2] = m.Triangles[0].V[2], m.Triangles[0].V[1]

	report := Validate(m, DefaultValidatorConfig())
	assert.True(t, report.HasInvertedNormals)
}

func TestValidateSkipsIntersectionScanAboveLimit(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(6, 6, 0.5))

	cfg := DefaultValidatorConfig()
	cfg.SelfIntersectionLimit = 10

	report := Validate(m, cfg)
	assert.False(t, report.SelfIntersectionChecked)
	assert.False(t, report.HasSelfIntersections)
}

func TestValidateFindsSelfIntersection(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 0.5))

	// Skewer the solid with a triangle that crosses the top surface far
	// from its own vertices.
	bb := m.BoundingBox()
	cx, cy := (bb.Min.X+bb.Max.X)/2, (bb.Min.Y+bb.Max.Y)/2
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		Vec3{X: cx - 1, Y: cy, Z: bb.Min.Z - 5},
		Vec3{X: cx + 1, Y: cy, Z: bb.Min.Z - 5},
		Vec3{X: cx, Y: cy + 1, Z: bb.Max.Z + 5},
	)
	m.addTriangle(base, base+1, base+2)

	report := Validate(m, DefaultValidatorConfig())
	assert.True(t, report.SelfIntersectionChecked)
	assert.True(t, report.HasSelfIntersections)
}

func TestValidateFeatureSizeWarning(t *testing.T) {
	// A single raised pixel on a 16x16 grid spans well under 2mm at 150mm
	// width... but a lone vertex has zero footprint, so use a narrow bar
	// two vertices wide.
	field := heightfield.New(32, 32)
	field.Set(16, 16, 1)
	field.Set(16, 17, 1)

	m := buildTestMesh(t, field)
	report := Validate(m, DefaultValidatorConfig())

	assert.Less(t, report.MinFeatureSizeMM, 2.0)
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "raised feature") {
			found = true
		}
	}
	assert.True(t, found, "expected a feature-size warning, got %v", report.Warnings)
}

func TestValidateFlatSlabHasNoFeatureWarning(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(8, 8, 0))
	report := Validate(m, DefaultValidatorConfig())
	assert.Zero(t, report.MinFeatureSizeMM)
	assert.True(t, report.OK())
}

func TestValidateFootprintWarning(t *testing.T) {
	m, err := Build(heightfield.NewUniform(4, 4, 0.5),
		params.Physical{WidthMM: 300, ReliefDepthMM: 3, BaseThicknessMM: 2})
	require.NoError(t, err)

	cfg := DefaultValidatorConfig()
	cfg.BedWidthMM = 200
	cfg.BedDepthMM = 200

	report := Validate(m, cfg)
	assert.True(t, report.OK()) // a big footprint is a warning, not an error
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "exceeds") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateBoundingBox(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 1))
	report := Validate(m, DefaultValidatorConfig())

	assert.InDelta(t, 150, report.BoundingBoxMM.Size().X, 1e-9)
	assert.InDelta(t, 150, report.BoundingBoxMM.Size().Y, 1e-9)
	assert.InDelta(t, 5, report.BoundingBoxMM.Size().Z, 1e-9)
}
