package mesh

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

func buildTestMesh(t *testing.T, field *heightfield.Field) *Mesh {
	t.Helper()
	m, err := Build(field, params.DefaultPhysical())
	require.NoError(t, err)
	return m
}

func TestBuildTriangleCount(t *testing.T) {
	for _, r := range []int{2, 3, 8, 33} {
		m := buildTestMesh(t, heightfield.NewUniform(r, r, 0.5))
		want := 2*(r-1)*(r-1) + 2*(r-1)*(r-1) + 8*(r-1)
		assert.Len(t, m.Triangles, want, "resolution %d", r)
		assert.Equal(t, want, TriangleBudget(r, r))
	}
}

func TestBuildTriangleCountProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("triangle count matches the closed-solid budget", prop.ForAll(
		func(r int) bool {
			m, err := Build(heightfield.NewUniform(r, r, 0.3), params.DefaultPhysical())
			if err != nil {
				return false
			}
			return len(m.Triangles) == 4*(r-1)*(r-1)+8*(r-1)
		},
		gen.IntRange(2, 24),
	))
	properties.TestingRun(t)
}

func TestBuildManifoldProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("every generated mesh is watertight with outward normals", prop.ForAll(
		func(r int, seed int64) bool {
			field := heightfield.New(r, r)
			state := uint64(seed)
			for i := range field.Data {
				state = state*6364136223846793005 + 1442695040888963407
				field.Data[i] = float32(state>>40) / float32(1<<24)
			}

			m, err := Build(field, params.DefaultPhysical())
			if err != nil {
				return false
			}
			report := Validate(m, DefaultValidatorConfig())
			return report.IsManifold && !report.HasInvertedNormals && report.OK()
		},
		gen.IntRange(2, 16),
		gen.Int64(),
	))
	properties.TestingRun(t)
}

func TestBuildVertexGeometry(t *testing.T) {
	field := heightfield.New(4, 4)
	field.Set(1, 2, 1)

	phys := params.Physical{WidthMM: 150, ReliefDepthMM: 3, BaseThicknessMM: 2}
	m, err := Build(field, phys)
	require.NoError(t, err)

	// 16 top + 16 base vertices.
	require.Len(t, m.Vertices, 32)

	scale := 150.0 / 3.0
	peak := m.Vertices[2*4+1]
	assert.InDelta(t, scale, peak.X, 1e-9)
	assert.InDelta(t, 2*scale, peak.Y, 1e-9)
	assert.InDelta(t, 5.0, peak.Z, 1e-9) // base 2mm + full relief 3mm

	flat := m.Vertices[0]
	assert.InDelta(t, 2.0, flat.Z, 1e-9)

	// Base vertices sit at z = 0.
	for _, v := range m.Vertices[16:] {
		assert.Zero(t, v.Z)
	}
}

func TestBuildAspectRatio(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(5, 3, 0))
	bb := m.BoundingBox()

	assert.InDelta(t, 150, bb.Size().X, 1e-9)
	// Square cells: 2 rows of cells over 4 columns.
	assert.InDelta(t, 150.0/4*2, bb.Size().Y, 1e-9)
}

func TestBuildRejectsTinyGrid(t *testing.T) {
	_, err := Build(heightfield.NewUniform(1, 5, 0), params.DefaultPhysical())
	var geomErr *GeometryError
	require.ErrorAs(t, err, &geomErr)
	assert.Equal(t, "build", geomErr.Operation)
}

func TestBuildRejectsNonFiniteHeights(t *testing.T) {
	field := heightfield.NewUniform(4, 4, 0.5)
	field.Set(2, 2, float32(math.NaN()))

	_, err := Build(field, params.DefaultPhysical())
	var geomErr *GeometryError
	assert.ErrorAs(t, err, &geomErr)
}

func TestBuildFlatSlabVolume(t *testing.T) {
	phys := params.Physical{WidthMM: 100, ReliefDepthMM: 3, BaseThicknessMM: 2}
	m, err := Build(heightfield.NewUniform(8, 8, 0), phys)
	require.NoError(t, err)

	// A zero-height field yields a 100x100x2mm slab.
	assert.InDelta(t, 100*100*2, m.SignedVolume(), 1e-6)
}

func TestBuildNormalsAreUnit(t *testing.T) {
	field := heightfield.New(6, 6)
	for i := range field.Data {
		field.Data[i] = float32(i%7) / 7
	}
	m := buildTestMesh(t, field)
	for i, tri := range m.Triangles {
		assert.InDelta(t, 1.0, tri.Normal.Length(), 1e-9, "triangle %d", i)
	}
}
