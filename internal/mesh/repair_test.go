package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/heightfield"
)

func TestRepairLeavesCleanMeshAlone(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 0.5))

	fixed, repairs := Repair(m)
	assert.Empty(t, repairs)
	assert.Len(t, fixed.Triangles, len(m.Triangles))
	assert.Len(t, fixed.Vertices, len(m.Vertices))
}

func TestRepairFlipsInvertedTriangle(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 0.5))
	m.Triangles[0].V[1], m.Triangles[0].V[2] = m.Triangles[0].V[2], m.Triangles[0].V[1]
	require.True(t, Validate(m, DefaultValidatorConfig()).HasInvertedNormals)

	fixed, repairs := Repair(m)
	require.Len(t, repairs, 1)
	assert.Contains(t, repairs[0], "flipped 1")

	report := Validate(fixed, DefaultValidatorConfig())
	assert.False(t, report.HasInvertedNormals)
	assert.True(t, report.IsManifold)
}

func TestRepairClosesHole(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(5, 5, 0.5))
	m.Triangles = m.Triangles[1:] // remove one top triangle
	require.False(t, Validate(m, DefaultValidatorConfig()).IsManifold)

	fixed, repairs := Repair(m)
	require.NotEmpty(t, repairs)

	report := Validate(fixed, DefaultValidatorConfig())
	assert.True(t, report.IsManifold)
	// One new fan vertex, three new triangles for the triangular hole.
	assert.Len(t, fixed.Vertices, len(m.Vertices)+1)
	assert.Len(t, fixed.Triangles, len(m.Triangles)+3)
}

func TestRepairDoesNotMutateInput(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 0.5))
	m.Triangles[0].V[1], m.Triangles[0].V[2] = m.Triangles[0].V[2], m.Triangles[0].V[1]
	before := m.Triangles[0]

	_, _ = Repair(m)
	assert.Equal(t, before, m.Triangles[0])
}

func TestRepairedMeshKeepsVolume(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(5, 5, 0))
	vol := m.SignedVolume()

	damaged := &Mesh{
		Vertices:  append([]Vec3(nil), m.Vertices...),
		Triangles: append([]Triangle(nil), m.Triangles[2:]...),
	}
	fixed, _ := Repair(damaged)

	// Fan closure of a flat-surface hole restores the same solid.
	assert.InDelta(t, vol, fixed.SignedVolume(), vol*0.01)
}
