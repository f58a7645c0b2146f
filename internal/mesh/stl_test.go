package mesh

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/heightfield"
)

func TestWriteASCIIStructure(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(2, 2, 0))

	var buf bytes.Buffer
	require.NoError(t, WriteASCII(&buf, m, "slab"))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "solid slab\n"))
	assert.True(t, strings.HasSuffix(out, "endsolid slab\n"))
	assert.Equal(t, len(m.Triangles), strings.Count(out, "facet normal"))
	assert.Equal(t, len(m.Triangles), strings.Count(out, "endfacet"))
	assert.Equal(t, 3*len(m.Triangles), strings.Count(out, "vertex"))
}

func TestWriteASCIIDeterministic(t *testing.T) {
	field := heightfield.New(6, 6)
	for i := range field.Data {
		field.Data[i] = float32(i) / 36
	}
	m := buildTestMesh(t, field)

	var a, b bytes.Buffer
	require.NoError(t, WriteASCII(&a, m, "relief"))
	require.NoError(t, WriteASCII(&b, m, "relief"))
	assert.True(t, bytes.Equal(a.Bytes(), b.Bytes()))
}

func TestWriteBinaryLayout(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(3, 3, 0.5))

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, m))

	assert.Equal(t, 84+50*len(m.Triangles), buf.Len())
	assert.Contains(t, string(buf.Bytes()[:80]), binaryHeaderText)
}

func TestBinaryRoundTrip(t *testing.T) {
	field := heightfield.New(5, 4)
	for i := range field.Data {
		field.Data[i] = float32(i%3) * 0.4
	}
	m := buildTestMesh(t, field)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, m))

	decoded, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, decoded.Triangles, len(m.Triangles))

	// Deduplication restores shared vertices, so topology survives.
	report := Validate(decoded, DefaultValidatorConfig())
	assert.True(t, report.IsManifold)
}

func TestASCIIRoundTrip(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(3, 3, 0.25))

	var buf bytes.Buffer
	require.NoError(t, WriteASCII(&buf, m, "roundtrip"))

	decoded, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, decoded.Triangles, len(m.Triangles))

	report := Validate(decoded, DefaultValidatorConfig())
	assert.True(t, report.IsManifold)
	assert.True(t, report.OK())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("solid x\nfacet normal 0 0\n"))
	assert.Error(t, err)

	_, err = Decode([]byte{0x00, 0x01})
	assert.Error(t, err)
}

func TestDecodeTruncatedBinary(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(2, 2, 0))
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, m))

	_, err := Decode(buf.Bytes()[:buf.Len()-10])
	assert.Error(t, err)
}

func TestWriteFileAndValidateFile(t *testing.T) {
	m := buildTestMesh(t, heightfield.NewUniform(4, 4, 0.5))

	dir := t.TempDir()
	asciiPath := filepath.Join(dir, "relief.stl")
	binPath := filepath.Join(dir, "relief-bin.stl")

	require.NoError(t, WriteFile(asciiPath, m, false))
	require.NoError(t, WriteFile(binPath, m, true))

	for _, path := range []string{asciiPath, binPath} {
		report, err := ValidateFile(path, DefaultValidatorConfig())
		require.NoError(t, err, path)
		assert.True(t, report.IsManifold, path)
		assert.Equal(t, len(m.Triangles), report.TriangleCount, path)
	}
}

func TestValidateFileMissing(t *testing.T) {
	_, err := ValidateFile(filepath.Join(t.TempDir(), "missing.stl"), DefaultValidatorConfig())
	assert.Error(t, err)
}

func TestSolidName(t *testing.T) {
	assert.Equal(t, "relief", solidName("/tmp/out/relief.stl"))
	assert.Equal(t, "a", solidName("a"))
	assert.Equal(t, "relief", solidName(""))
}
