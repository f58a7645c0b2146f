package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// binaryHeaderText is written into the 80-byte binary STL header.
const binaryHeaderText = "relief binary STL"

// WriteASCII serializes the mesh as ASCII STL. Output is deterministic:
// the same mesh always produces the same bytes.
func WriteASCII(w io.Writer, m *Mesh, name string) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "solid %s\n", name); err != nil {
		return err
	}
	for _, t := range m.Triangles {
		n := t.Normal
		fmt.Fprintf(bw, "  facet normal %e %e %e\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		for _, vi := range t.V {
			v := m.Vertices[vi]
			fmt.Fprintf(bw, "      vertex %e %e %e\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", name); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteBinary serializes the mesh as binary STL (little-endian, 50 bytes
// per facet). Output is deterministic.
func WriteBinary(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], binaryHeaderText)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return err
	}

	var facet [50]byte
	for _, t := range m.Triangles {
		putVec3(facet[0:], t.Normal)
		putVec3(facet[12:], m.Vertices[t.V[0]])
		putVec3(facet[24:], m.Vertices[t.V[1]])
		putVec3(facet[36:], m.Vertices[t.V[2]])
		facet[48], facet[49] = 0, 0
		if _, err := bw.Write(facet[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVec3(b []byte, v Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}

// WriteFile writes the mesh to path, choosing the format by the binary
// flag. The solid name in ASCII output is derived from the path.
func WriteFile(path string, m *Mesh, binaryFormat bool) error {
	f, err := os.Create(path) //nolint:gosec // G304: caller-chosen output path
	if err != nil {
		return fmt.Errorf("create stl file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if binaryFormat {
		err = WriteBinary(f, m)
	} else {
		err = WriteASCII(f, m, solidName(path))
	}
	if err != nil {
		return fmt.Errorf("write stl: %w", err)
	}
	return f.Close()
}

func solidName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" {
		return "relief"
	}
	return base
}

// Decode parses STL data in either format, detecting ASCII by the
// leading "solid" keyword together with a "facet" token. Vertices are
// deduplicated by exact coordinate match so topology checks work on the
// decoded mesh.
func Decode(data []byte) (*Mesh, error) {
	if looksASCII(data) {
		return decodeASCII(data)
	}
	return decodeBinary(data)
}

// ReadFile reads and decodes an STL file.
func ReadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: caller-chosen input path
	if err != nil {
		return nil, fmt.Errorf("read stl file: %w", err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

func looksASCII(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("solid")) && bytes.Contains(head, []byte("facet"))
}

// meshBuilder accumulates triangles while deduplicating vertices.
type meshBuilder struct {
	mesh  Mesh
	index map[Vec3]int
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{index: make(map[Vec3]int)}
}

func (b *meshBuilder) vertex(v Vec3) int {
	if i, ok := b.index[v]; ok {
		return i
	}
	i := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	b.index[v] = i
	return i
}

func (b *meshBuilder) triangle(normal Vec3, a, bb, c Vec3) {
	b.mesh.Triangles = append(b.mesh.Triangles, Triangle{
		V:      [3]int{b.vertex(a), b.vertex(bb), b.vertex(c)},
		Normal: normal,
	})
}

func decodeASCII(data []byte) (*Mesh, error) {
	b := newMeshBuilder()
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 64*1024)

	var normal Vec3
	var verts []Vec3
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet line", lineNo)
			}
			n, err := parseVec3(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normal = n
			verts = verts[:0]
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: malformed vertex line", lineNo)
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			verts = append(verts, v)
		case "endfacet":
			if len(verts) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", lineNo, len(verts))
			}
			b.triangle(normal, verts[0], verts[1], verts[2])
		case "solid", "endsolid", "outer", "endloop":
			// structural keywords, no payload
		default:
			return nil, fmt.Errorf("line %d: unexpected token %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &b.mesh, nil
}

func parseVec3(fields []string) (Vec3, error) {
	var v Vec3
	for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, fmt.Errorf("bad coordinate %q", fields[i])
		}
		*dst = f
	}
	return v, nil
}

func decodeBinary(data []byte) (*Mesh, error) {
	if len(data) < 84 {
		return nil, fmt.Errorf("binary stl truncated: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	want := 84 + int(count)*50
	if len(data) < want {
		return nil, fmt.Errorf("binary stl truncated: %d facets need %d bytes, have %d", count, want, len(data))
	}

	b := newMeshBuilder()
	off := 84
	for _i := uint32(0); _i < count; _i++ {
		normal := getVec3(data[off:])
		v0 := getVec3(data[off+12:])
		v1 := getVec3(data[off+24:])
		v2 := getVec3(data[off+36:])
		b.triangle(normal, v0, v1, v2)
		off += 50
	}
	return &b.mesh, nil
}

func getVec3(b []byte) Vec3 {
	return Vec3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	}
}
