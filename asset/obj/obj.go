// Package obj decodes Wavefront OBJ geometry into single-indexed triangle
// meshes. Faces are fan-triangulated, missing normals are left zero and the
// texture v coordinate is flipped to a top-left origin. Material libraries
// are recorded by name but not parsed.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/plus3/kiln/asset"
)

// Model is the decoded content of one OBJ file.
type Model struct {
	Meshes []asset.Mesh
	// MaterialLib is the last mtllib named by the file.
	MaterialLib string
	// Materials lists usemtl names in order of first use; Mesh.Material
	// indexes it.
	Materials []string
}

const missing = -1

// corner is one face vertex: position, uv and normal indices.
type corner struct {
	v, vt, vn int
}

type decoder struct {
	line      int
	positions [][3]float32
	uvs       [][2]float32
	normals   [][3]float32

	model    Model
	current  *asset.Mesh
	lookup   map[corner]uint32
	material int
	unnamed  int
}

// Decode parses OBJ text from r.
func Decode(r io.Reader) (*Model, error) {
	dec := &decoder{material: missing}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		dec.line++
		if err := dec.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("obj: line %d: %w", dec.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}

	meshes := dec.model.Meshes[:0]
	for _, m := range dec.model.Meshes {
		if len(m.Indices) > 0 {
			meshes = append(meshes, m)
		}
	}
	dec.model.Meshes = meshes
	return &dec.model, nil
}

func (dec *decoder) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "v":
		p, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		dec.positions = append(dec.positions, [3]float32{p[0], p[1], p[2]})
	case "vt":
		p, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("texture coordinate: %w", err)
		}
		dec.uvs = append(dec.uvs, [2]float32{p[0], p[1]})
	case "vn":
		p, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		dec.normals = append(dec.normals, [3]float32{p[0], p[1], p[2]})
	case "f":
		return dec.parseFace(fields[1:])
	case "o", "g":
		name := strings.Join(fields[1:], " ")
		if name == "" {
			name = fmt.Sprintf("unnamed%d", dec.line)
		}
		dec.startMesh(name)
	case "usemtl":
		if len(fields) < 2 {
			return fmt.Errorf("usemtl with no name")
		}
		dec.useMaterial(fields[1])
	case "mtllib":
		if len(fields) < 2 {
			return fmt.Errorf("mtllib with no name")
		}
		dec.model.MaterialLib = fields[1]
	}
	// s, l, p and other statements carry nothing for triangle meshes.
	return nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (dec *decoder) startMesh(name string) {
	dec.model.Meshes = append(dec.model.Meshes, asset.Mesh{Name: name, Material: dec.material})
	dec.current = &dec.model.Meshes[len(dec.model.Meshes)-1]
	dec.lookup = make(map[corner]uint32)
}

// useMaterial switches material, splitting the current mesh if it already
// has faces in another material.
func (dec *decoder) useMaterial(name string) {
	index := -1
	for i, m := range dec.model.Materials {
		if m == name {
			index = i
			break
		}
	}
	if index < 0 {
		index = len(dec.model.Materials)
		dec.model.Materials = append(dec.model.Materials, name)
	}
	dec.material = index

	switch {
	case dec.current == nil:
	case len(dec.current.Indices) == 0:
		dec.current.Material = index
	case dec.current.Material != index:
		dec.startMesh(fmt.Sprintf("%s_%s", dec.current.Name, name))
	}
}

// resolve turns a 1-based or negative relative OBJ index into a 0-based one.
func resolve(field string, count int) (int, error) {
	if field == "" {
		return missing, nil
	}
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v += count
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if v < 0 || v >= count {
		return 0, fmt.Errorf("index %s out of range (%d defined)", field, count)
	}
	return v, nil
}

func (dec *decoder) parseCorner(field string) (corner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return corner{}, fmt.Errorf("malformed face vertex %q", field)
	}
	c := corner{vt: missing, vn: missing}
	var err error
	if c.v, err = resolve(parts[0], len(dec.positions)); err != nil {
		return corner{}, fmt.Errorf("face position: %w", err)
	}
	if c.v == missing {
		return corner{}, fmt.Errorf("face vertex %q has no position", field)
	}
	if len(parts) > 1 {
		if c.vt, err = resolve(parts[1], len(dec.uvs)); err != nil {
			return corner{}, fmt.Errorf("face texture coordinate: %w", err)
		}
	}
	if len(parts) > 2 {
		if c.vn, err = resolve(parts[2], len(dec.normals)); err != nil {
			return corner{}, fmt.Errorf("face normal: %w", err)
		}
	}
	return c, nil
}

// vertex returns the mesh index for c, adding a vertex on first use.
func (dec *decoder) vertex(c corner) uint32 {
	if index, ok := dec.lookup[c]; ok {
		return index
	}
	v := asset.Vertex{Position: dec.positions[c.v]}
	if c.vt != missing {
		uv := dec.uvs[c.vt]
		v.UV = [2]float32{uv[0], 1 - uv[1]}
	}
	if c.vn != missing {
		v.Normal = dec.normals[c.vn]
	}
	index := uint32(len(dec.current.Vertices))
	dec.current.Vertices = append(dec.current.Vertices, v)
	dec.lookup[c] = index
	return index
}

func (dec *decoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face with %d vertices", len(fields))
	}
	corners := make([]corner, len(fields))
	for i, f := range fields {
		c, err := dec.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	if dec.current == nil {
		dec.unnamed++
		dec.startMesh(fmt.Sprintf("unnamed%d", dec.unnamed))
	}
	first := dec.vertex(corners[0])
	for i := 2; i < len(corners); i++ {
		dec.current.Indices = append(dec.current.Indices, first, dec.vertex(corners[i-1]), dec.vertex(corners[i]))
	}
	return nil
}
