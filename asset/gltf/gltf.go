// Package gltf extracts triangle geometry from glTF 2.0 files (.gltf with
// external or embedded buffers, and binary .glb).
package gltf

import (
	"fmt"
	"io/fs"
	"path"

	gltflib "github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/plus3/kiln/asset"
)

// Load decodes name from fsys. Buffer URIs resolve relative to name.
func Load(fsys fs.FS, name string) ([]asset.Mesh, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}
	defer f.Close()

	dir, err := fs.Sub(fsys, path.Dir(name))
	if err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}
	doc := new(gltflib.Document)
	if err := gltflib.NewDecoderFS(f, dir).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf: decode %q: %w", name, err)
	}
	return Meshes(doc)
}

// Meshes flattens every triangle primitive of every mesh in doc, in order.
// Missing normals and texture coordinates are zero.
func Meshes(doc *gltflib.Document) ([]asset.Mesh, error) {
	var out []asset.Mesh
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltflib.PrimitiveTriangles {
				continue
			}
			m, err := primitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf: mesh %d primitive %d: %w", mi, pi, err)
			}
			m.Name = mesh.Name
			if m.Name == "" {
				m.Name = fmt.Sprintf("mesh%d", mi)
			}
			if len(mesh.Primitives) > 1 {
				m.Name = fmt.Sprintf("%s.%d", m.Name, pi)
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func accessor(doc *gltflib.Document, index uint32) (*gltflib.Accessor, error) {
	if int(index) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	return doc.Accessors[index], nil
}

func primitive(doc *gltflib.Document, prim *gltflib.Primitive) (asset.Mesh, error) {
	m := asset.Mesh{Material: -1}
	if prim.Material != nil {
		m.Material = int(*prim.Material)
	}

	posIndex, ok := prim.Attributes[gltflib.POSITION]
	if !ok {
		return m, fmt.Errorf("no POSITION attribute")
	}
	acr, err := accessor(doc, posIndex)
	if err != nil {
		return m, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return m, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if index, ok := prim.Attributes[gltflib.NORMAL]; ok {
		if acr, err = accessor(doc, index); err != nil {
			return m, err
		}
		if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return m, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if index, ok := prim.Attributes[gltflib.TEXCOORD_0]; ok {
		if acr, err = accessor(doc, index); err != nil {
			return m, err
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return m, fmt.Errorf("read texture coordinates: %w", err)
		}
	}

	m.Vertices = make([]asset.Vertex, len(positions))
	for i, p := range positions {
		m.Vertices[i].Position = p
		if i < len(normals) {
			m.Vertices[i].Normal = normals[i]
		}
		if i < len(uvs) {
			m.Vertices[i].UV = uvs[i]
		}
	}

	if prim.Indices == nil {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	} else {
		if acr, err = accessor(doc, *prim.Indices); err != nil {
			return m, err
		}
		if m.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return m, fmt.Errorf("read indices: %w", err)
		}
	}
	m.Indices = m.Indices[:len(m.Indices)/3*3]
	for _, index := range m.Indices {
		if int(index) >= len(m.Vertices) {
			return m, fmt.Errorf("index %d out of range (%d vertices)", index, len(m.Vertices))
		}
	}
	return m, nil
}
