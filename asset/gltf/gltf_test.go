package gltf_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	gltflib "github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/kiln/asset/gltf"
)

func triangleDoc(withAttributes bool) *gltflib.Document {
	doc := gltflib.NewDocument()
	attrs := gltflib.Attribute{
		gltflib.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
	}
	if withAttributes {
		attrs[gltflib.NORMAL] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
		attrs[gltflib.TEXCOORD_0] = modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	}
	indices := gltflib.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2}))
	doc.Meshes = []*gltflib.Mesh{{
		Name:       "tri",
		Primitives: []*gltflib.Primitive{{Attributes: attrs, Indices: indices}},
	}}
	return doc
}

func TestMeshesPadsMissingAttributes(t *testing.T) {
	meshes, err := gltf.Meshes(triangleDoc(false))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "tri", m.Name)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	require.Len(t, m.Vertices, 3)
	for _, v := range m.Vertices {
		assert.Equal(t, [3]float32{}, v.Normal)
		assert.Equal(t, [2]float32{}, v.UV)
	}
	assert.Equal(t, [3]float32{1, 0, 0}, m.Vertices[1].Position)
	assert.Equal(t, -1, m.Material)
}

func TestMeshesReadsAttributes(t *testing.T) {
	meshes, err := gltf.Meshes(triangleDoc(true))
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, [3]float32{0, 0, 1}, meshes[0].Vertices[2].Normal)
	assert.Equal(t, [2]float32{0, 1}, meshes[0].Vertices[2].UV)
}

func TestMeshesFlattensPrimitives(t *testing.T) {
	doc := triangleDoc(true)
	prim := *doc.Meshes[0].Primitives[0]
	doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives, &prim)
	doc.Meshes = append(doc.Meshes, &gltflib.Mesh{Primitives: []*gltflib.Primitive{&prim}})

	meshes, err := gltf.Meshes(doc)
	require.NoError(t, err)
	require.Len(t, meshes, 3)
	assert.Equal(t, "tri.0", meshes[0].Name)
	assert.Equal(t, "tri.1", meshes[1].Name)
	assert.Equal(t, "mesh1", meshes[2].Name)
}

func TestMeshesRequiresPosition(t *testing.T) {
	doc := triangleDoc(false)
	delete(doc.Meshes[0].Primitives[0].Attributes, gltflib.POSITION)

	_, err := gltf.Meshes(doc)
	assert.ErrorContains(t, err, "POSITION")
}

func TestLoadBinary(t *testing.T) {
	var buf bytes.Buffer
	enc := gltflib.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(triangleDoc(true)))

	fsys := fstest.MapFS{"models/tri.glb": {Data: buf.Bytes()}}
	meshes, err := gltf.Load(fsys, "models/tri.glb")
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Len(t, meshes[0].Vertices, 3)

	_, err = gltf.Load(fsys, "models/missing.glb")
	assert.Error(t, err)
}

func TestMeshesMaterialAndAccessorRange(t *testing.T) {
	doc := triangleDoc(false)
	doc.Meshes[0].Primitives[0].Material = gltflib.Index(2)

	meshes, err := gltf.Meshes(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, meshes[0].Material)

	doc.Meshes[0].Primitives[0].Attributes[gltflib.NORMAL] = uint32(len(doc.Accessors))
	_, err = gltf.Meshes(doc)
	assert.ErrorContains(t, err, "out of range")
}
