package asset_test

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/kiln/asset"
	"github.com/plus3/kiln/gpu"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSourceReadFile(t *testing.T) {
	src := asset.NewSource(fstest.MapFS{
		"scene.json":      {Data: []byte(`{"entities": []}`)},
		"textures/a.png":  {Data: encodePNG(t, 2, 3, color.White)},
		"placeholder.png": {Data: encodePNG(t, 4, 4, color.Black)},
	})

	text, err := src.ReadString("/scene.json")
	require.NoError(t, err)
	assert.Equal(t, `{"entities": []}`, text)

	img, err := src.Image("textures/a.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 3), img.Bounds())

	_, err = src.ReadFile("missing.obj")
	assert.ErrorContains(t, err, `asset: read "missing.obj"`)

	img, err = src.Image(asset.PlaceholderTexture)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx(), "file in the source wins over the built-in")
	assert.NoError(t, src.Close())
}

func TestBuiltinPlaceholder(t *testing.T) {
	src := asset.NewSource(fstest.MapFS{})
	img, err := src.Image(asset.PlaceholderTexture)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	assert.NotEqual(t, img.RGBAAt(0, 0), img.RGBAAt(8, 0))
}

func TestDecodeRGBA(t *testing.T) {
	img, err := asset.DecodeRGBA(encodePNG(t, 3, 2, color.NRGBA{R: 255, A: 255}))
	require.NoError(t, err)
	assert.Equal(t, 12, img.Stride)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(2, 1))

	_, err = asset.DecodeRGBA([]byte("not an image"))
	assert.ErrorContains(t, err, "asset: decode image")
}

func TestResize(t *testing.T) {
	img, err := asset.DecodeRGBA(encodePNG(t, 4, 4, color.NRGBA{G: 255, A: 255}))
	require.NoError(t, err)

	out := asset.Resize(img, 8, 2)
	assert.Equal(t, image.Rect(0, 0, 8, 2), out.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(5, 1))
}

func TestOpenDirectoryAndZip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("from dir"), 0o644))

	src, err := asset.Open(dir)
	require.NoError(t, err)
	text, err := src.ReadString("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "from dir", text)
	require.NoError(t, src.Close())

	archive := filepath.Join(dir, "assets.zip")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("models/a.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("from zip"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	src, err = asset.Open(archive)
	require.NoError(t, err)
	text, err = src.ReadString("models/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "from zip", text)
	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())

	_, err = asset.Open(filepath.Join(dir, "a.txt"))
	assert.ErrorContains(t, err, "not a directory or zip archive")
	_, err = asset.Open(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestMeshPacking(t *testing.T) {
	m := asset.Mesh{
		Vertices: []asset.Vertex{{Position: [3]float32{1, 2, 3}, UV: [2]float32{0.5, 0.25}, Normal: [3]float32{0, 1, 0}}},
		Indices:  []uint32{0, 0, 0},
	}
	data := m.VertexBytes()
	require.Len(t, data, asset.VertexStride)

	layout := asset.VertexLayout()
	assert.Equal(t, asset.VertexStride, layout.Stride)
	assert.Equal(t, float32(3), gpu.Float32At(data, layout.Attributes[0].Offset+8))
	assert.Equal(t, float32(0.25), gpu.Float32At(data, layout.Attributes[1].Offset+4))
	assert.Equal(t, float32(1), gpu.Float32At(data, layout.Attributes[2].Offset+4))
	assert.Len(t, m.IndexBytes(), 12)
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "models/x.glb", asset.CleanPath("/models/x.glb"))
	assert.Equal(t, "models/x.glb", asset.CleanPath("models/./y/../x.glb"))
	assert.Equal(t, "x.obj", asset.CleanPath("x.obj"))
}
