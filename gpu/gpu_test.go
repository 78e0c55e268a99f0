package gpu_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/kiln/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseSurfaceFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []gpu.TextureFormat
		want    gpu.TextureFormat
	}{
		{"first srgb wins", []gpu.TextureFormat{gpu.TextureFormatBGRA8Unorm, gpu.TextureFormatBGRA8UnormSrgb, gpu.TextureFormatRGBA8UnormSrgb}, gpu.TextureFormatBGRA8UnormSrgb},
		{"falls back to first", []gpu.TextureFormat{gpu.TextureFormatRGBA16Float, gpu.TextureFormatRGBA8Unorm}, gpu.TextureFormatRGBA16Float},
		{"single", []gpu.TextureFormat{gpu.TextureFormatRGBA8UnormSrgb}, gpu.TextureFormatRGBA8UnormSrgb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gpu.ChooseSurfaceFormat(tt.formats)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := gpu.ChooseSurfaceFormat(nil)
	assert.ErrorIs(t, err, gpu.ErrNoSurfaceFormat)
}

func TestNeedsReconfigure(t *testing.T) {
	assert.True(t, gpu.NeedsReconfigure(gpu.ErrSurfaceLost))
	assert.True(t, gpu.NeedsReconfigure(gpu.ErrSurfaceOutdated))
	assert.False(t, gpu.NeedsReconfigure(gpu.ErrSurfaceTimeout))
	assert.False(t, gpu.NeedsReconfigure(gpu.ErrOutOfMemory))
	assert.False(t, gpu.NeedsReconfigure(nil))
}

func TestMat4Bytes(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	data := gpu.Mat4Bytes(mgl32.Ident4(), m)
	require.Len(t, data, 128)

	assert.Equal(t, mgl32.Ident4(), gpu.Mat4At(data, 0))
	assert.Equal(t, m, gpu.Mat4At(data, 64))
	// Column-major: translation lives in elements 12..14.
	assert.Equal(t, float32(2), gpu.Float32At(data, 64+13*4))
}

func TestIndexAt(t *testing.T) {
	data := gpu.Uint32Bytes([]uint32{7, 70000, 3})
	assert.Equal(t, uint32(70000), gpu.IndexAt(data, gpu.IndexFormatUint32, 1))

	short := []byte{1, 0, 2, 1}
	assert.Equal(t, uint32(258), gpu.IndexAt(short, gpu.IndexFormatUint16, 1))
}
