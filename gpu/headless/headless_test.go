package headless_test

import (
	"testing"

	"github.com/plus3/kiln/gpu"
	"github.com/plus3/kiln/gpu/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceTracking(t *testing.T) {
	backend := headless.New(headless.Options{})
	device := backend.Device()

	buf, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "vb", Usage: gpu.BufferUsageVertex, Contents: []byte{1, 2, 3, 4}})
	require.NoError(t, err)
	tex, err := device.CreateTexture(gpu.TextureDescriptor{Label: "tex", Width: 2, Height: 2, Format: gpu.TextureFormatRGBA8UnormSrgb})
	require.NoError(t, err)
	assert.Equal(t, 1, tex.Layers())
	assert.Equal(t, 2, device.Live())

	buf.Release()
	buf.Release()
	assert.Equal(t, 1, device.Live())
	assert.Equal(t, 2, device.Created())

	tex.Release()
	assert.Equal(t, 0, device.Live())
}

func TestFailNext(t *testing.T) {
	device := headless.New(headless.Options{}).Device()
	device.FailNext("texture", gpu.ErrOutOfMemory)

	_, err := device.CreateTexture(gpu.TextureDescriptor{Label: "big", Width: 1, Height: 1})
	assert.ErrorIs(t, err, gpu.ErrOutOfMemory)

	_, err = device.CreateTexture(gpu.TextureDescriptor{Label: "big", Width: 1, Height: 1})
	assert.NoError(t, err)
}

func TestCubeTextureNeedsSixLayers(t *testing.T) {
	device := headless.New(headless.Options{}).Device()
	_, err := device.CreateTexture(gpu.TextureDescriptor{Width: 1, Height: 1, Layers: 5, ViewDimension: gpu.ViewDimensionCube})
	assert.Error(t, err)
}

func TestQueueWrites(t *testing.T) {
	device := headless.New(headless.Options{}).Device()
	queue := device.Queue()

	buf, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "uniform", Contents: make([]byte, 8)})
	require.NoError(t, err)
	require.NoError(t, queue.WriteBuffer(buf, 4, []byte{9, 9, 9, 9}))
	assert.Equal(t, []byte{0, 0, 0, 0, 9, 9, 9, 9}, buf.(*headless.Buffer).Bytes())
	assert.Error(t, queue.WriteBuffer(buf, 6, []byte{1, 1, 1, 1}))

	tex, err := device.CreateTexture(gpu.TextureDescriptor{Width: 2, Height: 1, Layers: 2, Format: gpu.TextureFormatRGBA8Unorm})
	require.NoError(t, err)
	require.NoError(t, queue.WriteTexture(tex, 1, make([]byte, 8), 8))
	assert.Len(t, tex.(*headless.Texture).Layer(1), 8)
	assert.Error(t, queue.WriteTexture(tex, 2, make([]byte, 8), 8))
	assert.Error(t, queue.WriteTexture(tex, 0, make([]byte, 4), 8))
}

func TestRecording(t *testing.T) {
	backend := headless.New(headless.Options{})
	device := backend.Device()

	enc, err := device.CreateCommandEncoder("frame")
	require.NoError(t, err)
	pass := enc.BeginRenderPass(gpu.RenderPassDescriptor{Label: "main", Color: gpu.ColorAttachment{Clear: gpu.Color{A: 1}}})
	pass.SetPushConstants(gpu.ShaderStageVertex, 0, []byte{1})
	pass.DrawIndexed(36, 1)
	pass.DrawIndexed(6, 1)

	_, err = enc.Finish()
	assert.Error(t, err, "pass still open")

	require.NoError(t, pass.End())
	assert.Error(t, pass.End())

	cb, err := enc.Finish()
	require.NoError(t, err)
	require.NoError(t, device.Queue().Submit(cb))

	last := device.Recorder().Last()
	require.NotNil(t, last)
	assert.Equal(t, 2, last.Count(headless.OpDrawIndexed))
	assert.Equal(t, headless.OpBeginPass, last.Commands[0].Op)
	assert.Equal(t, 1.0, last.Commands[0].Pass.Color.Clear.A)
}

func TestSurface(t *testing.T) {
	backend := headless.New(headless.Options{})
	surface := backend.Surface()

	_, err := surface.CurrentTexture()
	assert.ErrorIs(t, err, gpu.ErrSurfaceOutdated, "unconfigured")

	require.NoError(t, surface.Configure(backend.Device(), gpu.SurfaceConfiguration{Width: 4, Height: 3}))
	surface.FailAcquire(gpu.ErrSurfaceLost, gpu.ErrSurfaceTimeout)

	_, err = surface.CurrentTexture()
	assert.ErrorIs(t, err, gpu.ErrSurfaceLost)
	_, err = surface.CurrentTexture()
	assert.ErrorIs(t, err, gpu.ErrSurfaceTimeout)

	frame, err := surface.CurrentTexture()
	require.NoError(t, err)
	assert.Equal(t, 4, frame.Texture().Width())
	frame.Present()
	assert.Equal(t, 1, surface.Presented)

	cfg, ok := surface.Config()
	require.True(t, ok)
	assert.Equal(t, 3, cfg.Height)
	assert.Error(t, surface.Configure(backend.Device(), gpu.SurfaceConfiguration{Width: 0, Height: 3}))
}
