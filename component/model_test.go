package component_test

import (
	"testing"

	"github.com/plus3/kiln/component"
	"github.com/plus3/kiln/ecs"
	"github.com/plus3/kiln/gpu"
	"github.com/plus3/kiln/gpu/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageReleaseFreesGPUHandles(t *testing.T) {
	device := headless.New(headless.Options{}).Device()

	vb, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "vb", Usage: gpu.BufferUsageVertex, Contents: make([]byte, 32)})
	require.NoError(t, err)
	ib, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "ib", Usage: gpu.BufferUsageIndex, Contents: make([]byte, 12)})
	require.NoError(t, err)
	tex, err := device.CreateTexture(gpu.TextureDescriptor{Label: "tex", Width: 1, Height: 1, Layers: 1, Format: gpu.TextureFormatRGBA8UnormSrgb})
	require.NoError(t, err)
	sampler, err := device.CreateSampler(gpu.SamplerDescriptor{Label: "sampler"})
	require.NoError(t, err)
	group, err := device.CreateBindGroup(gpu.BindGroupDescriptor{Label: "material", Entries: []gpu.BindGroupEntry{
		{Binding: 0, Texture: tex},
		{Binding: 1, Sampler: sampler},
	}})
	require.NoError(t, err)
	require.Equal(t, 5, device.Live())

	storage := ecs.NewStorage(component.NewRegistry())
	id := storage.CreateEntity()
	require.NoError(t, ecs.Add(storage, id, component.Model{Meshes: []component.Mesh{{Name: "cube", VertexBuffer: vb, IndexBuffer: ib, IndexCount: 3}}}))
	require.NoError(t, ecs.Add(storage, id, component.Material{Texture: tex, Sampler: sampler, BindGroup: group}))
	require.NoError(t, ecs.Add(storage, id, component.Identity()))

	storage.Release()
	assert.Zero(t, device.Live())
}

func TestRegistryTypes(t *testing.T) {
	registry := component.NewRegistry()
	assert.Len(t, registry.Types(), 5)
}
