package scene

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/kiln/asset"
	"github.com/plus3/kiln/asset/gltf"
	"github.com/plus3/kiln/asset/obj"
	"github.com/plus3/kiln/component"
	"github.com/plus3/kiln/ecs"
	"github.com/plus3/kiln/gpu"
)

// TextureFormat is the format of every loaded color texture.
const TextureFormat = gpu.TextureFormatRGBA8UnormSrgb

// Options configures a Loader.
type Options struct {
	Device gpu.Device
	Assets *asset.Source
	// Registry for the loaded store. Defaults to component.NewRegistry().
	Registry *ecs.ComponentRegistry
	Logger   *slog.Logger
}

// Loader turns scene descriptions into populated stores. A load either
// succeeds completely or leaves no GPU resources behind.
type Loader struct {
	device   gpu.Device
	assets   *asset.Source
	registry *ecs.ComponentRegistry
	logger   *slog.Logger
}

func NewLoader(opts Options) *Loader {
	l := &Loader{
		device:   opts.Device,
		assets:   opts.Assets,
		registry: opts.Registry,
		logger:   opts.Logger,
	}
	if l.registry == nil {
		l.registry = component.NewRegistry()
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load reads, parses and validates the scene file name from the asset
// source, then builds it.
func (l *Loader) Load(ctx context.Context, name string) (*ecs.Storage, error) {
	data, err := l.assets.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	desc, err := ParseFile(name, data)
	if err != nil {
		return nil, err
	}
	storage, err := l.Build(ctx, desc)
	if err != nil {
		return nil, err
	}
	l.logger.Info("scene loaded", "path", name, "entities", storage.Len())
	return storage, nil
}

// Build validates desc and creates its GPU resources and components. On
// error every resource created so far is released.
func (l *Loader) Build(ctx context.Context, desc *Description) (storage *ecs.Storage, err error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	cmds := ecs.NewCommands()
	defer func() {
		if err != nil {
			cmds.Discard()
		}
	}()

	for i, spec := range desc.Entities {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scene: entity %d: %w", i, err)
		}
		b := &entityBuilder{loader: l, ctx: ctx, index: i}
		err := b.build(spec)
		cmds.Spawn(b.components...)
		if err != nil {
			return nil, fmt.Errorf("scene: entity %d: %w", i, err)
		}
	}

	storage = ecs.NewStorage(l.registry)
	if _, err := cmds.Flush(storage); err != nil {
		storage.Release()
		return nil, fmt.Errorf("scene: %w", err)
	}
	return storage, nil
}

// entityBuilder collects one entity's components. Components added before a
// failure are still handed to the command buffer so they get released.
type entityBuilder struct {
	loader     *Loader
	ctx        context.Context
	index      int
	components []any
}

func (b *entityBuilder) add(component any) {
	b.components = append(b.components, component)
}

func (b *entityBuilder) build(spec EntitySpec) error {
	l := b.loader
	if spec.HasGeometry() {
		model := &component.Model{}
		b.add(model)
		if spec.ModelPath != nil {
			if err := b.loadOBJ(model, *spec.ModelPath); err != nil {
				return err
			}
		}
		if spec.GLTFPath != nil {
			if err := b.loadGLTF(model, *spec.GLTFPath); err != nil {
				return err
			}
		}

		texture := asset.PlaceholderTexture
		if spec.TexturePath != nil {
			texture = *spec.TexturePath
		}
		material, err := b.loadMaterial(texture)
		if err != nil {
			return err
		}
		b.add(material)
	} else if spec.TexturePath != nil {
		l.logger.Debug("texture without geometry ignored", "entity", b.index, "path", *spec.TexturePath)
	}

	if t := spec.Transform; t != nil {
		b.add(&component.Transform{
			Translation: mgl32.Vec3{t.Position[0], t.Position[1], t.Position[2]},
			Rotation:    mgl32.Vec3{t.Rotation[0], t.Rotation[1], t.Rotation[2]},
			Scale:       *t.Scale,
		})
	}

	if spec.Skybox != nil {
		cubemap, err := b.loadSkybox(spec.Skybox)
		if err != nil {
			return err
		}
		b.add(cubemap)
	}

	if spec.Spin != nil {
		b.add(&component.Spin{Rate: mgl32.Vec3{spec.Spin[0], spec.Spin[1], spec.Spin[2]}})
	}
	return nil
}

func (b *entityBuilder) read(name string) ([]byte, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}
	b.loader.logger.Debug("loading asset", "entity", b.index, "path", name)
	return b.loader.assets.ReadFile(name)
}

func (b *entityBuilder) loadOBJ(model *component.Model, name string) error {
	data, err := b.read(name)
	if err != nil {
		return fmt.Errorf("load model %q: %w", name, err)
	}
	decoded, err := obj.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("load model %q: %w", name, err)
	}
	return b.upload(model, name, decoded.Meshes)
}

func (b *entityBuilder) loadGLTF(model *component.Model, name string) error {
	if err := b.ctx.Err(); err != nil {
		return fmt.Errorf("load gltf %q: %w", name, err)
	}
	b.loader.logger.Debug("loading asset", "entity", b.index, "path", name)
	meshes, err := gltf.Load(b.loader.assets.FS(), asset.CleanPath(name))
	if err != nil {
		return fmt.Errorf("load gltf %q: %w", name, err)
	}
	return b.upload(model, name, meshes)
}

// upload appends one GPU mesh per decoded mesh to model.
func (b *entityBuilder) upload(model *component.Model, name string, meshes []asset.Mesh) error {
	device := b.loader.device
	for _, m := range meshes {
		vb, err := device.CreateBuffer(gpu.BufferDescriptor{
			Label:    fmt.Sprintf("%s vertex buffer", name),
			Usage:    gpu.BufferUsageVertex,
			Contents: m.VertexBytes(),
		})
		if err != nil {
			return fmt.Errorf("upload %q mesh %q: %w", name, m.Name, err)
		}
		ib, err := device.CreateBuffer(gpu.BufferDescriptor{
			Label:    fmt.Sprintf("%s index buffer", name),
			Usage:    gpu.BufferUsageIndex,
			Contents: m.IndexBytes(),
		})
		if err != nil {
			vb.Release()
			return fmt.Errorf("upload %q mesh %q: %w", name, m.Name, err)
		}
		model.Meshes = append(model.Meshes, component.Mesh{
			Name:         m.Name,
			VertexBuffer: vb,
			IndexBuffer:  ib,
			IndexCount:   uint32(len(m.Indices)),
			Material:     m.Material,
		})
	}
	return nil
}

func (b *entityBuilder) loadMaterial(name string) (*component.Material, error) {
	data, err := b.read(name)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", name, err)
	}
	img, err := asset.DecodeRGBA(data)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", name, err)
	}

	device := b.loader.device
	material := &component.Material{Name: name}
	fail := func(err error) (*component.Material, error) {
		material.Release()
		return nil, fmt.Errorf("load texture %q: %w", name, err)
	}

	if material.Texture, err = b.uploadTexture(name, gpu.ViewDimension2D, []*image.RGBA{img}); err != nil {
		return fail(err)
	}
	if material.Sampler, err = device.CreateSampler(gpu.SamplerDescriptor{
		Label:        name,
		AddressMode:  gpu.AddressClampToEdge,
		MagFilter:    gpu.FilterLinear,
		MinFilter:    gpu.FilterNearest,
		MipmapFilter: gpu.FilterNearest,
	}); err != nil {
		return fail(err)
	}
	if material.BindGroup, err = device.CreateBindGroup(gpu.BindGroupDescriptor{
		Label: name,
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, Texture: material.Texture},
			{Binding: 1, Sampler: material.Sampler},
		},
	}); err != nil {
		return fail(err)
	}
	return material, nil
}

// uploadTexture creates a texture with one layer per image and writes the
// pixels. All images must share the size of the first.
func (b *entityBuilder) uploadTexture(label string, dim gpu.ViewDimension, images []*image.RGBA) (gpu.Texture, error) {
	device := b.loader.device
	w, h := images[0].Rect.Dx(), images[0].Rect.Dy()
	texture, err := device.CreateTexture(gpu.TextureDescriptor{
		Label:         label,
		Width:         w,
		Height:        h,
		Layers:        len(images),
		Format:        TextureFormat,
		Usage:         gpu.TextureUsageTextureBinding | gpu.TextureUsageCopyDst,
		ViewDimension: dim,
	})
	if err != nil {
		return nil, err
	}
	for layer, img := range images {
		if err := device.Queue().WriteTexture(texture, layer, img.Pix, img.Stride); err != nil {
			texture.Release()
			return nil, err
		}
	}
	return texture, nil
}

func (b *entityBuilder) loadSkybox(paths []string) (*component.Cubemap, error) {
	faces := make([]*image.RGBA, len(paths))
	for i, p := range paths {
		data, err := b.read(p)
		if err != nil {
			return nil, fmt.Errorf("load skybox face %d %q: %w", i, p, err)
		}
		img, err := asset.DecodeRGBA(data)
		if err != nil {
			return nil, fmt.Errorf("load skybox face %d %q: %w", i, p, err)
		}
		if i > 0 && img.Rect.Size() != faces[0].Rect.Size() {
			b.loader.logger.Warn("skybox face rescaled", "entity", b.index, "path", p,
				"width", img.Rect.Dx(), "height", img.Rect.Dy(),
				"want_width", faces[0].Rect.Dx(), "want_height", faces[0].Rect.Dy())
			img = asset.Resize(img, faces[0].Rect.Dx(), faces[0].Rect.Dy())
		}
		faces[i] = img
	}

	device := b.loader.device
	cubemap := &component.Cubemap{VertexCount: SkyboxVertexCount}
	fail := func(err error) (*component.Cubemap, error) {
		cubemap.Release()
		return nil, fmt.Errorf("load skybox: %w", err)
	}

	var err error
	if cubemap.Texture, err = b.uploadTexture("skybox", gpu.ViewDimensionCube, faces); err != nil {
		return fail(err)
	}
	if cubemap.Sampler, err = device.CreateSampler(gpu.SamplerDescriptor{
		Label:        "skybox",
		AddressMode:  gpu.AddressClampToEdge,
		MagFilter:    gpu.FilterNearest,
		MinFilter:    gpu.FilterNearest,
		MipmapFilter: gpu.FilterNearest,
	}); err != nil {
		return fail(err)
	}
	if cubemap.BindGroup, err = device.CreateBindGroup(gpu.BindGroupDescriptor{
		Label: "skybox",
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, Texture: cubemap.Texture},
			{Binding: 1, Sampler: cubemap.Sampler},
		},
	}); err != nil {
		return fail(err)
	}
	if cubemap.VertexBuffer, err = device.CreateBuffer(gpu.BufferDescriptor{
		Label:    "skybox vertex buffer",
		Usage:    gpu.BufferUsageVertex,
		Contents: SkyboxVertexBytes(),
	}); err != nil {
		return fail(err)
	}
	return cubemap, nil
}
