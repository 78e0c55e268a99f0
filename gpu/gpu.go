// Package gpu defines the boundary between the engine and a graphics backend.
// It is shaped after WebGPU: a Device creates resources and command encoders,
// a Queue uploads data and submits recorded work, and a Surface hands out
// textures to render into and present.
package gpu

// Buffer is a block of device memory.
type Buffer interface {
	Label() string
	Size() int
	Usage() BufferUsage
	Release()
}

// Texture is an image with one or more array layers.
type Texture interface {
	Label() string
	Width() int
	Height() int
	Layers() int
	Format() TextureFormat
	Release()
}

type Sampler interface {
	Release()
}

// BindGroup binds resources to one group slot of a pipeline.
type BindGroup interface {
	Release()
}

type Pipeline interface {
	Label() string
	Release()
}

// CommandBuffer is recorded work ready for Queue.Submit. Its contents are
// backend specific.
type CommandBuffer interface{}

type BufferDescriptor struct {
	Label    string
	Usage    BufferUsage
	Contents []byte
}

type TextureDescriptor struct {
	Label         string
	Width         int
	Height        int
	Layers        int
	Format        TextureFormat
	Usage         TextureUsage
	ViewDimension ViewDimension
}

type SamplerDescriptor struct {
	Label        string
	AddressMode  AddressMode
	MagFilter    FilterMode
	MinFilter    FilterMode
	MipmapFilter FilterMode
}

// BindGroupEntry binds exactly one of Buffer, Texture or Sampler.
type BindGroupEntry struct {
	Binding int
	Buffer  Buffer
	Texture Texture
	Sampler Sampler
}

type BindGroupDescriptor struct {
	Label   string
	Entries []BindGroupEntry
}

type VertexAttribute struct {
	Format         VertexFormat
	Offset         int
	ShaderLocation int
}

type VertexLayout struct {
	Stride     int
	Attributes []VertexAttribute
}

// Shader is WGSL source. Name identifies the program to backends that cannot
// compile WGSL and emulate known programs instead.
type Shader struct {
	Name   string
	Source string
}

type PipelineDescriptor struct {
	Label            string
	Shader           Shader
	VertexLayouts    []VertexLayout
	ColorFormat      TextureFormat
	DepthFormat      TextureFormat
	DepthWrite       bool
	DepthCompare     CompareFunction
	CullBack         bool
	PushConstantSize int
}

type Color struct {
	R, G, B, A float64
}

type ColorAttachment struct {
	Target Texture
	Load   LoadOp
	Clear  Color
}

type DepthAttachment struct {
	Target Texture
	Load   LoadOp
	Clear  float32
}

type RenderPassDescriptor struct {
	Label string
	Color ColorAttachment
	Depth *DepthAttachment
}

// RenderPass records draw state and draw calls.
type RenderPass interface {
	SetPipeline(pipeline Pipeline)
	SetBindGroup(index int, group BindGroup)
	SetVertexBuffer(slot int, buffer Buffer)
	SetIndexBuffer(buffer Buffer, format IndexFormat)
	SetPushConstants(stages ShaderStage, offset int, data []byte)
	Draw(vertexCount, instanceCount uint32)
	DrawIndexed(indexCount, instanceCount uint32)
	End() error
}

type CommandEncoder interface {
	BeginRenderPass(desc RenderPassDescriptor) RenderPass
	Finish() (CommandBuffer, error)
}

type Queue interface {
	WriteBuffer(buffer Buffer, offset int, data []byte) error
	WriteTexture(texture Texture, layer int, data []byte, bytesPerRow int) error
	Submit(buffers ...CommandBuffer) error
}

// Device creates resources. Creation errors wrap ErrOutOfMemory when the
// device ran out of memory.
type Device interface {
	CreateBuffer(desc BufferDescriptor) (Buffer, error)
	CreateTexture(desc TextureDescriptor) (Texture, error)
	CreateSampler(desc SamplerDescriptor) (Sampler, error)
	CreateBindGroup(desc BindGroupDescriptor) (BindGroup, error)
	CreateRenderPipeline(desc PipelineDescriptor) (Pipeline, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)
	Queue() Queue
}

type SurfaceCapabilities struct {
	Formats      []TextureFormat
	PresentModes []PresentMode
}

type SurfaceConfiguration struct {
	Format      TextureFormat
	Width       int
	Height      int
	PresentMode PresentMode
}

// SurfaceTexture is the image acquired for one frame. Exactly one of Present
// or Discard must be called.
type SurfaceTexture interface {
	Texture() Texture
	Present()
	Discard()
}

// Surface is the presentable target of a window.
type Surface interface {
	Capabilities() SurfaceCapabilities
	Configure(device Device, config SurfaceConfiguration) error
	// CurrentTexture may fail with ErrSurfaceLost, ErrSurfaceOutdated,
	// ErrSurfaceTimeout or ErrOutOfMemory.
	CurrentTexture() (SurfaceTexture, error)
}
