package gpu

import (
	"errors"
	"strconv"
)

// TextureFormat is the pixel format of a texture or surface.
type TextureFormat uint8

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSrgb
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSrgb
	TextureFormatRGBA16Float
	TextureFormatDepth32Float
)

var textureFormatNames = [...]string{
	TextureFormatUndefined:      "Undefined",
	TextureFormatRGBA8Unorm:     "RGBA8Unorm",
	TextureFormatRGBA8UnormSrgb: "RGBA8UnormSrgb",
	TextureFormatBGRA8Unorm:     "BGRA8Unorm",
	TextureFormatBGRA8UnormSrgb: "BGRA8UnormSrgb",
	TextureFormatRGBA16Float:    "RGBA16Float",
	TextureFormatDepth32Float:   "Depth32Float",
}

func (f TextureFormat) String() string {
	if int(f) < len(textureFormatNames) {
		return textureFormatNames[f]
	}
	return "TextureFormat(" + strconv.Itoa(int(f)) + ")"
}

// IsSRGB reports whether the format stores sRGB-encoded color.
func (f TextureFormat) IsSRGB() bool {
	return f == TextureFormatRGBA8UnormSrgb || f == TextureFormatBGRA8UnormSrgb
}

// IsDepth reports whether the format is a depth format.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth32Float
}

// BytesPerPixel returns the size of one texel.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA16Float:
		return 8
	case TextureFormatUndefined:
		return 0
	}
	return 4
}

// ErrNoSurfaceFormat is returned when a surface reports no usable formats.
var ErrNoSurfaceFormat = errors.New("gpu: surface reports no formats")

// ChooseSurfaceFormat returns the first sRGB format in formats, or the first
// format if none is sRGB.
func ChooseSurfaceFormat(formats []TextureFormat) (TextureFormat, error) {
	if len(formats) == 0 {
		return TextureFormatUndefined, ErrNoSurfaceFormat
	}
	for _, f := range formats {
		if f.IsSRGB() {
			return f, nil
		}
	}
	return formats[0], nil
}

// PresentMode controls how presented frames are paced.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. Every backend supports it.
	PresentModeFifo PresentMode = iota
	PresentModeImmediate
	PresentModeMailbox
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "Fifo"
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeMailbox:
		return "Mailbox"
	}
	return "PresentMode(" + strconv.Itoa(int(m)) + ")"
}

type ViewDimension uint8

const (
	ViewDimension2D ViewDimension = iota
	ViewDimensionCube
)

type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageCopyDst
)

type TextureUsage uint32

const (
	TextureUsageTextureBinding TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageRenderAttachment
)

type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

type IndexFormat uint8

const (
	IndexFormatUint32 IndexFormat = iota
	IndexFormatUint16
)

// Size returns the byte size of one index.
func (f IndexFormat) Size() int {
	if f == IndexFormatUint16 {
		return 2
	}
	return 4
}

type CompareFunction uint8

const (
	CompareLess CompareFunction = iota
	CompareLessEqual
	CompareAlways
)

type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

type AddressMode uint8

const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
)

type VertexFormat uint8

const (
	VertexFormatFloat32x2 VertexFormat = iota
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// Size returns the byte size of one attribute of this format.
func (f VertexFormat) Size() int {
	switch f {
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	}
	return 16
}

type LoadOp uint8

const (
	LoadOpClear LoadOp = iota
	LoadOpLoad
)
