package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AppendFloat32s appends values to dst in little-endian order.
func AppendFloat32s(dst []byte, values ...float32) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// Mat4Bytes packs column-major matrices back to back.
func Mat4Bytes(matrices ...mgl32.Mat4) []byte {
	out := make([]byte, 0, 64*len(matrices))
	for _, m := range matrices {
		out = AppendFloat32s(out, m[:]...)
	}
	return out
}

// Uint32Bytes packs indices in little-endian order.
func Uint32Bytes(values []uint32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

// Float32At reads the float at byte offset off.
func Float32At(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

// Mat4At reads a column-major matrix at byte offset off.
func Mat4At(data []byte, off int) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = Float32At(data, off+4*i)
	}
	return m
}

// IndexAt reads index i of an index buffer in the given format.
func IndexAt(data []byte, format IndexFormat, i int) uint32 {
	if format == IndexFormatUint16 {
		return uint32(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return binary.LittleEndian.Uint32(data[4*i:])
}
