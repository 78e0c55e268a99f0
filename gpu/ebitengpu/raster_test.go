package ebitengpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeFace(t *testing.T) {
	cases := []struct {
		dir  mgl32.Vec3
		face int
	}{
		{mgl32.Vec3{1, 0.2, -0.3}, 0},
		{mgl32.Vec3{-1, 0.5, 0.5}, 1},
		{mgl32.Vec3{0.1, 2, 0}, 2},
		{mgl32.Vec3{0, -3, 1}, 3},
		{mgl32.Vec3{0.4, 0.4, 1}, 4},
		{mgl32.Vec3{0, 0, -1}, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.face, cubeFace(c.dir), "direction %v", c.dir)
	}
}

func TestCubeUVCentersAndCorners(t *testing.T) {
	for face, dir := range []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}} {
		u, v := cubeUV(face, dir)
		assert.InDelta(t, 0.5, u, 1e-6)
		assert.InDelta(t, 0.5, v, 1e-6)
	}

	// +Z face: +x is right, +y is up, so (1, 1, 1) is the top-right corner.
	u, v := cubeUV(4, mgl32.Vec3{1, 1, 1})
	assert.InDelta(t, 1, u, 1e-6)
	assert.InDelta(t, 0, v, 1e-6)
}

func TestClipNear(t *testing.T) {
	in := []clipVertex{
		{pos: mgl32.Vec4{0, 0, 1, 1}},
		{pos: mgl32.Vec4{1, 0, 1, 1}},
		{pos: mgl32.Vec4{0, 1, -1, 1}},
	}
	out := clipNear(in, nil)
	require.Len(t, out, 4)
	for _, v := range out {
		assert.GreaterOrEqual(t, v.pos.Z(), float32(0))
	}

	behind := []clipVertex{
		{pos: mgl32.Vec4{0, 0, -1, 1}},
		{pos: mgl32.Vec4{1, 0, -2, 1}},
		{pos: mgl32.Vec4{0, 1, -1, 1}},
	}
	assert.Empty(t, clipNear(behind, nil))
	assert.Len(t, clipNear(in[:2:2], nil), 2)
}

func TestSubdivide(t *testing.T) {
	n := 0
	var area float32
	subdivide(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, 2, func(a, b, c mgl32.Vec3) {
		n++
		area += b.Sub(a).Cross(c.Sub(a)).Len() / 2
	})
	assert.Equal(t, 16, n)
	assert.InDelta(t, 0.5, area, 1e-5)
}
