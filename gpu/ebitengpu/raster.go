package ebitengpu

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/kiln/gpu"
)

const (
	ambient       = 0.3
	skyboxDivide  = 3
	maxBatchVerts = 65535 - 3
)

// program turns one draw call into screen-space triangles.
type program func(d *Device, call *drawCall, out *raster)

var programs = map[string]program{
	"mesh":   drawMesh,
	"skybox": drawSkybox,
}

// clipVertex is a vertex after the vertex stage.
type clipVertex struct {
	pos     mgl32.Vec4
	u, v    float32
	r, g, b float32
}

func lerpVertex(a, b clipVertex, t float32) clipVertex {
	return clipVertex{
		pos: a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		u:   a.u + (b.u-a.u)*t,
		v:   a.v + (b.v-a.v)*t,
		r:   a.r + (b.r-a.r)*t,
		g:   a.g + (b.g-a.g)*t,
		b:   a.b + (b.b-a.b)*t,
	}
}

// clipNear clips a polygon against the z >= 0 plane of clip space.
func clipNear(in, out []clipVertex) []clipVertex {
	out = out[:0]
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da, db := a.pos.Z(), b.pos.Z()
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpVertex(a, b, da/(da-db)))
		}
	}
	return out
}

type triangle struct {
	vertices [3]ebiten.Vertex
	depth    float32
	image    *ebiten.Image
	filter   ebiten.Filter
	address  ebiten.Address
}

type texturing struct {
	image   *ebiten.Image
	width   float32
	height  float32
	filter  ebiten.Filter
	address ebiten.Address
	clamp   bool
	white   bool
}

func (d *Device) texturing(group *BindGroup, layer int) (texturing, bool) {
	var sampler *Sampler
	var img *ebiten.Image
	if group != nil {
		sampler = group.sampler
		if group.texture != nil {
			img = group.texture.layer(layer)
		}
	}
	t := texturing{filter: sampler.filter()}
	t.address, t.clamp = sampler.address()
	if img == nil {
		img = d.whiteImage()
		t.white = true
	}
	t.image = img
	t.width = float32(img.Bounds().Dx())
	t.height = float32(img.Bounds().Dy())
	return t, !t.white
}

// raster collects the triangles of one render pass.
type raster struct {
	width, height float32
	cullBack      bool
	background    []triangle
	scene         []triangle
	scratch       [2][]clipVertex
}

// emit clips, projects and queues one triangle.
func (r *raster) emit(tri [3]clipVertex, tex texturing, background bool) {
	poly := append(r.scratch[0][:0], tri[:]...)
	clipped := clipNear(poly, r.scratch[1])
	r.scratch[0], r.scratch[1] = poly, clipped
	if len(clipped) < 3 {
		return
	}

	screen := make([]ebiten.Vertex, len(clipped))
	depths := make([]float32, len(clipped))
	for i, cv := range clipped {
		w := cv.pos.W()
		if w <= 1e-6 {
			return
		}
		x, y := cv.pos.X()/w, cv.pos.Y()/w
		depths[i] = cv.pos.Z() / w
		sx, sy := cv.u*tex.width, cv.v*tex.height
		if tex.white {
			sx, sy = 0.5, 0.5
		} else if tex.clamp {
			sx = min(max(sx, 0), tex.width)
			sy = min(max(sy, 0), tex.height)
		}
		screen[i] = ebiten.Vertex{
			DstX:   (x + 1) * 0.5 * r.width,
			DstY:   (1 - y) * 0.5 * r.height,
			SrcX:   sx,
			SrcY:   sy,
			ColorR: cv.r,
			ColorG: cv.g,
			ColorB: cv.b,
			ColorA: 1,
		}
	}

	for i := 1; i+1 < len(screen); i++ {
		a, b, c := screen[0], screen[i], screen[i+1]
		if r.cullBack && !background {
			// Counter-clockwise in NDC is clockwise once y points down.
			area := (b.DstX-a.DstX)*(c.DstY-a.DstY) - (c.DstX-a.DstX)*(b.DstY-a.DstY)
			if area >= 0 {
				continue
			}
		}
		t := triangle{
			vertices: [3]ebiten.Vertex{a, b, c},
			depth:    (depths[0] + depths[i] + depths[i+1]) / 3,
			image:    tex.image,
			filter:   tex.filter,
			address:  tex.address,
		}
		if background {
			r.background = append(r.background, t)
		} else {
			r.scene = append(r.scene, t)
		}
	}
}

func vec3At(data []byte, off int) mgl32.Vec3 {
	return mgl32.Vec3{gpu.Float32At(data, off), gpu.Float32At(data, off+4), gpu.Float32At(data, off+8)}
}

// drawMesh is the "mesh" program: model from push constants, view-projection
// from group 1 binding 0, directional light from group 1 binding 1 and the
// diffuse texture from group 0.
func drawMesh(d *Device, call *drawCall, out *raster) {
	p := call.pipeline
	camera := call.groups[1].buffer(0)
	if call.vertex == nil || len(camera) < 64 {
		return
	}
	mvp := gpu.Mat4At(camera, 0)
	model := mgl32.Ident4()
	if len(call.push) >= 64 {
		model = gpu.Mat4At(call.push, 0)
		mvp = mvp.Mul4(model)
	}

	var lightDir, lightColor mgl32.Vec3
	lit := false
	if light := call.groups[1].buffer(1); len(light) >= 32 {
		lightDir = vec3At(light, 0)
		lightColor = vec3At(light, 16)
		lit = lightDir.Len() > 0
		if lit {
			lightDir = lightDir.Normalize()
		}
	}

	tex, _ := d.texturing(call.groups[0], 0)
	vertices := call.vertex.data
	vertexCount := len(vertices) / p.stride

	fetch := func(index int) (clipVertex, bool) {
		if index < 0 || index >= vertexCount {
			return clipVertex{}, false
		}
		base := index * p.stride
		pos := vec3At(vertices, base+p.position)
		cv := clipVertex{pos: mvp.Mul4x1(pos.Vec4(1)), r: 1, g: 1, b: 1}
		if p.uv >= 0 {
			cv.u = gpu.Float32At(vertices, base+p.uv)
			cv.v = gpu.Float32At(vertices, base+p.uv+4)
		}
		if lit && p.normal >= 0 {
			n := model.Mul4x1(vec3At(vertices, base+p.normal).Vec4(0)).Vec3()
			brightness := float32(1)
			if n.Len() > 0 {
				brightness = ambient + (1-ambient)*math32.Max(n.Normalize().Dot(lightDir.Mul(-1)), 0)
			}
			cv.r, cv.g, cv.b = lightColor.X()*brightness, lightColor.Y()*brightness, lightColor.Z()*brightness
		}
		return cv, true
	}

	count := int(call.count)
	var indices []byte
	if call.indexed {
		if call.index == nil {
			return
		}
		indices = call.index.data
		count = min(count, len(indices)/call.indexFormat.Size())
	}
	for i := 0; i+2 < count; i += 3 {
		var tri [3]clipVertex
		ok := true
		for k := 0; k < 3 && ok; k++ {
			index := i + k
			if call.indexed {
				index = int(gpu.IndexAt(indices, call.indexFormat, i+k))
			}
			tri[k], ok = fetch(index)
		}
		if ok {
			out.emit(tri, tex, false)
		}
	}
}

// cubeFace picks the cubemap layer for direction v by its dominant axis.
func cubeFace(v mgl32.Vec3) int {
	ax, ay, az := math32.Abs(v.X()), math32.Abs(v.Y()), math32.Abs(v.Z())
	switch {
	case ax >= ay && ax >= az:
		if v.X() >= 0 {
			return 0
		}
		return 1
	case ay >= az:
		if v.Y() >= 0 {
			return 2
		}
		return 3
	default:
		if v.Z() >= 0 {
			return 4
		}
		return 5
	}
}

// cubeUV projects v onto the given face and returns texture coordinates in
// [0, 1].
func cubeUV(face int, v mgl32.Vec3) (float32, float32) {
	var sc, tc, ma float32
	switch face {
	case 0:
		sc, tc, ma = -v.Z(), -v.Y(), v.X()
	case 1:
		sc, tc, ma = v.Z(), -v.Y(), v.X()
	case 2:
		sc, tc, ma = v.X(), v.Z(), v.Y()
	case 3:
		sc, tc, ma = v.X(), -v.Z(), v.Y()
	case 4:
		sc, tc, ma = v.X(), -v.Y(), v.Z()
	default:
		sc, tc, ma = -v.X(), -v.Y(), v.Z()
	}
	ma = math32.Abs(ma)
	if ma == 0 {
		return 0.5, 0.5
	}
	return (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// subdivide splits a triangle at its edge midpoints depth times.
func subdivide(a, b, c mgl32.Vec3, depth int, emit func(a, b, c mgl32.Vec3)) {
	if depth == 0 {
		emit(a, b, c)
		return
	}
	ab := a.Add(b).Mul(0.5)
	bc := b.Add(c).Mul(0.5)
	ca := c.Add(a).Mul(0.5)
	subdivide(a, ab, ca, depth-1, emit)
	subdivide(ab, b, bc, depth-1, emit)
	subdivide(ca, bc, c, depth-1, emit)
	subdivide(ab, bc, ca, depth-1, emit)
}

// drawSkybox is the "skybox" program: a unit cube drawn around the camera
// with the view translation removed, sampled from a six-layer cubemap in
// group 0.
func drawSkybox(d *Device, call *drawCall, out *raster) {
	p := call.pipeline
	camera := call.groups[1].buffer(0)
	if call.vertex == nil || len(camera) < 192 {
		return
	}
	vp := gpu.Mat4At(camera, 128).Mul4(gpu.Mat4At(camera, 64))

	var faces [6]texturing
	var present [6]bool
	for i := range faces {
		faces[i], present[i] = d.texturing(call.groups[0], i)
	}

	vertices := call.vertex.data
	count := min(int(call.count), len(vertices)/p.stride)
	for i := 0; i+2 < count; i += 3 {
		a := vec3At(vertices, i*p.stride+p.position)
		b := vec3At(vertices, (i+1)*p.stride+p.position)
		c := vec3At(vertices, (i+2)*p.stride+p.position)
		face := cubeFace(a.Add(b).Add(c))
		if !present[face] {
			continue
		}
		subdivide(a, b, c, skyboxDivide, func(a, b, c mgl32.Vec3) {
			var tri [3]clipVertex
			for k, v := range [3]mgl32.Vec3{a, b, c} {
				u, t := cubeUV(face, v)
				tri[k] = clipVertex{pos: vp.Mul4x1(v.Vec4(1)), u: u, v: t, r: 1, g: 1, b: 1}
			}
			out.emit(tri, faces[face], true)
		})
	}
}

func toColor(c gpu.Color) color.Color {
	clamp := func(v float64) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}

// execute runs one recorded render pass.
func (d *Device) execute(pass *renderPass) error {
	target, ok := pass.desc.Color.Target.(*Texture)
	if !ok || target.layer(0) == nil {
		return fmt.Errorf("render pass %q has no color target", pass.desc.Label)
	}
	dst := target.layer(0)
	if pass.desc.Color.Load == gpu.LoadOpClear {
		dst.Fill(toColor(pass.desc.Color.Clear))
	}

	out := &raster{width: float32(target.Width()), height: float32(target.Height())}
	for i := range pass.draws {
		call := &pass.draws[i]
		if call.pipeline == nil {
			return fmt.Errorf("render pass %q: draw without pipeline", pass.desc.Label)
		}
		out.cullBack = call.pipeline.desc.CullBack
		call.pipeline.program(d, call, out)
	}

	if pass.desc.Depth != nil {
		sort.SliceStable(out.scene, func(i, j int) bool {
			return out.scene[i].depth > out.scene[j].depth
		})
	}
	drawBatches(dst, out.background)
	drawBatches(dst, out.scene)
	return nil
}

// drawBatches issues DrawTriangles for runs of triangles sharing an image
// and sampling state.
func drawBatches(dst *ebiten.Image, tris []triangle) {
	var vertices []ebiten.Vertex
	var indices []uint16
	var current *triangle

	flush := func() {
		if current == nil || len(vertices) == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{Filter: current.filter, Address: current.address}
		dst.DrawTriangles(vertices, indices, current.image, op)
		vertices, indices = vertices[:0], indices[:0]
	}

	for i := range tris {
		t := &tris[i]
		if current == nil || t.image != current.image || t.filter != current.filter ||
			t.address != current.address || len(vertices) >= maxBatchVerts {
			flush()
			current = t
		}
		base := uint16(len(vertices))
		vertices = append(vertices, t.vertices[:]...)
		indices = append(indices, base, base+1, base+2)
	}
	flush()
}
