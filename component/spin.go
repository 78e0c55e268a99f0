package component

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Spin rotates an entity's Transform continuously. Rate is in degrees per
// second per axis.
type Spin struct {
	Rate mgl32.Vec3
}

// Apply advances t by dt seconds, keeping each angle in [0, 360).
func (s Spin) Apply(t *Transform, dt float64) {
	for i := range t.Rotation {
		angle := math32.Mod(t.Rotation[i]+s.Rate[i]*float32(dt), 360)
		if angle < 0 {
			angle += 360
		}
		t.Rotation[i] = angle
	}
}
