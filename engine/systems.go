package engine

import (
	"github.com/plus3/kiln/component"
	"github.com/plus3/kiln/ecs"
)

type spinning struct {
	Transform *component.Transform `ecs:"mut"`
	Spin      *component.Spin
}

// SpinSystem advances the rotation of every entity with a Spin.
type SpinSystem struct {
	Spinning ecs.Query[spinning]
}

func (s *SpinSystem) Execute(frame *ecs.UpdateFrame) {
	for _, e := range s.Spinning.Iter() {
		e.Spin.Apply(e.Transform, frame.DeltaTime)
	}
}
