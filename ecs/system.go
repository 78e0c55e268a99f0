package ecs

// System represents a behavior that operates on entities with specific components.
// Systems can include Query fields, which the Scheduler initializes on
// registration and refreshes before each run, as well as custom state fields
// that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
