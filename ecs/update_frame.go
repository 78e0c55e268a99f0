package ecs

// UpdateFrame is passed to every system run by Scheduler.Once.
type UpdateFrame struct {
	// DeltaTime is the elapsed time since the previous update, in seconds.
	DeltaTime float64
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Storage:   storage,
	}
}
