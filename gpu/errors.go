package gpu

import "errors"

// Conditions reported by Surface.CurrentTexture and submission.
var (
	// ErrSurfaceLost means the surface must be reconfigured before it can be used again.
	ErrSurfaceLost = errors.New("gpu: surface lost")
	// ErrSurfaceOutdated means the surface no longer matches the window and must be reconfigured.
	ErrSurfaceOutdated = errors.New("gpu: surface outdated")
	// ErrSurfaceTimeout means no surface texture became available in time.
	ErrSurfaceTimeout = errors.New("gpu: surface timeout")
	// ErrOutOfMemory means the device could not allocate; it is not recoverable.
	ErrOutOfMemory = errors.New("gpu: out of memory")
)

// NeedsReconfigure reports whether err is recovered by configuring the surface again.
func NeedsReconfigure(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}
