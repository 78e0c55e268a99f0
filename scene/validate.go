package scene

import (
	"errors"
	"fmt"
)

// SkyboxFaces is the number of images a skybox needs, in the order +X, -X,
// +Y, -Y, +Z, -Z.
const SkyboxFaces = 6

// ValidationError reports a malformed or missing field. Entity is -1 for
// top-level fields.
type ValidationError struct {
	Entity int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Entity < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("entity %d: %s: %s", e.Entity, e.Field, e.Reason)
}

// Validate checks required fields and lengths. All problems are reported,
// joined.
func (d *Description) Validate() error {
	if d.Entities == nil {
		return &ValidationError{Entity: -1, Field: "entities", Reason: "missing"}
	}
	var errs []error
	for i, e := range d.Entities {
		errs = append(errs, e.validate(i)...)
	}
	return errors.Join(errs...)
}

func (e EntitySpec) validate(i int) []error {
	var errs []error
	fail := func(field, reason string, args ...any) {
		errs = append(errs, &ValidationError{Entity: i, Field: field, Reason: fmt.Sprintf(reason, args...)})
	}

	paths := []struct {
		field string
		value *string
	}{
		{"model_path", e.ModelPath},
		{"gltf_path", e.GLTFPath},
		{"texture_path", e.TexturePath},
	}
	for _, p := range paths {
		if p.value != nil && *p.value == "" {
			fail(p.field, "empty path")
		}
	}

	if t := e.Transform; t != nil {
		if len(t.Position) != 3 {
			fail("transform.position", "want 3 values, got %d", len(t.Position))
		}
		if len(t.Rotation) != 3 {
			fail("transform.rotation", "want 3 values, got %d", len(t.Rotation))
		}
		if t.Scale == nil {
			fail("transform.scale", "missing")
		}
	}

	if e.Skybox != nil {
		if len(e.Skybox) != SkyboxFaces {
			fail("skybox", "want %d paths, got %d", SkyboxFaces, len(e.Skybox))
		}
		for j, p := range e.Skybox {
			if p == "" {
				fail(fmt.Sprintf("skybox[%d]", j), "empty path")
			}
		}
	}

	if e.Spin != nil && len(e.Spin) != 3 {
		fail("spin", "want 3 values, got %d", len(e.Spin))
	}
	return errs
}
