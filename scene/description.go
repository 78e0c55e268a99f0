// Package scene parses declarative scene descriptions and loads them into an
// ecs store backed by GPU resources.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Description is a parsed scene file. A nil Entities means the key was
// absent.
type Description struct {
	Entities []EntitySpec `json:"entities" yaml:"entities" toml:"entities"`
}

// EntitySpec describes one entity. Every field is optional and an absent
// field adds no component.
type EntitySpec struct {
	ModelPath   *string        `json:"model_path" yaml:"model_path" toml:"model_path"`
	GLTFPath    *string        `json:"gltf_path" yaml:"gltf_path" toml:"gltf_path"`
	TexturePath *string        `json:"texture_path" yaml:"texture_path" toml:"texture_path"`
	Transform   *TransformSpec `json:"transform" yaml:"transform" toml:"transform"`
	Skybox      []string       `json:"skybox" yaml:"skybox" toml:"skybox"`
	Spin        []float32      `json:"spin" yaml:"spin" toml:"spin"`
}

// TransformSpec is position, rotation in degrees and a uniform scale.
type TransformSpec struct {
	Position []float32 `json:"position" yaml:"position" toml:"position"`
	Rotation []float32 `json:"rotation" yaml:"rotation" toml:"rotation"`
	Scale    *float32  `json:"scale" yaml:"scale" toml:"scale"`
}

// HasGeometry reports whether the entity names a model or glTF file.
func (e EntitySpec) HasGeometry() bool {
	return e.ModelPath != nil || e.GLTFPath != nil
}

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("scene: %q: unknown scene format", name)
}

// Parse decodes data. Unknown keys are ignored. The result is not validated.
func Parse(data []byte, format Format) (*Description, error) {
	var desc Description
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &desc)
	case FormatYAML:
		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(&desc)
	case FormatTOML:
		err = toml.Unmarshal(data, &desc)
	default:
		return nil, fmt.Errorf("scene: unknown scene format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", format, err)
	}
	return &desc, nil
}

// ParseFile parses data using the format implied by name and validates it.
func ParseFile(name string, data []byte) (*Description, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	desc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %s: %w", name, err)
	}
	return desc, nil
}
