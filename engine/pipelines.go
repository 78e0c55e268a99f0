package engine

import (
	_ "embed"
	"fmt"

	"github.com/plus3/kiln/asset"
	"github.com/plus3/kiln/gpu"
	"github.com/plus3/kiln/scene"
)

var (
	//go:embed shaders/mesh.wgsl
	meshShader string
	//go:embed shaders/skybox.wgsl
	skyboxShader string
)

// DepthFormat is the format of the engine's depth buffer.
const DepthFormat = gpu.TextureFormatDepth32Float

// modelPushConstantSize is one column-major 4×4 float32 matrix.
const modelPushConstantSize = 64

func createPipelines(device gpu.Device, format gpu.TextureFormat) (mesh, skybox gpu.Pipeline, err error) {
	mesh, err = device.CreateRenderPipeline(gpu.PipelineDescriptor{
		Label:            "mesh",
		Shader:           gpu.Shader{Name: "mesh", Source: meshShader},
		VertexLayouts:    []gpu.VertexLayout{asset.VertexLayout()},
		ColorFormat:      format,
		DepthFormat:      DepthFormat,
		DepthWrite:       true,
		DepthCompare:     gpu.CompareLess,
		CullBack:         true,
		PushConstantSize: modelPushConstantSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create mesh pipeline: %w", err)
	}

	skybox, err = device.CreateRenderPipeline(gpu.PipelineDescriptor{
		Label:         "skybox",
		Shader:        gpu.Shader{Name: "skybox", Source: skyboxShader},
		VertexLayouts: []gpu.VertexLayout{scene.SkyboxLayout()},
		ColorFormat:   format,
		DepthFormat:   DepthFormat,
		DepthWrite:    false,
		DepthCompare:  gpu.CompareLessEqual,
	})
	if err != nil {
		mesh.Release()
		return nil, nil, fmt.Errorf("create skybox pipeline: %w", err)
	}
	return mesh, skybox, nil
}
