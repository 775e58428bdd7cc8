// Package scene owns everything the viewer shows: the loaded models and
// textures, cameras, lights and the small animations running on top of them.
// GPU work goes through a Backend so the package itself stays testable.
package scene

import (
	"errors"
	"image"

	"farm/pkg/mesh"
	"farm/pkg/resource"
)

// ErrResource marks a failure to create a GPU resource
var ErrResource = errors.New("resource creation failed")

// Shader program names understood by every backend
const (
	ProgramObject = "object"
	ProgramSkybox = "skybox"
	ProgramSprite = "sprite"
	ProgramBanner = "banner"
)

// Backend creates GPU resources. Every returned handle is owned by the
// caller, which releases it exactly once.
type Backend interface {
	CompileProgram(name string) (*resource.Handle, error)
	LoadTexture(path string) (*resource.Handle, error)
	NewTexture(label string, img image.Image) (*resource.Handle, error)
	LoadCubeMap(prefix string) (*resource.Handle, error)
	UploadMesh(m *mesh.Mesh) (*GPUMesh, error)
}

// GPUMesh is an uploaded indexed mesh
type GPUMesh struct {
	Name       string
	VAO        *resource.Handle
	Buffers    []*resource.Handle
	IndexCount int32
}

// Handles lists every handle of the mesh, vertex array first
func (g *GPUMesh) Handles() []*resource.Handle {
	if g == nil {
		return nil
	}
	return append([]*resource.Handle{g.VAO}, g.Buffers...)
}
