package engine

import "farm/pkg/scene"

// Renderer defines the interface for scene renderers
type Renderer interface {
	// Render draws one frame of the scene
	Render(state *scene.SceneState)

	// UpdateResolution updates the rendering resolution
	UpdateResolution(width, height int)

	// Pick returns the stencil id of the model under a framebuffer pixel
	Pick(x, y int) uint8

	// Close releases resources owned by the renderer itself
	Close()
}
