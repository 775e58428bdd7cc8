package engine

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"farm/internal/util"
	"farm/pkg/resource"
	"farm/pkg/scene"
)

const (
	fieldOfView = 45.0
	nearPlane   = 0.1
	farPlane    = 100.0
)

// Texture units shared by the programs
const (
	unitDiffuse = iota
	unitSpecular
	unitFog
)

// OpenGLRenderer draws a SceneState with OpenGL
type OpenGLRenderer struct {
	width  int
	height int

	// uniform locations per program
	uniforms *resource.Cache[int32]
}

// NewOpenGLRenderer sets up global GL state for the scene
func NewOpenGLRenderer(width, height int) *OpenGLRenderer {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.ClearStencil(0)

	return &OpenGLRenderer{
		width:    width,
		height:   height,
		uniforms: resource.NewCache[int32](),
	}
}

// UpdateResolution updates the rendering resolution
func (r *OpenGLRenderer) UpdateResolution(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height
}

// Close drops cached uniform locations. The GL objects belong to the scene.
func (r *OpenGLRenderer) Close() {
	r.uniforms.Clear()
}

func (r *OpenGLRenderer) location(program *resource.Handle, name string) int32 {
	return r.uniforms.Get(program, name, func(id uint32) int32 {
		return gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	})
}

func (r *OpenGLRenderer) setMat4(program *resource.Handle, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(r.location(program, name), 1, false, &m[0])
}

func (r *OpenGLRenderer) setMat3(program *resource.Handle, name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(r.location(program, name), 1, false, &m[0])
}

func (r *OpenGLRenderer) setVec3(program *resource.Handle, name string, v mgl32.Vec3) {
	gl.Uniform3f(r.location(program, name), v[0], v[1], v[2])
}

func (r *OpenGLRenderer) setFloat(program *resource.Handle, name string, f float32) {
	gl.Uniform1f(r.location(program, name), f)
}

func (r *OpenGLRenderer) setInt(program *resource.Handle, name string, i int32) {
	gl.Uniform1i(r.location(program, name), i)
}

func (r *OpenGLRenderer) setBool(program *resource.Handle, name string, b bool) {
	var i int32
	if b {
		i = 1
	}
	gl.Uniform1i(r.location(program, name), i)
}

func bindTexture(unit int, target uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(target, texture)
}

func drawMesh(m *scene.GPUMesh) {
	if m == nil {
		return
	}
	gl.BindVertexArray(m.VAO.ID())
	gl.DrawElements(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

// frame holds per-frame matrices
type frame struct {
	camera     scene.Camera
	view       mgl32.Mat4
	projection mgl32.Mat4
}

// Render draws one frame. Without a loaded scene only the clear colour shows.
func (r *OpenGLRenderer) Render(s *scene.SceneState) {
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	// programs from before a reload are gone
	r.uniforms.Prune()
	if !s.Loaded {
		return
	}

	cam := s.Camera()
	f := frame{
		camera:     cam,
		view:       cam.View(),
		projection: mgl32.Perspective(mgl32.DegToRad(fieldOfView), float32(r.width)/float32(r.height), nearPlane, farPlane),
	}

	r.drawSkybox(s, f)

	gl.PolygonMode(gl.FRONT_AND_BACK, polygonMode(s.PolygonMode))
	for _, obj := range s.Objects {
		r.drawModel(s, f, obj.Model, obj.Transform)
	}
	if s.Creature.Model != nil {
		r.drawModel(s, f, s.Creature.Model, s.Creature.Transform)
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	r.drawBanner(s, f)
	for _, sp := range s.Sprites() {
		r.drawSprite(s, f, sp)
	}
}

func polygonMode(m scene.PolygonMode) uint32 {
	switch m {
	case scene.PolygonLine:
		return gl.LINE
	case scene.PolygonPoint:
		return gl.POINT
	}
	return gl.FILL
}

func (r *OpenGLRenderer) drawSkybox(s *scene.SceneState, f frame) {
	program := s.Assets.SkyboxProgram
	gl.UseProgram(program.ID())

	// view rotation only
	rotation := f.view
	rotation.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	inverse := f.projection.Mul4(rotation).Inv()

	r.setMat4(program, "inversePVmatrix", inverse)
	r.setInt(program, "skyboxSampler", 0)
	r.setBool(program, "fog", s.Fog)
	r.setFloat(program, "night", s.Night)

	bindTexture(0, gl.TEXTURE_CUBE_MAP, s.Assets.Skybox.ID())
	gl.DepthMask(false)
	drawMesh(s.Assets.Quad)
	gl.DepthMask(true)
	bindTexture(0, gl.TEXTURE_CUBE_MAP, 0)
	gl.UseProgram(0)
}

func (r *OpenGLRenderer) setFog(program *resource.Handle, s *scene.SceneState, f frame) {
	r.setBool(program, "fog", s.Fog)
	r.setInt(program, "fogTexture", unitFog)
	r.setVec3(program, "viewPos", f.camera.Position)
	gl.Uniform2f(r.location(program, "resolution"), float32(r.width), float32(r.height))
	bindTexture(unitFog, gl.TEXTURE_2D, s.Assets.Fog.ID())
}

func (r *OpenGLRenderer) setLights(program *resource.Handle, l scene.Lights) {
	r.setVec3(program, "direct.ambient", l.Direct.Ambient)
	r.setVec3(program, "direct.diffuse", l.Direct.Diffuse)
	r.setVec3(program, "direct.specular", l.Direct.Specular)
	r.setVec3(program, "direct.direction", l.Direct.Direction)
	r.setFloat(program, "direct.intensity", l.Direct.Intensity)

	r.setPointLight(program, "point", l.Point)
	r.setPointLight(program, "spot.point", l.Spot.PointLight)
	r.setVec3(program, "spot.direction", l.Spot.Direction)
	r.setFloat(program, "spot.cutOff", util.Cos32(mgl32.DegToRad(l.Spot.CutOff)))
}

func (r *OpenGLRenderer) setPointLight(program *resource.Handle, prefix string, p scene.PointLight) {
	r.setVec3(program, prefix+".ambient", p.Ambient)
	r.setVec3(program, prefix+".diffuse", p.Diffuse)
	r.setVec3(program, prefix+".specular", p.Specular)
	r.setVec3(program, prefix+".position", p.Position)
	r.setFloat(program, prefix+".linear", p.Linear)
	r.setFloat(program, prefix+".quadratic", p.Quadratic)
	r.setFloat(program, prefix+".intensity", p.Intensity)
}

func (r *OpenGLRenderer) drawModel(s *scene.SceneState, f frame, m *scene.Model, model mgl32.Mat4) {
	program := s.Assets.ObjectProgram
	gl.UseProgram(program.ID())

	r.setMat4(program, "projectionMatrix", f.projection)
	r.setMat4(program, "viewMatrix", f.view)
	r.setMat4(program, "modelMatrix", model)
	r.setMat3(program, "normalMatrix", model.Mat3().Inv().Transpose())
	r.setBool(program, "morph", m.Morph)
	r.setFloat(program, "morphValue", s.Creature.Morph())
	r.setBool(program, "glass", m.Glass)

	r.setInt(program, "material.diffuse", unitDiffuse)
	r.setInt(program, "material.specular", unitSpecular)
	r.setFloat(program, "material.shininess", m.Shininess)
	bindTexture(unitDiffuse, gl.TEXTURE_2D, m.Diffuse.ID())
	bindTexture(unitSpecular, gl.TEXTURE_2D, m.Specular.ID())

	r.setLights(program, s.Lights)
	r.setFog(program, s, f)

	if m.PickID != scene.PickNone {
		gl.Enable(gl.STENCIL_TEST)
		gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
		gl.StencilFunc(gl.ALWAYS, int32(m.PickID), 0xFF)
	}
	if m.Glass {
		gl.BlendFunc(gl.SRC_COLOR, gl.ONE_MINUS_SRC_COLOR)
	}

	drawMesh(m.Mesh)

	if m.Glass {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	if m.PickID != scene.PickNone {
		gl.Disable(gl.STENCIL_TEST)
	}
	gl.UseProgram(0)
}

func (r *OpenGLRenderer) drawBanner(s *scene.SceneState, f frame) {
	program := s.Assets.BannerProgram
	gl.UseProgram(program.ID())

	r.setMat4(program, "projectionMatrix", f.projection)
	r.setMat4(program, "viewMatrix", f.view)
	r.setMat4(program, "modelMatrix", s.BannerModel(f.camera.Direction))
	r.setMat4(program, "texModelMatrix", s.BannerTexMatrix())
	r.setInt(program, "tex", unitDiffuse)
	bindTexture(unitDiffuse, gl.TEXTURE_2D, s.Assets.Banner.ID())
	r.setFog(program, s, f)

	drawMesh(s.Assets.BannerQuad)
	gl.UseProgram(0)
}

func (r *OpenGLRenderer) drawSprite(s *scene.SceneState, f frame, sp scene.Sprite) {
	program := s.Assets.SpriteProgram
	gl.UseProgram(program.ID())

	r.setMat4(program, "projectionMatrix", f.projection)
	r.setMat4(program, "viewMatrix", f.view)
	r.setMat4(program, "modelMatrix", sp.Model(f.camera.Direction))
	r.setInt(program, "sizeX", int32(sp.Cols))
	r.setInt(program, "sizeY", int32(sp.Rows))
	r.setInt(program, "index", int32(sp.Index))
	r.setInt(program, "tex", unitDiffuse)
	bindTexture(unitDiffuse, gl.TEXTURE_2D, sp.Texture.ID())
	r.setFog(program, s, f)

	drawMesh(s.Assets.Quad)
	gl.UseProgram(0)
}

// Pick reads the stencil value under a framebuffer pixel. y grows downwards
// as in window coordinates.
func (r *OpenGLRenderer) Pick(x, y int) uint8 {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return scene.PickNone
	}
	var id uint8
	gl.ReadPixels(int32(x), int32(r.height-1-y), 1, 1, gl.STENCIL_INDEX, gl.UNSIGNED_BYTE, gl.Ptr(&id))
	return id
}
