package scene

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"farm/internal/logger"
	"farm/internal/math/noise"
	"farm/pkg/collision"
	"farm/pkg/config"
	"farm/pkg/mesh"
	"farm/pkg/resource"
	"farm/pkg/scenedata"
)

const (
	campfireModelName = "campfire.obj"
	defaultShininess  = 32
	flickerSeed       = 1337
)

// Controller owns the SceneState and every resource behind it
type Controller struct {
	cfg     *config.Config
	log     *logger.Logger
	backend Backend

	state     SceneState
	resources *resource.Set

	held         map[Action]int
	yaw, pitch   float32
	cursorLocked bool
	quit         bool
	elapsed      float64 // milliseconds since start
	noise        *noise.Generator
}

// NewController creates an unloaded controller
func NewController(cfg *config.Config, log *logger.Logger, backend Backend) *Controller {
	return &Controller{
		cfg:       cfg,
		log:       log,
		backend:   backend,
		state:     newSceneState(cfg),
		resources: resource.NewSet(),
		held:      make(map[Action]int),
		yaw:       -90,
		noise:     noise.NewGenerator(flickerSeed),
	}
}

// State returns the scene for drawing. It must not be kept across a reload.
func (c *Controller) State() *SceneState {
	return &c.state
}

// Loaded reports whether a scene is loaded
func (c *Controller) Loaded() bool {
	return c.state.Loaded
}

// QuitRequested reports whether the quit action was triggered
func (c *Controller) QuitRequested() bool {
	return c.quit
}

// CursorLocked reports whether mouse motion should turn the walk camera
func (c *Controller) CursorLocked() bool {
	return c.cursorLocked
}

// Resources returns the number of live resource handles
func (c *Controller) Resources() int {
	return c.resources.Len()
}

// Load reads the scene data file and creates every resource the scene
// needs. On failure everything created so far is released and the
// controller stays unloaded.
func (c *Controller) Load() (err error) {
	if c.state.Loaded {
		c.Unload()
	}

	set := resource.NewSet()
	defer func() {
		if err != nil {
			set.Release()
			c.log.Errorf("loading failed: %v", err)
		}
	}()

	c.log.Info("loading shaders and built-in textures")
	assets, err := c.loadAssets(set)
	if err != nil {
		return err
	}

	c.log.Infof("reading data from file %s", c.cfg.Scene.DataFile)
	desc, err := scenedata.Load(c.cfg.Resolve(c.cfg.Scene.DataFile))
	if err != nil {
		return err
	}

	c.log.Info("loading diffuse textures")
	diffuse, err := c.loadTextures(set, desc.DiffuseTextures)
	if err != nil {
		return fmt.Errorf("failed load %s: %w", scenedata.SectionDiffuse, err)
	}

	c.log.Info("loading specular textures")
	specular, err := c.loadTextures(set, desc.SpecularTextures)
	if err != nil {
		return fmt.Errorf("failed load %s: %w", scenedata.SectionSpecular, err)
	}

	c.log.Info("loading models")
	models, err := c.loadModels(set, desc.Models, diffuse, specular, &assets)
	if err != nil {
		return fmt.Errorf("failed load %s: %w", scenedata.SectionModels, err)
	}

	c.log.Info("loading objects")
	objects := make([]Object, 0, len(desc.Objects))
	for _, p := range desc.Objects {
		objects = append(objects, Object{Model: models[p.Model], Transform: PlacementMatrix(p)})
	}

	creature, err := c.loadCreature(set, &assets)
	if err != nil {
		return fmt.Errorf("failed load animated object: %w", err)
	}

	// commit
	c.state.Assets = assets
	c.state.DiffuseTextures = diffuse
	c.state.SpecularTextures = specular
	c.state.Models = models
	c.state.Objects = objects
	c.state.Creature.Model = creature
	c.placeCampfire(desc)
	c.resources = set
	c.state.Loaded = true

	c.log.Infof("scene loaded: %d models, %d objects, %d resources", len(models), len(objects), set.Len())
	return nil
}

// Unload releases every resource of the loaded scene
func (c *Controller) Unload() {
	released := c.resources.Len()
	c.resources.Release()
	c.resources = resource.NewSet()

	c.state.Loaded = false
	c.state.Assets = Assets{}
	c.state.DiffuseTextures = nil
	c.state.SpecularTextures = nil
	c.state.Models = nil
	c.state.Objects = nil
	c.state.Creature.Model = nil
	c.state.Campfire.Present = false
	c.state.Colliders.Reset()

	if released > 0 {
		c.log.Debugf("released %d resources", released)
	}
}

// Reload drops the current scene and loads the data file again
func (c *Controller) Reload() error {
	c.log.Info("reloading scene")
	c.Unload()
	return c.Load()
}

func (c *Controller) loadAssets(set *resource.Set) (Assets, error) {
	var a Assets

	programs := []struct {
		name string
		dst  **resource.Handle
	}{
		{ProgramObject, &a.ObjectProgram},
		{ProgramSkybox, &a.SkyboxProgram},
		{ProgramSprite, &a.SpriteProgram},
		{ProgramBanner, &a.BannerProgram},
	}
	for _, p := range programs {
		h, err := c.backend.CompileProgram(p.name)
		if err = checkHandle(h, err, "shader "+p.name); err != nil {
			return a, err
		}
		*p.dst = set.Track(h)
	}

	sky, err := c.backend.LoadCubeMap(c.cfg.Resolve(c.cfg.Scene.SkyboxPrefix))
	if err = checkHandle(sky, err, "skybox "+c.cfg.Scene.SkyboxPrefix); err != nil {
		return a, err
	}
	a.Skybox = set.Track(sky)

	textures := []struct {
		path string
		dst  **resource.Handle
	}{
		{c.cfg.Scene.FogTexture, &a.Fog},
		{c.cfg.Scene.UFOTexture, &a.UFO},
		{c.cfg.Scene.FireTexture, &a.Fire},
		{c.cfg.Scene.BannerTexture, &a.Banner},
	}
	for _, t := range textures {
		h, err := c.loadTexture(t.path)
		if err != nil {
			return a, err
		}
		*t.dst = set.Track(h)
	}

	solids := []struct {
		label string
		color color.RGBA
		dst   **resource.Handle
	}{
		{"placeholder diffuse", color.RGBA{255, 255, 255, 255}, &a.White},
		{"placeholder specular", color.RGBA{0, 0, 0, 255}, &a.Black},
	}
	for _, s := range solids {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, s.color)
		h, err := c.backend.NewTexture(s.label, img)
		if err = checkHandle(h, err, s.label); err != nil {
			return a, err
		}
		*s.dst = set.Track(h)
	}

	glyphs, err := c.backend.NewTexture("glyph atlas", GlyphAtlas())
	if err = checkHandle(glyphs, err, "glyph atlas"); err != nil {
		return a, err
	}
	a.Glyphs = set.Track(glyphs)

	if a.Quad, err = c.upload(set, mesh.Quad(1)); err != nil {
		return a, err
	}
	if a.BannerQuad, err = c.upload(set, mesh.Quad(bannerRepeat)); err != nil {
		return a, err
	}

	return a, nil
}

func (c *Controller) loadTexture(path string) (*resource.Handle, error) {
	h, err := c.backend.LoadTexture(c.cfg.Resolve(path))
	if err = checkHandle(h, err, "texture "+path); err != nil {
		return nil, err
	}
	c.log.Debugf("loaded texture %s (%d)", h.Label(), h.ID())
	return h, nil
}

func (c *Controller) loadTextures(set *resource.Set, paths []string) ([]*resource.Handle, error) {
	out := make([]*resource.Handle, 0, len(paths))
	for _, path := range paths {
		h, err := c.loadTexture(path)
		if err != nil {
			return nil, err
		}
		out = append(out, set.Track(h))
	}
	return out, nil
}

func (c *Controller) loadModels(set *resource.Set, descs []scenedata.ModelDesc, diffuse, specular []*resource.Handle, a *Assets) ([]*Model, error) {
	models := make([]*Model, 0, len(descs))
	for i, d := range descs {
		m := &Model{
			Path:      d.Path,
			Diffuse:   pickTexture(diffuse, d.Diffuse, a.White),
			Specular:  pickTexture(specular, d.Specular, a.Black),
			Shininess: defaultShininess,
		}

		var geometry *mesh.Mesh
		name := filepath.Base(d.Path)
		if name == campfireModelName {
			m.Campfire = true
			m.PickID = PickCampfire
			geometry = mesh.Campfire()
		} else {
			c.log.Debugf("loading model %s", d.Path)
			var err error
			if geometry, err = mesh.LoadOBJ(c.cfg.Resolve(d.Path)); err != nil {
				return nil, fmt.Errorf("%w: model %d: %w", ErrResource, i, err)
			}
			m.PickID = pickID(c.cfg.Interactions[name])
		}

		gpu, err := c.upload(set, geometry)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		m.Mesh = gpu
		models = append(models, m)
	}
	return models, nil
}

func (c *Controller) loadCreature(set *resource.Set, a *Assets) (*Model, error) {
	path := c.cfg.Scene.CreatureModel
	if path == "" {
		return nil, nil
	}

	geometry, err := mesh.LoadOBJ(c.cfg.Resolve(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}
	m := &Model{
		Path:      path,
		Diffuse:   a.White,
		Specular:  a.Black,
		Shininess: defaultShininess,
		Morph:     true,
		Glass:     true,
	}
	if p := c.cfg.Scene.CreatureDiffuse; p != "" {
		h, err := c.loadTexture(p)
		if err != nil {
			return nil, err
		}
		m.Diffuse = set.Track(h)
	}
	if p := c.cfg.Scene.CreatureSpecular; p != "" {
		h, err := c.loadTexture(p)
		if err != nil {
			return nil, err
		}
		m.Specular = set.Track(h)
	}
	if m.Mesh, err = c.upload(set, geometry); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Controller) upload(set *resource.Set, m *mesh.Mesh) (*GPUMesh, error) {
	gpu, err := c.backend.UploadMesh(m)
	set.Track(gpu.Handles()...)
	if err != nil {
		return nil, fmt.Errorf("%w: mesh %s: %w", ErrResource, m.Name, err)
	}
	if gpu == nil || gpu.VAO.ID() == 0 {
		return nil, fmt.Errorf("%w: mesh %s: no vertex array", ErrResource, m.Name)
	}
	return gpu, nil
}

// placeCampfire finds the first campfire placement and puts the fire, the
// point light and the campfire collider there
func (c *Controller) placeCampfire(desc *scenedata.Description) {
	c.state.Colliders.Reset()
	c.state.Campfire.Present = false

	for _, p := range desc.Objects {
		if !c.state.Models[p.Model].Campfire {
			continue
		}
		c.state.Campfire.Present = true
		c.state.Campfire.Position = p.Position
		c.state.Lights.Point.Position = p.Position.Add(mgl32.Vec3{0, 1, 0})

		half := c.cfg.Movement.CampfireHalfExtent
		collider := collision.RectAround(mgl32.Vec2{p.Position.X(), p.Position.Z()}, mgl32.Vec2{half, half})
		c.state.Colliders.Add(collider)
		c.log.Debugf("campfire collider centred at %v", collider.Center())
		return
	}
	c.log.Warn("scene has no campfire")
}

func checkHandle(h *resource.Handle, err error, what string) error {
	if err != nil {
		h.Release()
		return fmt.Errorf("%w: %s: %w", ErrResource, what, err)
	}
	if h.ID() == 0 {
		return fmt.Errorf("%w: %s: backend returned no handle", ErrResource, what)
	}
	return nil
}

func pickTexture(textures []*resource.Handle, index int, fallback *resource.Handle) *resource.Handle {
	if index < 0 || index >= len(textures) {
		return fallback
	}
	return textures[index]
}

func pickID(action string) uint8 {
	switch Action(action) {
	case ActionFog:
		return PickFog
	case ActionCreature:
		return PickCreature
	}
	return PickNone
}

// PlacementMatrix is translate * rotate(angle, axis) * scale
func PlacementMatrix(p scenedata.Placement) mgl32.Mat4 {
	m := mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	if axis := p.Rotation.Vec3(); axis.Len() > 0 && p.Rotation.W() != 0 {
		m = m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(p.Rotation.W()), axis.Normalize()))
	}
	return m.Mul4(mgl32.Scale3D(p.Scale.X(), p.Scale.Y(), p.Scale.Z()))
}
