package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"farm/pkg/collision"
	"farm/pkg/config"
	"farm/pkg/resource"
)

// Camera indices, in the order of the camera chord digits
const (
	CameraWalk = iota
	CameraFixed1
	CameraFixed2
	CameraFollow
	CameraCount
)

// Stencil ids of pickable models
const (
	PickNone     uint8 = 0
	PickCampfire uint8 = 1
	PickFog      uint8 = 2
	PickCreature uint8 = 3
)

// PolygonMode selects how triangles are rasterized
type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
	PolygonPoint
)

var up = mgl32.Vec3{0, 1, 0}

// Camera is a position and a viewing direction
type Camera struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Up        mgl32.Vec3
}

// View returns the look-at matrix of the camera
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Direction), c.Up)
}

// DirectLight is the sun
type DirectLight struct {
	Ambient, Diffuse, Specular mgl32.Vec3
	Direction                  mgl32.Vec3
	Intensity                  float32
}

// PointLight is an attenuated omnidirectional light
type PointLight struct {
	Ambient, Diffuse, Specular mgl32.Vec3
	Position                   mgl32.Vec3
	Linear, Quadratic          float32
	Intensity                  float32
}

// SpotLight is a point light limited to a cone
type SpotLight struct {
	PointLight
	Direction mgl32.Vec3
	CutOff    float32 // degrees
}

// Lights groups the three scene lights
type Lights struct {
	Direct DirectLight
	Point  PointLight
	Spot   SpotLight
}

// Assets are the built-in resources every scene uses
type Assets struct {
	ObjectProgram *resource.Handle
	SkyboxProgram *resource.Handle
	SpriteProgram *resource.Handle
	BannerProgram *resource.Handle

	Skybox *resource.Handle
	Fog    *resource.Handle
	UFO    *resource.Handle
	Fire   *resource.Handle
	Banner *resource.Handle
	Glyphs *resource.Handle

	// placeholders for models without a texture
	White *resource.Handle
	Black *resource.Handle

	Quad       *GPUMesh
	BannerQuad *GPUMesh
}

// Model is an uploaded mesh with its material
type Model struct {
	Path      string
	Mesh      *GPUMesh
	Diffuse   *resource.Handle
	Specular  *resource.Handle
	Shininess float32
	PickID    uint8
	Campfire  bool

	// vertex morph and transparency, used by the creature
	Morph bool
	Glass bool
}

// Object is a placed model instance
type Object struct {
	Model     *Model
	Transform mgl32.Mat4
}

// Campfire tracks the fire burning on the campfire placement
type Campfire struct {
	Present  bool
	Position mgl32.Vec3
	Burning  bool
	Frame    int
	timer    float32
}

// Banner is the scrolling billboard next to the UFO
type Banner struct {
	Timer float32
}

// Creature walks a figure-eight path near the trough
type Creature struct {
	Model     *Model
	Enabled   bool
	Time      float32
	MorphTime float32
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Transform mgl32.Mat4
}

// SceneState is everything the renderer reads
type SceneState struct {
	Loaded bool
	Assets Assets

	DiffuseTextures  []*resource.Handle
	SpecularTextures []*resource.Handle
	Models           []*Model
	Objects          []Object

	Campfire Campfire
	Banner   Banner
	Creature Creature

	Cameras       [CameraCount]Camera
	ActiveCamera  int
	MoveDirection mgl32.Vec3

	Lights      Lights
	Fog         bool
	Night       float32
	PolygonMode PolygonMode
	Message     string

	Colliders *collision.Resolver
}

// Camera returns the active camera
func (s *SceneState) Camera() Camera {
	return s.Cameras[s.ActiveCamera]
}

// Walk returns the first-person camera
func (s *SceneState) Walk() Camera {
	return s.Cameras[CameraWalk]
}

func newSceneState(cfg *config.Config) SceneState {
	b := cfg.Movement.Bounds
	bounds := collision.NewRect(mgl32.Vec2{b.MinX, b.MaxZ}, mgl32.Vec2{b.MaxX, b.MinZ})

	s := SceneState{
		Fog:           cfg.Lighting.Fog,
		Message:       cfg.Scene.Message,
		MoveDirection: mgl32.Vec3{0, 0, -1},
		Colliders:     collision.NewResolver(bounds),
		Campfire:      Campfire{Burning: true},
		Creature: Creature{
			Enabled:   true,
			Position:  creatureCenter,
			Direction: mgl32.Vec3{1, 0, 0},
			Transform: mgl32.Ident4(),
		},
	}

	s.Cameras[CameraWalk] = Camera{Position: mgl32.Vec3{0, 1.5, 3}, Direction: mgl32.Vec3{0, 0, -1}, Up: up}
	s.Cameras[CameraFixed1] = Camera{Position: mgl32.Vec3{-9.59, 1.5, 8.9}, Direction: mgl32.Vec3{0.75023, -0.163326, 0.640687}, Up: up}
	s.Cameras[CameraFixed2] = Camera{Position: mgl32.Vec3{-15.64, 1.5, 7.86}, Direction: mgl32.Vec3{0.408345, -0.228351, -0.883804}, Up: up}
	s.Cameras[CameraFollow] = Camera{Position: creatureCenter, Direction: mgl32.Vec3{0, 0, -1}, Up: up}

	s.Lights = Lights{
		Direct: DirectLight{
			Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
			Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
			Specular:  mgl32.Vec3{1, 1, 1},
			Direction: mgl32.Vec3{-0.5, -1, 1},
			Intensity: 1,
		},
		Point: PointLight{
			Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
			Diffuse:   mgl32.Vec3{0.8, 0.4, 0},
			Specular:  mgl32.Vec3{1, 1, 1},
			Linear:    0.045,
			Quadratic: 0.0075,
		},
		Spot: SpotLight{
			PointLight: PointLight{
				Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
				Diffuse:   mgl32.Vec3{0.5, 0.5, 0.5},
				Specular:  mgl32.Vec3{1, 1, 1},
				Linear:    0.045,
				Quadratic: 0.0075,
			},
			CutOff: 20,
		},
	}
	s.Lights.Spot.Position = s.Cameras[CameraWalk].Position
	s.Lights.Spot.Direction = s.Cameras[CameraWalk].Direction

	return s
}
