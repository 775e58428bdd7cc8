package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"farm/internal/util"
)

const (
	maxPitch = 89.0

	fireFrames        = 12
	fireFrameSeconds  = 0.05
	fireSheetCols     = 4
	fireSheetRows     = 4
	pointFlicker      = 0.15
	bannerTimeout     = 3.0
	bannerRepeat      = 4.0
	creatureRadius    = 0.75
	creaturePauseStep = 0.03
	creatureScale     = 0.125
)

var (
	creatureCenter     = mgl32.Vec3{-4.48, 0.5, -13}
	followOffset       = mgl32.Vec3{0, 0.5, 0}
	bannerTargetScale  = mgl32.Vec3{3, 1, 1}
	bannerTargetOffset = mgl32.Vec3{-1, -4, 0}
)

// Look turns the walk camera by a mouse delta in pixels
func (c *Controller) Look(dx, dy float32) {
	if c.state.ActiveCamera != CameraWalk {
		return
	}
	sens := c.cfg.Movement.MouseSensitivity
	c.yaw += dx * sens
	c.pitch = util.Clamp(c.pitch-dy*sens, -maxPitch, maxPitch)

	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)

	c.state.MoveDirection = mgl32.Vec3{util.Cos32(yaw), 0, util.Sin32(yaw)}.Normalize()
	dir := mgl32.Vec3{
		util.Cos32(yaw) * util.Cos32(pitch),
		util.Sin32(pitch),
		util.Sin32(yaw) * util.Cos32(pitch),
	}.Normalize()

	c.state.Cameras[CameraWalk].Direction = dir
	c.state.Lights.Spot.Direction = dir
}

// Pitch returns the walk camera pitch in degrees
func (c *Controller) Pitch() float32 {
	return c.pitch
}

// Tick runs one fixed movement step: the walk camera moves along the held
// directions and is clamped against the walk bounds and obstacles
func (c *Controller) Tick() {
	walk := &c.state.Cameras[CameraWalk]
	speed := c.cfg.Movement.Speed
	dir := c.state.MoveDirection

	next := walk.Position
	if c.Held(ActionForward) {
		next = next.Add(dir.Mul(speed))
	}
	if c.Held(ActionBack) {
		next = next.Sub(dir.Mul(speed))
	}
	if side := dir.Cross(up); side.Len() > 0 {
		side = side.Normalize().Mul(speed)
		if c.Held(ActionRight) {
			next = next.Add(side)
		}
		if c.Held(ActionLeft) {
			next = next.Sub(side)
		}
	}

	old := mgl32.Vec2{walk.Position.X(), walk.Position.Z()}
	got := c.state.Colliders.Resolve(old, mgl32.Vec2{next.X(), next.Z()})
	walk.Position = mgl32.Vec3{got.X(), walk.Position.Y(), got.Y()}
	c.state.Lights.Spot.Position = walk.Position

	creature := c.state.Creature
	follow := &c.state.Cameras[CameraFollow]
	follow.Position = creature.Position.Sub(creature.Direction).Add(followOffset)
	if d := creature.Position.Sub(follow.Position); d.Len() > 0 {
		follow.Direction = d.Normalize()
	}
}

// Advance moves the frame-rate driven animations forward by dt seconds
func (c *Controller) Advance(dt float32) {
	c.elapsed += float64(dt) * 1000
	s := &c.state

	// day and night
	cos := float32(math.Cos(c.elapsed / c.cfg.Lighting.DayPeriodMillis))
	s.Night = (cos + 1) / 2
	s.Lights.Direct.Intensity = (1 - cos) / 2

	// fire
	fire := &s.Campfire
	if fire.Burning {
		fire.timer += dt
		if fire.timer >= fireFrameSeconds {
			fire.Frame = util.Wrap(fire.Frame+1, fireFrames)
			fire.timer = 0
		}
		s.Lights.Point.Intensity = float32(c.noise.Flicker(c.elapsed/1000, 1, pointFlicker))
	} else {
		s.Lights.Point.Intensity = 0
	}

	// banner
	s.Banner.Timer += dt
	if s.Banner.Timer >= bannerTimeout {
		s.Banner.Timer = 0
	}

	c.advanceCreature(dt)
}

func (c *Controller) advanceCreature(dt float32) {
	cr := &c.state.Creature
	cr.MorphTime += dt

	t := cr.Time + creaturePauseStep
	if cr.Enabled {
		t = cr.Time + dt
		cr.Time = t
	}

	next := creatureCenter.Add(mgl32.Vec3{
		util.Cos32(t) * creatureRadius,
		0,
		util.Sin32(t) * util.Cos32(t) / 2,
	})
	dir := cr.Direction
	if d := next.Sub(cr.Position); d.Len() > 1e-6 {
		dir = d.Normalize()
	}

	cr.Transform = Billboard(dir.Mul(-1), cr.Position, mgl32.Vec3{creatureScale, creatureScale, creatureScale})
	if cr.Enabled {
		cr.Position = next
		cr.Direction = dir
	}
}

// Morph returns the creature's vertex morph factor
func (cr Creature) Morph() float32 {
	return util.Cos32(cr.MorphTime)/2 + 1
}

// Billboard returns a model matrix that turns the quad or model to face
// along direction, then scales and moves it
func Billboard(direction, position, scale mgl32.Vec3) mgl32.Mat4 {
	rot := mgl32.Ident4()
	if horizontal := (mgl32.Vec2{direction.X(), direction.Z()}); horizontal.Len() > 1e-6 {
		view := mgl32.LookAtV(mgl32.Vec3{}, direction, up)
		rot = mgl32.Mat4FromCols(view.Col(0), view.Col(1), view.Col(2), mgl32.Vec4{0, 0, 0, 1}).Transpose()
	}
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())).
		Mul4(rot)
}

// BannerTexMatrix scrolls and stretches the banner texture over its cycle
func (s *SceneState) BannerTexMatrix() mgl32.Mat4 {
	t := s.Banner.Timer / bannerTimeout
	offset := util.MixVec3(mgl32.Vec3{}, bannerTargetOffset, t)
	scale := util.MixVec3(mgl32.Vec3{1, 1, 1}, bannerTargetScale, t)
	return mgl32.Translate3D(offset.X(), offset.Y(), offset.Z()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// CampfireGain is the crackle volume heard from the walk camera
func (s *SceneState) CampfireGain(volume float64) float64 {
	if !s.Loaded || !s.Campfire.Present || !s.Campfire.Burning {
		return 0
	}
	d := float64(s.Walk().Position.Sub(s.Campfire.Position).Len())
	return volume / (1 + d*d*0.05)
}
