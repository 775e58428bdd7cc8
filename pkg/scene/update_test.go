package scene

import (
	"io"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"farm/internal/logger"
	"farm/pkg/collision"
	"farm/pkg/config"
)

func newIdleController() *Controller {
	cfg := config.DefaultConfig()
	return NewController(cfg, logger.NewWithWriter("error", io.Discard), newFakeBackend())
}

func TestFireCyclesTwelveFrames(t *testing.T) {
	c := newIdleController()
	s := c.State()

	seen := map[int]bool{}
	for i := 0; i < 30; i++ {
		c.Advance(0.05)
		seen[s.Campfire.Frame] = true
		if s.Campfire.Frame < 0 || s.Campfire.Frame >= fireFrames {
			t.Fatalf("frame %d out of range", s.Campfire.Frame)
		}
	}
	if len(seen) != fireFrames {
		t.Errorf("saw %d distinct frames, want %d", len(seen), fireFrames)
	}

	c.Pick(PickCampfire)
	frame := s.Campfire.Frame
	c.Advance(0.05)
	if s.Campfire.Frame != frame || s.Lights.Point.Intensity != 0 {
		t.Errorf("extinguished fire still animates: frame %d->%d, light %v", frame, s.Campfire.Frame, s.Lights.Point.Intensity)
	}
}

func TestFireFrameNeedsFullTimeout(t *testing.T) {
	c := newIdleController()
	c.Advance(0.02)
	c.Advance(0.02)
	if f := c.State().Campfire.Frame; f != 0 {
		t.Errorf("frame after 0.04s = %d, want 0", f)
	}
	c.Advance(0.02)
	if f := c.State().Campfire.Frame; f != 1 {
		t.Errorf("frame after 0.06s = %d, want 1", f)
	}
}

func TestBannerTimerWraps(t *testing.T) {
	c := newIdleController()
	for i := 0; i < 5; i++ {
		c.Advance(0.5)
	}
	if got := c.State().Banner.Timer; math.Abs(float64(got-2.5)) > 1e-5 {
		t.Errorf("timer = %v, want 2.5", got)
	}
	c.Advance(0.5)
	if got := c.State().Banner.Timer; got != 0 {
		t.Errorf("timer = %v after 3s, want 0", got)
	}
	if m := c.State().BannerTexMatrix(); m != mgl32.Ident4() {
		t.Errorf("banner texture matrix at start = %v, want identity", m)
	}
}

func TestDayNight(t *testing.T) {
	c := newIdleController()
	c.Advance(0)
	s := c.State()
	if s.Night != 1 || s.Lights.Direct.Intensity != 0 {
		t.Errorf("at start night = %v sun = %v, want 1 and 0", s.Night, s.Lights.Direct.Intensity)
	}

	// half a period later it is noon
	c.Advance(float32(math.Pi * 10))
	if s.Night > 1e-3 || s.Lights.Direct.Intensity < 0.999 {
		t.Errorf("at noon night = %v sun = %v", s.Night, s.Lights.Direct.Intensity)
	}
}

func TestLookClampsPitch(t *testing.T) {
	c := newIdleController()

	c.Look(0, -10000)
	if c.Pitch() != maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch(), maxPitch)
	}
	c.Look(0, 10000)
	if c.Pitch() != -maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch(), -maxPitch)
	}

	s := c.State()
	// cos(-90°) is not exactly zero in float32
	want := mgl32.Vec3{0, 0, -1}
	d := s.MoveDirection
	for i := 0; i < 3; i++ {
		if math.Abs(float64(d[i]-want[i])) > 1e-5 {
			t.Errorf("move direction = %v, want horizontal %v", d, want)
			break
		}
	}
	if d.Y() != 0 {
		t.Errorf("move direction %v is not horizontal", d)
	}
	if s.Lights.Spot.Direction != s.Walk().Direction {
		t.Error("flashlight does not follow the walk camera")
	}
}

func TestLookIgnoredOnFixedCamera(t *testing.T) {
	c := newIdleController()
	c.Press(ActionCameraChord)
	c.Press(ActionSelect2)

	before := c.State().Walk().Direction
	c.Look(100, 0)
	if c.State().Walk().Direction != before {
		t.Error("walk camera turned while a fixed camera is active")
	}
}

func TestTickMovesAndClamps(t *testing.T) {
	c := newIdleController()
	s := c.State()

	c.Press(ActionForward)
	c.Tick()
	if got := s.Walk().Position; !got.ApproxEqualThreshold(mgl32.Vec3{0, 1.5, 2.7}, 1e-5) {
		t.Errorf("after one tick position = %v, want (0,1.5,2.7)", got)
	}
	c.Release(ActionForward)

	c.Press(ActionRight)
	for i := 0; i < 100; i++ {
		c.Tick()
	}
	if got := s.Walk().Position.X(); got != 4.75 {
		t.Errorf("x = %v, want the bound 4.75", got)
	}
	if s.Lights.Spot.Position != s.Walk().Position {
		t.Error("flashlight does not follow the walk camera")
	}
}

func TestTickSlidesAlongCampfire(t *testing.T) {
	c := newIdleController()
	s := c.State()
	s.Colliders.Add(collision.RectAround(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}))
	s.Cameras[CameraWalk].Position = mgl32.Vec3{0, 1.5, 1.2}

	c.Press(ActionForward)
	c.Tick()
	if got := s.Walk().Position; got != (mgl32.Vec3{0, 1.5, 1.2}) {
		t.Errorf("walked into the campfire: %v", got)
	}
}

func TestChords(t *testing.T) {
	tests := []struct {
		name    string
		keys    []Action
		camera  int
		polygon PolygonMode
	}{
		{"digit alone", []Action{ActionSelect3}, CameraWalk, PolygonFill},
		{"camera 3", []Action{ActionCameraChord, ActionSelect3}, CameraFixed2, PolygonFill},
		{"camera 4", []Action{ActionCameraChord, ActionSelect4}, CameraFollow, PolygonFill},
		{"line mode", []Action{ActionPolygonChord, ActionSelect2}, CameraWalk, PolygonLine},
		{"no fourth polygon mode", []Action{ActionPolygonChord, ActionSelect4}, CameraWalk, PolygonFill},
		{"both chords", []Action{ActionPolygonChord, ActionCameraChord, ActionSelect3}, CameraFixed2, PolygonPoint},
	}

	for _, tt := range tests {
		c := newIdleController()
		for _, a := range tt.keys {
			c.Press(a)
		}
		s := c.State()
		if s.ActiveCamera != tt.camera || s.PolygonMode != tt.polygon {
			t.Errorf("%s: camera %d polygon %d, want %d and %d", tt.name, s.ActiveCamera, s.PolygonMode, tt.camera, tt.polygon)
		}
	}
}

func TestChordReleased(t *testing.T) {
	c := newIdleController()
	c.Press(ActionCameraChord)
	c.Release(ActionCameraChord)
	c.Press(ActionSelect2)
	if c.State().ActiveCamera != CameraWalk {
		t.Errorf("camera = %d after releasing the chord, want walk", c.State().ActiveCamera)
	}
}

func TestToggles(t *testing.T) {
	c := newIdleController()
	s := c.State()

	c.Press(ActionFog)
	c.Pick(PickFog)
	if s.Fog {
		t.Error("fog toggled twice should be off")
	}

	c.Press(ActionCursorLock)
	if !c.CursorLocked() {
		t.Error("cursor not locked")
	}

	c.Pick(PickCreature)
	if s.Creature.Enabled {
		t.Error("creature still walking")
	}

	c.Press(ActionQuit)
	if !c.QuitRequested() {
		t.Error("quit not requested")
	}
}

func TestFlashlightWraps(t *testing.T) {
	c := newIdleController()
	for i := 0; i < 10; i++ {
		c.Press(ActionFlashlight)
	}
	if got := c.State().Lights.Spot.Intensity; got != 10 {
		t.Errorf("intensity = %v, want 10", got)
	}
	c.Press(ActionFlashlight)
	if got := c.State().Lights.Spot.Intensity; got != 0 {
		t.Errorf("intensity = %v after wrapping, want 0", got)
	}
}

func TestCreaturePauses(t *testing.T) {
	c := newIdleController()
	s := c.State()
	c.Advance(0.1)
	c.Advance(0.1)
	moving := s.Creature.Position

	c.Pick(PickCreature)
	c.Advance(0.1)
	if s.Creature.Position != moving {
		t.Errorf("paused creature moved from %v to %v", moving, s.Creature.Position)
	}

	c.Pick(PickCreature)
	c.Advance(0.1)
	if s.Creature.Position == moving {
		t.Error("creature did not resume")
	}
	if d := s.Creature.Position.Sub(creatureCenter); d.Len() > creatureRadius+1e-4 {
		t.Errorf("creature left its path: offset %v", d)
	}
}

func TestFollowCamera(t *testing.T) {
	c := newIdleController()
	c.Advance(0.1)
	c.Advance(0.1)
	c.Tick()

	s := c.State()
	follow := s.Cameras[CameraFollow]
	want := s.Creature.Position.Sub(s.Creature.Direction).Add(mgl32.Vec3{0, 0.5, 0})
	if !follow.Position.ApproxEqual(want) {
		t.Errorf("follow camera at %v, want %v", follow.Position, want)
	}
	if l := follow.Direction.Len(); math.Abs(float64(l-1)) > 1e-4 {
		t.Errorf("follow direction length = %v", l)
	}
}

func TestBillboardFacesDirection(t *testing.T) {
	m := Billboard(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 1, 1})
	// the quad normal (+Z) turns towards the opposite of the view direction
	n := m.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	if !n.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Errorf("billboard normal = %v, want (-1,0,0)", n)
	}
	if p := mgl32.TransformCoordinate(mgl32.Vec3{}, m); p != (mgl32.Vec3{5, 0, 0}) {
		t.Errorf("billboard origin = %v, want (5,0,0)", p)
	}

	// straight up has no horizontal heading and keeps the identity rotation
	m = Billboard(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	if m != mgl32.Ident4() {
		t.Errorf("vertical billboard = %v, want identity", m)
	}
}

func TestCampfireGain(t *testing.T) {
	c := newIdleController()
	s := c.State()
	if g := s.CampfireGain(1); g != 0 {
		t.Errorf("gain without a scene = %v, want 0", g)
	}

	s.Loaded = true
	s.Campfire.Present = true
	s.Campfire.Position = mgl32.Vec3{0, 1.5, 3}
	if g := s.CampfireGain(0.6); math.Abs(g-0.6) > 1e-6 {
		t.Errorf("gain at the fire = %v, want 0.6", g)
	}

	s.Campfire.Position = mgl32.Vec3{0, 1.5, -7}
	if g := s.CampfireGain(0.6); math.Abs(g-0.1) > 1e-6 {
		t.Errorf("gain 10 units away = %v, want 0.1", g)
	}

	s.Campfire.Burning = false
	if g := s.CampfireGain(0.6); g != 0 {
		t.Errorf("gain of a dead fire = %v, want 0", g)
	}
}

func TestHeldCountsKeys(t *testing.T) {
	c := newIdleController()
	c.Press(ActionForward)
	c.Press(ActionForward)
	c.Release(ActionForward)
	if !c.Held(ActionForward) {
		t.Fatal("forward released while a second key is still down")
	}
	c.Tick()
	if got := c.State().Walk().Position.Z(); got >= 3 {
		t.Errorf("z = %v, walk camera did not move", got)
	}

	c.Release(ActionForward)
	if c.Held(ActionForward) {
		t.Error("forward held after both keys were released")
	}
	// stray releases do not go negative
	c.Release(ActionForward)
	c.Press(ActionForward)
	if !c.Held(ActionForward) {
		t.Error("forward not held after a fresh press")
	}
}

func TestIsChord(t *testing.T) {
	for _, a := range []Action{ActionCameraChord, ActionPolygonChord} {
		if !a.IsChord() {
			t.Errorf("%s is not a chord", a)
		}
	}
	if ActionSelect1.IsChord() || ActionForward.IsChord() {
		t.Error("plain action reported as chord")
	}
}
