package scene

import (
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"farm/internal/logger"
	"farm/pkg/collision"
	"farm/pkg/config"
	"farm/pkg/mesh"
	"farm/pkg/resource"
	"farm/pkg/scenedata"
)

// fakeBackend hands out numbered handles and counts releases per id
type fakeBackend struct {
	next        uint32
	created     int
	released    map[uint32]int
	failTexture string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{released: make(map[uint32]int)}
}

func (f *fakeBackend) handle(kind resource.Kind, label string) *resource.Handle {
	f.next++
	f.created++
	return resource.New(kind, f.next, label, func(id uint32) { f.released[id]++ })
}

func (f *fakeBackend) CompileProgram(name string) (*resource.Handle, error) {
	return f.handle(resource.KindProgram, name), nil
}

func (f *fakeBackend) LoadTexture(path string) (*resource.Handle, error) {
	if f.failTexture != "" && strings.Contains(path, f.failTexture) {
		return nil, errors.New("cannot decode")
	}
	return f.handle(resource.KindTexture, path), nil
}

func (f *fakeBackend) NewTexture(label string, img image.Image) (*resource.Handle, error) {
	return f.handle(resource.KindTexture, label), nil
}

func (f *fakeBackend) LoadCubeMap(prefix string) (*resource.Handle, error) {
	return f.handle(resource.KindTexture, prefix), nil
}

func (f *fakeBackend) UploadMesh(m *mesh.Mesh) (*GPUMesh, error) {
	return &GPUMesh{
		Name:       m.Name,
		VAO:        f.handle(resource.KindVertexArray, m.Name),
		Buffers:    []*resource.Handle{f.handle(resource.KindBuffer, m.Name), f.handle(resource.KindBuffer, m.Name)},
		IndexCount: int32(len(m.Indices)),
	}, nil
}

// totalReleases checks that no id was released twice and returns the count
func (f *fakeBackend) totalReleases(t *testing.T) int {
	t.Helper()
	total := 0
	for id, n := range f.released {
		if n != 1 {
			t.Errorf("handle %d released %d times", id, n)
		}
		total += n
	}
	return total
}

const campfireScene = `0
0
3
Resources/Models/campfire.obj
-1
-1
4
0
0 0 0
0 1 0 0
1 1 1
`

const panelOBJ = "v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1 2 3\n"

func newTestController(t *testing.T, data string) (*Controller, *fakeBackend) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ModelsData.txt"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shed.obj"), []byte(panelOBJ), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Scene.ResourceDir = dir
	cfg.Scene.CreatureModel = ""

	backend := newFakeBackend()
	return NewController(cfg, logger.NewWithWriter("debug", io.Discard), backend), backend
}

func TestLoadCampfireScene(t *testing.T) {
	c, _ := newTestController(t, campfireScene)
	if err := c.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	s := c.State()
	if !s.Loaded {
		t.Fatal("scene not loaded")
	}
	if len(s.Models) != 1 || !s.Models[0].Campfire || s.Models[0].PickID != PickCampfire {
		t.Errorf("models = %+v", s.Models)
	}
	if s.Models[0].Diffuse != s.Assets.White || s.Models[0].Specular != s.Assets.Black {
		t.Error("campfire without textures should use the placeholders")
	}
	if len(s.Objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(s.Objects))
	}

	obstacles := s.Colliders.Obstacles
	if len(obstacles) != 1 {
		t.Fatalf("colliders = %d, want 1", len(obstacles))
	}
	want := collision.RectAround(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1})
	if obstacles[0] != want {
		t.Errorf("collider = %+v, want %+v", obstacles[0], want)
	}
	if !s.Campfire.Present || s.Lights.Point.Position != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("campfire = %+v, point light at %v", s.Campfire, s.Lights.Point.Position)
	}
}

func TestReloadReleasesEveryHandleOnce(t *testing.T) {
	data := strings.Replace(campfireScene, "3\nResources", "6\nshed.obj\n-1\n-1\nResources", 1)
	c, backend := newTestController(t, data)
	if err := c.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	first := backend.created
	if c.Resources() != first {
		t.Errorf("tracked %d resources, created %d", c.Resources(), first)
	}

	if err := c.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if got := backend.totalReleases(t); got != first {
		t.Errorf("reload released %d handles, want %d", got, first)
	}
	for id := uint32(1); id <= uint32(first); id++ {
		if backend.released[id] != 1 {
			t.Errorf("handle %d from the first load released %d times", id, backend.released[id])
		}
	}
	if backend.created != 2*first {
		t.Errorf("second load created %d handles, want %d", backend.created-first, first)
	}

	c.Unload()
	c.Unload()
	if got := backend.totalReleases(t); got != backend.created {
		t.Errorf("released %d of %d handles after unload", got, backend.created)
	}
	if c.Loaded() || len(c.State().Colliders.Obstacles) != 0 {
		t.Error("unload left scene data behind")
	}
}

func TestFailedLoadRollsBack(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		failTexture string
		want        error
	}{
		{"bad object line", strings.Replace(campfireScene, "0 1 0 0", "0 1 0", 1), "", scenedata.ErrParse},
		{"missing model file", strings.Replace(campfireScene, "Resources/Models/campfire.obj", "barn.obj", 1), "", ErrResource},
		{"texture decode", "1\ngrass.png\n" + campfireScene[2:], "grass", ErrResource},
		{"built-in texture", campfireScene, "fog.png", ErrResource},
	}

	for _, tt := range tests {
		c, backend := newTestController(t, tt.data)
		backend.failTexture = tt.failTexture

		err := c.Load()
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: Load error = %v, want %v", tt.name, err, tt.want)
		}
		if c.Loaded() {
			t.Errorf("%s: controller loaded after failure", tt.name)
		}
		if got := backend.totalReleases(t); got != backend.created {
			t.Errorf("%s: released %d of %d handles", tt.name, got, backend.created)
		}
	}
}

func TestMissingDataFile(t *testing.T) {
	c, backend := newTestController(t, campfireScene)
	c.cfg.Scene.DataFile = "nope.txt"

	if err := c.Load(); !errors.Is(err, scenedata.ErrIO) {
		t.Errorf("Load error = %v, want ErrIO", err)
	}
	if got := backend.totalReleases(t); got != backend.created {
		t.Errorf("released %d of %d handles", got, backend.created)
	}
}

func TestInteractionsAssignPickIDs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tractor.obj", "trough.obj", "shed.obj"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(panelOBJ), 0644); err != nil {
			t.Fatal(err)
		}
	}
	data := "0\n0\n9\ntractor.obj\n-1\n-1\ntrough.obj\n-1\n-1\nshed.obj\n-1\n-1\n0\n"
	if err := os.WriteFile(filepath.Join(dir, "ModelsData.txt"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Scene.ResourceDir = dir
	cfg.Scene.CreatureModel = ""
	c := NewController(cfg, logger.NewWithWriter("error", io.Discard), newFakeBackend())
	if err := c.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := []uint8{PickFog, PickCreature, PickNone}
	for i, m := range c.State().Models {
		if m.PickID != want[i] {
			t.Errorf("model %s pick id = %d, want %d", m.Path, m.PickID, want[i])
		}
	}
	if c.State().Campfire.Present {
		t.Error("scene without campfire reports one")
	}
}

func TestCreatureLoad(t *testing.T) {
	c, _ := newTestController(t, campfireScene)
	c.cfg.Scene.CreatureModel = "shed.obj"

	if err := c.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cr := c.State().Creature.Model
	if cr == nil || !cr.Morph || !cr.Glass {
		t.Fatalf("creature model = %+v", cr)
	}
	if cr.Diffuse == c.State().Assets.White {
		t.Error("creature diffuse texture not loaded")
	}
}

func TestPlacementMatrix(t *testing.T) {
	p := scenedata.Placement{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.Vec4{0, 1, 0, 90},
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, PlacementMatrix(p))
	if want := (mgl32.Vec3{1, 2, 1}); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("PlacementMatrix moves (1,0,0) to %v, want %v", got, want)
	}

	// zero axis means no rotation
	p.Rotation = mgl32.Vec4{0, 0, 0, 45}
	got = mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, PlacementMatrix(p))
	if want := (mgl32.Vec3{3, 2, 3}); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("PlacementMatrix moves (1,0,0) to %v, want %v", got, want)
	}
}
