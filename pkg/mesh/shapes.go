package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quad is a 2x2 square on the XY plane facing +Z. vRepeat scales the V
// texture coordinate; the banner uses it to scroll its texture.
func Quad(vRepeat float32) *Mesh {
	n := mgl32.Vec3{0, 0, 1}
	return &Mesh{
		Name: "quad",
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-1, -1, 0}, Normal: n, UV: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{1, -1, 0}, Normal: n, UV: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{1, 1, 0}, Normal: n, UV: mgl32.Vec2{1, vRepeat}},
			{Position: mgl32.Vec3{-1, 1, 0}, Normal: n, UV: mgl32.Vec2{0, vRepeat}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Box is an axis-aligned box centered on the origin with per-face normals
func Box(size mgl32.Vec3) *Mesh {
	h := size.Mul(0.5)
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}

	m := &Mesh{Name: "box"}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		center := mul3(f.normal, h)
		du := mul3(f.u, h)
		dv := mul3(f.v, h)
		corners := [4]struct {
			su, sv float32
		}{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			m.Vertices = append(m.Vertices, Vertex{
				Position: center.Add(du.Mul(c.su)).Add(dv.Mul(c.sv)),
				Normal:   f.normal,
				UV:       mgl32.Vec2{(c.su + 1) / 2, (c.sv + 1) / 2},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

func mul3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Campfire logs
const (
	campfireLogs      = 5
	campfireLogLength = 1.4
	campfireLogWidth  = 0.16
	campfireLogTilt   = 28.0 // degrees, leaning towards the center
	campfireStones    = 10
	campfireRingRange = 0.85
)

// Campfire builds the campfire geometry: a cone of logs leaning on each
// other inside a ring of stones. It spans roughly one unit around the
// origin, which matches the campfire collider.
func Campfire() *Mesh {
	fire := &Mesh{Name: "campfire"}

	for i := 0; i < campfireLogs; i++ {
		angle := float32(i) * 2 * math.Pi / campfireLogs
		piece := Box(mgl32.Vec3{campfireLogWidth, campfireLogLength, campfireLogWidth})
		// lean the log, then spin it around the fire
		mat := mgl32.HomogRotate3DY(angle).
			Mul4(mgl32.Translate3D(0, campfireLogLength*0.5, campfireLogLength*0.25)).
			Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-campfireLogTilt)))
		piece.Transform(mat)
		fire.Append(piece)
	}

	for i := 0; i < campfireStones; i++ {
		angle := float32(i) * 2 * math.Pi / campfireStones
		stone := Box(mgl32.Vec3{0.22, 0.14, 0.18})
		mat := mgl32.HomogRotate3DY(angle).
			Mul4(mgl32.Translate3D(0, 0.07, campfireRingRange))
		stone.Transform(mat)
		fire.Append(stone)
	}

	return fire
}
