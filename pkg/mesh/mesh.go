// Package mesh holds CPU-side triangle meshes ready for upload: imported
// Wavefront OBJ files and a few generated shapes.
package mesh

import "github.com/go-gl/mathgl/mgl32"

// FloatsPerVertex is the interleaved layout: position(3) normal(3) uv(2)
const FloatsPerVertex = 8

// Vertex is one interleaved vertex
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is an indexed triangle list
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Floats flattens the vertices into the interleaved upload layout
func (m *Mesh) Floats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
		)
	}
	return out
}

// Triangles returns the number of triangles
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned extent of the vertices
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}

// Transform applies m to positions and its normal matrix to normals
func (m *Mesh) Transform(mat mgl32.Mat4) {
	normalMat := mat.Mat3().Inv().Transpose()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mgl32.TransformCoordinate(v.Position, mat)
		n := normalMat.Mul3x1(v.Normal)
		if n.Len() > 0 {
			n = n.Normalize()
		}
		v.Normal = n
	}
}

// Append adds other's geometry to m, rebasing its indices
func (m *Mesh) Append(other *Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// smoothNormals replaces every normal with the area-weighted average of the
// faces sharing the vertex
func (m *Mesh) smoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl32.Vec3{}
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa, pb, pc := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		m.Vertices[a].Normal = m.Vertices[a].Normal.Add(face)
		m.Vertices[b].Normal = m.Vertices[b].Normal.Add(face)
		m.Vertices[c].Normal = m.Vertices[c].Normal.Add(face)
	}
	for i := range m.Vertices {
		if n := m.Vertices[i].Normal; n.Len() > 0 {
			m.Vertices[i].Normal = n.Normalize()
		} else {
			m.Vertices[i].Normal = mgl32.Vec3{0, 1, 0}
		}
	}
}
