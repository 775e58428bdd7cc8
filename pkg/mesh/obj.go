package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/udhos/gwob"
)

var (
	// ErrMultipleMeshes is returned for files with more than one object
	ErrMultipleMeshes = errors.New("this simplified loader can only process files with only one mesh")
	// ErrEmpty is returned for files without faces
	ErrEmpty = errors.New("model has no faces")
)

// objOptions keeps the parser quiet; failures come back as errors
var objOptions = &gwob.ObjParserOptions{
	Logger: func(string) {},
}

// LoadOBJ reads a single-mesh Wavefront OBJ file
func LoadOBJ(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer file.Close()

	m, err := parseOBJ(path, file)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ reads positions, texture coordinates, normals and faces.
// Polygons are triangulated, identical corners share one vertex and
// smooth normals are generated when the file has none.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	return parseOBJ("", r)
}

func parseOBJ(name string, r io.Reader) (*Mesh, error) {
	obj, err := gwob.NewObjFromReader(name, bufio.NewReader(r), objOptions)
	if err != nil {
		return nil, err
	}
	return fromObj(name, obj)
}

// fromObj copies gwob's interleaved coordinates into the mesh layout
func fromObj(name string, obj *gwob.Obj) (*Mesh, error) {
	groups := 0
	for _, g := range obj.Groups {
		if g.IndexCount > 0 {
			groups++
		}
	}
	if groups > 1 {
		return nil, ErrMultipleMeshes
	}
	if len(obj.Indices) == 0 || obj.StrideSize <= 0 {
		return nil, ErrEmpty
	}

	// strides and offsets are in bytes
	stride := obj.StrideSize / 4
	pos := obj.StrideOffsetPosition / 4
	tex := obj.StrideOffsetTexture / 4
	norm := obj.StrideOffsetNormal / 4

	m := &Mesh{
		Name:     name,
		Vertices: make([]Vertex, 0, len(obj.Coord)/stride),
		Indices:  make([]uint32, 0, len(obj.Indices)),
	}
	for i := 0; i+stride <= len(obj.Coord); i += stride {
		c := obj.Coord[i : i+stride]
		v := Vertex{Position: mgl32.Vec3{c[pos], c[pos+1], c[pos+2]}}
		if obj.TextCoordFound {
			v.UV = mgl32.Vec2{c[tex], c[tex+1]}
		}
		if obj.NormCoordFound {
			v.Normal = mgl32.Vec3{c[norm], c[norm+1], c[norm+2]}
		}
		m.Vertices = append(m.Vertices, v)
	}

	for _, idx := range obj.Indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return nil, fmt.Errorf("index %d out of range, %d vertices", idx, len(m.Vertices))
		}
		m.Indices = append(m.Indices, uint32(idx))
	}
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices do not form triangles", len(m.Indices))
	}

	if !obj.NormCoordFound {
		m.smoothNormals()
	}
	return m, nil
}
