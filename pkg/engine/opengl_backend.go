package engine

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"farm/internal/logger"
	"farm/internal/util"
	"farm/pkg/mesh"
	"farm/pkg/resource"
	"farm/pkg/scene"
)

// cube map faces in GL_TEXTURE_CUBE_MAP_POSITIVE_X order
var cubeFaces = []string{"right", "left", "top", "bottom", "front", "back"}

// GLBackend creates OpenGL objects for the scene controller
type GLBackend struct {
	logger         *logger.Logger
	shaderDir      string
	maxTextureSize int
}

// NewGLBackend creates a backend. A current OpenGL context is required.
func NewGLBackend(log *logger.Logger, shaderDir string, maxTextureSize int) *GLBackend {
	return &GLBackend{logger: log, shaderDir: shaderDir, maxTextureSize: maxTextureSize}
}

var _ scene.Backend = (*GLBackend)(nil)

func deleteProgram(id uint32)     { gl.DeleteProgram(id) }
func deleteTexture(id uint32)     { gl.DeleteTextures(1, &id) }
func deleteBuffer(id uint32)      { gl.DeleteBuffers(1, &id) }
func deleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

// CompileProgram builds a named program from the built-in sources or from
// <shader_dir>/<name>.vert and .frag when a shader directory is configured
func (b *GLBackend) CompileProgram(name string) (*resource.Handle, error) {
	vertex, fragment, err := b.shaderSource(name)
	if err != nil {
		return nil, err
	}
	program, err := createShaderProgram(vertex, fragment)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	b.logger.Debugf("compiled shader program %s (%d)", name, program)
	return resource.New(resource.KindProgram, program, name, deleteProgram), nil
}

func (b *GLBackend) shaderSource(name string) (string, string, error) {
	if b.shaderDir != "" {
		vertex, err := os.ReadFile(filepath.Join(b.shaderDir, name+".vert"))
		if err != nil {
			return "", "", fmt.Errorf("failed to read vertex shader: %w", err)
		}
		fragment, err := os.ReadFile(filepath.Join(b.shaderDir, name+".frag"))
		if err != nil {
			return "", "", fmt.Errorf("failed to read fragment shader: %w", err)
		}
		return string(vertex), string(fragment), nil
	}

	src, ok := shaderSources[name]
	if !ok {
		return "", "", fmt.Errorf("unknown shader program %q", name)
	}
	return src[0], src[1], nil
}

// createShaderProgram compiles and links a shader program from source
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// Shaders are no longer needed once linked
	defer func() {
		gl.DetachShader(program, vertexShader)
		gl.DetachShader(program, fragmentShader)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)
	}()

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %v", log)
	}

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		gl.DeleteShader(shader)

		return 0, fmt.Errorf("shader compilation failed: %v", log)
	}

	return shader, nil
}

// LoadTexture decodes an image file into a mipmapped 2D texture
func (b *GLBackend) LoadTexture(path string) (*resource.Handle, error) {
	img, err := util.LoadImage(path, b.maxTextureSize)
	if err != nil {
		return nil, err
	}
	return b.upload(path, img), nil
}

// NewTexture uploads an in-memory image as a 2D texture
func (b *GLBackend) NewTexture(label string, img image.Image) (*resource.Handle, error) {
	return b.upload(label, util.ToRGBA(img, b.maxTextureSize)), nil
}

func (b *GLBackend) upload(label string, img *image.RGBA) *resource.Handle {
	img = util.FlipVertical(img)
	size := img.Bounds().Size()

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	b.logger.Debugf("texture %s: %dx%d (%d)", label, size.X, size.Y, texture)
	return resource.New(resource.KindTexture, texture, label, deleteTexture)
}

// LoadCubeMap loads <prefix>_right.png ... <prefix>_back.png
func (b *GLBackend) LoadCubeMap(prefix string) (*resource.Handle, error) {
	faces := make([]*image.RGBA, len(cubeFaces))
	for i, face := range cubeFaces {
		img, err := util.LoadImage(prefix+"_"+face+".png", b.maxTextureSize)
		if err != nil {
			return nil, err
		}
		faces[i] = img
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, texture)
	for i, img := range faces {
		size := img.Bounds().Size()
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA, int32(size.X), int32(size.Y), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return resource.New(resource.KindTexture, texture, prefix, deleteTexture), nil
}

// UploadMesh creates the vertex array and buffers for m
func (b *GLBackend) UploadMesh(m *mesh.Mesh) (*scene.GPUMesh, error) {
	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("mesh %s has no triangles", m.Name)
	}
	vertices := m.Floats()

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(mesh.FloatsPerVertex * 4)
	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Normal attribute
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	// Texture coord attribute
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	return &scene.GPUMesh{
		Name: m.Name,
		VAO:  resource.New(resource.KindVertexArray, vao, m.Name, deleteVertexArray),
		Buffers: []*resource.Handle{
			resource.New(resource.KindBuffer, vbo, m.Name, deleteBuffer),
			resource.New(resource.KindBuffer, ebo, m.Name, deleteBuffer),
		},
		IndexCount: int32(len(m.Indices)),
	}, nil
}
