package scenedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Section names, in file order
const (
	SectionDiffuse  = "diffuse textures"
	SectionSpecular = "specular textures"
	SectionModels   = "models"
	SectionObjects  = "objects"
)

const (
	linesPerModel  = 3
	linesPerObject = 4
)

// ParseError names the section in which parsing failed
type ParseError struct {
	Section string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed load %s: %v", e.Section, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ModelDesc describes one model and its texture slots. A negative texture
// index means the model has no texture in that slot.
type ModelDesc struct {
	Path     string
	Diffuse  int
	Specular int
}

// Placement puts an instance of a model into the world
type Placement struct {
	Model    int
	Position mgl32.Vec3
	// Rotation is axis x, y, z and angle in degrees
	Rotation mgl32.Vec4
	Scale    mgl32.Vec3
}

// Description is the typed content of a scene data file
type Description struct {
	DiffuseTextures  []string
	SpecularTextures []string
	Models           []ModelDesc
	Objects          []Placement
}

// Load reads and parses the scene data file at path
func Load(path string) (*Description, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}

// Parse extracts the four sections from lines in their fixed order
func Parse(lines []string) (*Description, error) {
	buf := NewBuffer(lines)
	desc := &Description{}

	var err error
	if desc.DiffuseTextures, err = readPaths(buf); err != nil {
		return nil, &ParseError{Section: SectionDiffuse, Err: err}
	}
	if desc.SpecularTextures, err = readPaths(buf); err != nil {
		return nil, &ParseError{Section: SectionSpecular, Err: err}
	}
	if desc.Models, err = readModels(buf, len(desc.DiffuseTextures), len(desc.SpecularTextures)); err != nil {
		return nil, &ParseError{Section: SectionModels, Err: err}
	}
	if desc.Objects, err = readObjects(buf, len(desc.Models)); err != nil {
		return nil, &ParseError{Section: SectionObjects, Err: err}
	}

	return desc, nil
}

func readPaths(buf *Buffer) ([]string, error) {
	section, err := buf.ReadSection()
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(section))
	for i, line := range section {
		paths[i] = strings.TrimSpace(line)
		if paths[i] == "" {
			return nil, fmt.Errorf("%w: empty path at entry %d", ErrParse, i)
		}
	}
	return paths, nil
}

func readModels(buf *Buffer, diffuseCount, specularCount int) ([]ModelDesc, error) {
	section, err := buf.ReadSection()
	if err != nil {
		return nil, err
	}
	if len(section)%linesPerModel != 0 {
		return nil, fmt.Errorf("%w: %d lines is not a whole number of models", ErrParse, len(section))
	}

	models := make([]ModelDesc, 0, len(section)/linesPerModel)
	for i := 0; i < len(section); i += linesPerModel {
		model := ModelDesc{Path: strings.TrimSpace(section[i])}
		if model.Path == "" {
			return nil, fmt.Errorf("%w: empty model path at line %d", ErrParse, i)
		}
		if model.Diffuse, err = parseIndex(section[i+1], diffuseCount); err != nil {
			return nil, fmt.Errorf("model %s diffuse: %w", model.Path, err)
		}
		if model.Specular, err = parseIndex(section[i+2], specularCount); err != nil {
			return nil, fmt.Errorf("model %s specular: %w", model.Path, err)
		}
		models = append(models, model)
	}

	return models, nil
}

// parseIndex accepts negative values as "none" and rejects indices >= size
func parseIndex(line string, size int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not an integer", ErrParse, line)
	}
	if idx >= size {
		return 0, fmt.Errorf("%w: index %d out of range, %d available", ErrParse, idx, size)
	}
	if idx < 0 {
		return -1, nil
	}
	return idx, nil
}

func readObjects(buf *Buffer, modelCount int) ([]Placement, error) {
	section, err := buf.ReadSection()
	if err != nil {
		return nil, err
	}
	if len(section)%linesPerObject != 0 {
		return nil, fmt.Errorf("%w: %d lines is not a whole number of objects", ErrParse, len(section))
	}

	objects := make([]Placement, 0, len(section)/linesPerObject)
	for i := 0; i < len(section); i += linesPerObject {
		var p Placement

		p.Model, err = strconv.Atoi(strings.TrimSpace(section[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: model id %q is not an integer", ErrParse, section[i])
		}
		if p.Model < 0 || p.Model >= modelCount {
			return nil, fmt.Errorf("%w: model id %d out of range. object id: %d", ErrParse, p.Model, i/linesPerObject)
		}
		if p.Position, err = ParseVector3(section[i+1]); err != nil {
			return nil, fmt.Errorf("object %d position: %w", i/linesPerObject, err)
		}
		if p.Rotation, err = ParseVector4(section[i+2]); err != nil {
			return nil, fmt.Errorf("object %d rotation: %w", i/linesPerObject, err)
		}
		if p.Scale, err = ParseVector3(section[i+3]); err != nil {
			return nil, fmt.Errorf("object %d scale: %w", i/linesPerObject, err)
		}

		objects = append(objects, p)
	}

	return objects, nil
}
