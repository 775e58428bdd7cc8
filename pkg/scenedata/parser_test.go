package scenedata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestReadHeaderThenTakeSectionConsumesCountPlusOne(t *testing.T) {
	tests := []struct {
		lines []string
		count int
	}{
		{[]string{"0", "tail"}, 0},
		{[]string{"2", "a.png", "b.png", "3"}, 2},
		{[]string{" 3 ", "a", "b", "c"}, 3},
	}

	for _, tt := range tests {
		buf := NewBuffer(tt.lines)
		before := buf.Len()

		n, err := buf.ReadHeader()
		if err != nil {
			t.Fatalf("ReadHeader(%q) error: %v", tt.lines, err)
		}
		if n != tt.count {
			t.Errorf("ReadHeader(%q) = %d, want %d", tt.lines, n, tt.count)
		}
		section, err := buf.TakeSection(n)
		if err != nil {
			t.Fatalf("TakeSection(%d) error: %v", n, err)
		}
		if len(section) != n {
			t.Errorf("TakeSection(%d) returned %d lines", n, len(section))
		}
		if consumed := before - buf.Len(); consumed != 1+n {
			t.Errorf("consumed %d lines, want %d", consumed, 1+n)
		}
	}
}

func TestReadHeaderFailures(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"word", []string{"three"}},
		{"float", []string{"2.5"}},
		{"negative", []string{"-1"}},
		{"blank", []string{""}},
	}

	for _, tt := range tests {
		n, err := NewBuffer(tt.lines).ReadHeader()
		if n != -1 {
			t.Errorf("%s: ReadHeader = %d, want -1", tt.name, n)
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("%s: error = %v, want ErrParse", tt.name, err)
		}
	}
}

func TestTakeSectionOutOfBounds(t *testing.T) {
	buf := NewBuffer([]string{"a", "b"})

	if _, err := buf.TakeSection(3); !errors.Is(err, ErrParse) {
		t.Errorf("TakeSection(3) error = %v, want ErrParse", err)
	}
	if buf.Len() != 2 {
		t.Errorf("failed TakeSection consumed lines: %d left, want 2", buf.Len())
	}
	if _, err := buf.TakeSection(-1); !errors.Is(err, ErrParse) {
		t.Errorf("TakeSection(-1) error = %v, want ErrParse", err)
	}
}

func TestParseVector3(t *testing.T) {
	tests := []struct {
		line    string
		want    mgl32.Vec3
		wantErr bool
	}{
		{"1.0 2.0 3.0 4.0", mgl32.Vec3{1, 2, 3}, false},
		{"  -4.48\t0.5   -13.0 ", mgl32.Vec3{-4.48, 0.5, -13}, false},
		{"1.0 2.0", mgl32.Vec3{}, true},
		{"", mgl32.Vec3{}, true},
		{"1 two 3", mgl32.Vec3{}, true},
	}

	for _, tt := range tests {
		got, err := ParseVector3(tt.line)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVector3(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVector3(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseVector4(t *testing.T) {
	got, err := ParseVector4("0 1 0 90 extra")
	if err != nil {
		t.Fatalf("ParseVector4 error: %v", err)
	}
	if want := (mgl32.Vec4{0, 1, 0, 90}); got != want {
		t.Errorf("ParseVector4 = %v, want %v", got, want)
	}
	if _, err := ParseVector4("0 1 0"); !errors.Is(err, ErrParse) {
		t.Errorf("ParseVector4 with 3 values error = %v, want ErrParse", err)
	}
}

const farmData = `2
Resources/Textures/grass_diffuse.png
Resources/Textures/campfire_diffuse.png
1
Resources/Textures/no_specular.png
6
Resources/Models/ground.obj
0
0
Resources/Models/campfire.obj
1
-1
8
0
0 0 0
0 1 0 0
1 1 1
1
-2.5 0 -4
0 1 0 45
0.5 0.5 0.5`

func TestParse(t *testing.T) {
	desc, err := Parse(strings.Split(farmData, "\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(desc.DiffuseTextures) != 2 || len(desc.SpecularTextures) != 1 {
		t.Errorf("textures = %d/%d, want 2/1", len(desc.DiffuseTextures), len(desc.SpecularTextures))
	}
	if len(desc.Models) != 2 {
		t.Fatalf("models = %d, want 2", len(desc.Models))
	}
	if m := desc.Models[1]; m.Path != "Resources/Models/campfire.obj" || m.Diffuse != 1 || m.Specular != -1 {
		t.Errorf("models[1] = %+v", m)
	}
	if len(desc.Objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(desc.Objects))
	}
	obj := desc.Objects[1]
	if obj.Model != 1 || obj.Position != (mgl32.Vec3{-2.5, 0, -4}) || obj.Rotation[3] != 45 || obj.Scale != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("objects[1] = %+v", obj)
	}
}

func TestParseFailuresNameSection(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		section string
	}{
		{"bad diffuse header", "x", SectionDiffuse},
		{"diffuse overrun", "3\na.png", SectionDiffuse},
		{"missing specular header", "0", SectionSpecular},
		{"partial model", "0\n0\n2\nm.obj\n-1", SectionModels},
		{"texture index out of range", "0\n0\n3\nm.obj\n0\n-1\n0", SectionModels},
		{"model id out of range", "0\n0\n3\nm.obj\n-1\n-1\n4\n1\n0 0 0\n0 1 0 0\n1 1 1", SectionObjects},
		{"short rotation", "0\n0\n3\nm.obj\n-1\n-1\n4\n0\n0 0 0\n0 1 0\n1 1 1", SectionObjects},
		{"object overrun", "0\n0\n3\nm.obj\n-1\n-1\n8\n0\n0 0 0\n0 1 0 0\n1 1 1", SectionObjects},
	}

	for _, tt := range tests {
		_, err := Parse(strings.Split(tt.data, "\n"))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%s: error = %v, want *ParseError", tt.name, err)
			continue
		}
		if perr.Section != tt.section {
			t.Errorf("%s: section = %q, want %q", tt.name, perr.Section, tt.section)
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("%s: error does not wrap ErrParse: %v", tt.name, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ModelsData.txt")
	data := "0\r\n0\r\n3\r\nResources/Models/campfire.obj\r\n-1\r\n-1\r\n4\r\n0\r\n0 0 0\r\n0 1 0 0\r\n1 1 1\r\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(desc.Models) != 1 || desc.Models[0].Path != "Resources/Models/campfire.obj" {
		t.Errorf("models = %+v", desc.Models)
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); !errors.Is(err, ErrIO) {
		t.Errorf("Load(missing) error = %v, want ErrIO", err)
	}
}
