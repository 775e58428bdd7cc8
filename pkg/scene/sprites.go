package scene

import (
	"image"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"farm/pkg/resource"
)

// Glyph atlas layout: A-M on the bottom row, N-Z on the top row
const (
	GlyphCols = 13
	GlyphRows = 2
	glyphCell = 16
)

var (
	ufoPosition    = mgl32.Vec3{16.3, 8.3, 34.25}
	ufoScale       = mgl32.Vec3{4, 8, 4}
	bannerPosition = mgl32.Vec3{16.6, 8.3, 34.85}
	bannerScale    = mgl32.Vec3{2, 8, 1}
	messageStart   = mgl32.Vec3{-2, 1, -2}
	messageStep    = mgl32.Vec3{0.5, 0, 0}
	messageScale   = mgl32.Vec3{0.25, 0.25, 0.25}
)

// Sprite is one textured quad cut from a sprite sheet
type Sprite struct {
	Texture    *resource.Handle
	Cols, Rows int
	Index      int
	Position   mgl32.Vec3
	Scale      mgl32.Vec3
	FaceCamera bool
}

// Model returns the sprite's model matrix for a viewer looking along dir
func (sp Sprite) Model(dir mgl32.Vec3) mgl32.Mat4 {
	if sp.FaceCamera {
		return Billboard(mgl32.Vec3{dir.X(), 0, dir.Z()}, sp.Position, sp.Scale)
	}
	return mgl32.Translate3D(sp.Position.X(), sp.Position.Y(), sp.Position.Z()).
		Mul4(mgl32.Scale3D(sp.Scale.X(), sp.Scale.Y(), sp.Scale.Z()))
}

// BannerModel returns the banner's model matrix for a viewer looking along dir
func (s *SceneState) BannerModel(dir mgl32.Vec3) mgl32.Mat4 {
	return Billboard(mgl32.Vec3{dir.X(), 0, dir.Z()}, bannerPosition, bannerScale)
}

// Sprites lists the UFO, the fire and the message letters in draw order
func (s *SceneState) Sprites() []Sprite {
	a := s.Assets
	out := []Sprite{{
		Texture: a.UFO, Cols: 1, Rows: 1,
		Position: ufoPosition, Scale: ufoScale, FaceCamera: true,
	}}

	if s.Campfire.Present && s.Campfire.Burning {
		out = append(out, Sprite{
			Texture: a.Fire, Cols: fireSheetCols, Rows: fireSheetRows, Index: s.Campfire.Frame,
			Position:   s.Campfire.Position.Add(mgl32.Vec3{0, 1, 0}),
			Scale:      mgl32.Vec3{1, 1, 1},
			FaceCamera: true,
		})
	}

	for _, g := range MessageGlyphs(s.Message) {
		out = append(out, Sprite{
			Texture: a.Glyphs, Cols: GlyphCols, Rows: GlyphRows, Index: g.Index,
			Position: g.Position, Scale: messageScale,
		})
	}
	return out
}

// Glyph is one letter of the message
type Glyph struct {
	Index    int
	Position mgl32.Vec3
}

// MessageGlyphs lays out msg left to right. Letters are upper-cased,
// spaces advance the pen and anything else is dropped.
func MessageGlyphs(msg string) []Glyph {
	var out []Glyph
	pos := messageStart
	for _, r := range strings.ToUpper(msg) {
		if r == ' ' {
			pos = pos.Add(messageStep)
			continue
		}
		if r < 'A' || r > 'Z' {
			continue
		}
		out = append(out, Glyph{Index: int(r - 'A'), Position: pos})
		pos = pos.Add(messageStep)
	}
	return out
}

// GlyphCell returns the pixel rectangle of a glyph in the atlas image.
// Cells count from the bottom-left corner like texture coordinates do.
func GlyphCell(index int) image.Rectangle {
	col, row := index%GlyphCols, index/GlyphCols
	x := col * glyphCell
	y := (GlyphRows - 1 - row) * glyphCell
	return image.Rect(x, y, x+glyphCell, y+glyphCell)
}

// GlyphAtlas rasterizes A-Z into a white-on-transparent sprite sheet
func GlyphAtlas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, GlyphCols*glyphCell, GlyphRows*glyphCell))
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	for i := 0; i < GlyphCols*GlyphRows; i++ {
		cell := GlyphCell(i)
		letter := string(rune('A' + i))
		width := d.MeasureString(letter).Ceil()
		d.Dot = fixed.P(cell.Min.X+(glyphCell-width)/2, cell.Min.Y+(glyphCell+face.Ascent-face.Descent)/2)
		d.DrawString(letter)
	}
	return img
}
