package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"farm/pkg/scene"
)

// keyNames maps key names used in the settings file to GLFW keys
var keyNames = map[string]glfw.Key{
	"escape":    glfw.KeyEscape,
	"space":     glfw.KeySpace,
	"enter":     glfw.KeyEnter,
	"tab":       glfw.KeyTab,
	"backspace": glfw.KeyBackspace,
	"up":        glfw.KeyUp,
	"down":      glfw.KeyDown,
	"left":      glfw.KeyLeft,
	"right":     glfw.KeyRight,
	"shift":     glfw.KeyLeftShift,
	"ctrl":      glfw.KeyLeftControl,
}

func init() {
	for i := 0; i < 26; i++ {
		keyNames[string(rune('a'+i))] = glfw.KeyA + glfw.Key(i)
	}
	for i := 0; i < 10; i++ {
		keyNames[string(rune('0'+i))] = glfw.Key0 + glfw.Key(i)
	}
	for i := 0; i < 12; i++ {
		keyNames[fmt.Sprintf("f%d", i+1)] = glfw.KeyF1 + glfw.Key(i)
	}
}

// ParseKey looks up a key by its case-insensitive name
func ParseKey(name string) (glfw.Key, error) {
	key, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return glfw.KeyUnknown, fmt.Errorf("unknown key %q", name)
	}
	return key, nil
}

// BuildBindings turns action -> key names into the key -> actions table
func BuildBindings(keys map[string][]string) (map[glfw.Key][]scene.Action, error) {
	bindings := make(map[glfw.Key][]scene.Action)
	var errs []error
	for name, keyList := range keys {
		action, err := scene.ParseAction(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, keyName := range keyList {
			key, err := ParseKey(keyName)
			if err != nil {
				errs = append(errs, fmt.Errorf("action %s: %w", name, err))
				continue
			}
			bindings[key] = append(bindings[key], action)
		}
	}
	return bindings, errors.Join(errs...)
}

// InputHandler управляет вводом с клавиатуры и мыши
type InputHandler struct {
	window            *glfw.Window
	bindings          map[glfw.Key][]scene.Action
	keys              []glfw.Key
	currentKeys       map[glfw.Key]bool
	previousKeys      map[glfw.Key]bool
	currentMousePos   [2]float64
	previousMousePos  [2]float64
	currentMouseBtns  map[glfw.MouseButton]bool
	previousMouseBtns map[glfw.MouseButton]bool
	mouseDelta        [2]float64
}

// NewInputHandler создает новый обработчик ввода
func NewInputHandler(window *glfw.Window, bindings map[glfw.Key][]scene.Action) *InputHandler {
	handler := &InputHandler{
		window:            window,
		bindings:          bindings,
		keys:              slices.Sorted(maps.Keys(bindings)),
		currentKeys:       make(map[glfw.Key]bool),
		previousKeys:      make(map[glfw.Key]bool),
		currentMouseBtns:  make(map[glfw.MouseButton]bool),
		previousMouseBtns: make(map[glfw.MouseButton]bool),
	}
	handler.ResetMouse()
	return handler
}

// Update обновляет состояние ввода
func (ih *InputHandler) Update() {
	// Копируем текущее состояние клавиш в предыдущее
	for k, v := range ih.currentKeys {
		ih.previousKeys[k] = v
	}
	for b, v := range ih.currentMouseBtns {
		ih.previousMouseBtns[b] = v
	}

	ih.previousMousePos = ih.currentMousePos
	x, y := ih.window.GetCursorPos()
	ih.currentMousePos = [2]float64{x, y}
	ih.mouseDelta[0] = ih.currentMousePos[0] - ih.previousMousePos[0]
	ih.mouseDelta[1] = ih.currentMousePos[1] - ih.previousMousePos[1]

	// Only bound keys are polled
	for _, key := range ih.keys {
		ih.currentKeys[key] = ih.window.GetKey(key) == glfw.Press
	}
	for _, btn := range []glfw.MouseButton{glfw.MouseButtonLeft, glfw.MouseButtonRight} {
		ih.currentMouseBtns[btn] = ih.window.GetMouseButton(btn) == glfw.Press
	}
}

// ResetMouse forgets the last cursor position so the next delta is zero
func (ih *InputHandler) ResetMouse() {
	x, y := ih.window.GetCursorPos()
	ih.currentMousePos = [2]float64{x, y}
	ih.previousMousePos = ih.currentMousePos
	ih.mouseDelta = [2]float64{}
}

// keyEdge is one action going down or up
type keyEdge struct {
	action scene.Action
	down   bool
}

// keyEdges lists the actions whose keys changed this frame in key order.
// Releases come first, then chord presses, then the remaining presses, so a
// chord and a digit pressed in the same frame combine.
func keyEdges(keys []glfw.Key, bindings map[glfw.Key][]scene.Action, pressed, released func(glfw.Key) bool) []keyEdge {
	var ups, chords, downs []keyEdge
	for _, key := range keys {
		for _, a := range bindings[key] {
			switch {
			case released(key):
				ups = append(ups, keyEdge{a, false})
			case pressed(key) && a.IsChord():
				chords = append(chords, keyEdge{a, true})
			case pressed(key):
				downs = append(downs, keyEdge{a, true})
			}
		}
	}
	return slices.Concat(ups, chords, downs)
}

// Dispatch forwards key edges and mouse motion to the controller
func (ih *InputHandler) Dispatch(c *scene.Controller) {
	for _, e := range keyEdges(ih.keys, ih.bindings, ih.IsKeyPressed, ih.IsKeyReleased) {
		if e.down {
			c.Press(e.action)
		} else {
			c.Release(e.action)
		}
	}

	if c.CursorLocked() && (ih.mouseDelta[0] != 0 || ih.mouseDelta[1] != 0) {
		c.Look(float32(ih.mouseDelta[0]), float32(ih.mouseDelta[1]))
	}
}

// IsKeyDown проверяет, нажата ли клавиша в данный момент
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed проверяет, была ли клавиша нажата в этом кадре
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// IsKeyReleased проверяет, была ли клавиша отпущена в этом кадре
func (ih *InputHandler) IsKeyReleased(key glfw.Key) bool {
	return !ih.currentKeys[key] && ih.previousKeys[key]
}

// IsMouseButtonPressed проверяет, была ли кнопка мыши нажата в этом кадре
func (ih *InputHandler) IsMouseButtonPressed(button glfw.MouseButton) bool {
	return ih.currentMouseBtns[button] && !ih.previousMouseBtns[button]
}

// GetMousePosition возвращает текущую позицию курсора мыши
func (ih *InputHandler) GetMousePosition() [2]float64 {
	return ih.currentMousePos
}
