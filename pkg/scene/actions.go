package scene

import "fmt"

// Action is a named input command. Key bindings map keys to actions.
type Action string

const (
	ActionForward      Action = "forward"
	ActionBack         Action = "back"
	ActionLeft         Action = "left"
	ActionRight        Action = "right"
	ActionQuit         Action = "quit"
	ActionCursorLock   Action = "cursor_lock"
	ActionReload       Action = "reload"
	ActionFog          Action = "fog"
	ActionFlashlight   Action = "flashlight"
	ActionCameraChord  Action = "camera_chord"
	ActionPolygonChord Action = "polygon_chord"
	ActionSelect1      Action = "select_1"
	ActionSelect2      Action = "select_2"
	ActionSelect3      Action = "select_3"
	ActionSelect4      Action = "select_4"

	// pick-only actions, used by interactions
	ActionCreature Action = "creature"
)

var keyActions = map[Action]bool{
	ActionForward: true, ActionBack: true, ActionLeft: true, ActionRight: true,
	ActionQuit: true, ActionCursorLock: true, ActionReload: true, ActionFog: true,
	ActionFlashlight: true, ActionCameraChord: true, ActionPolygonChord: true,
	ActionSelect1: true, ActionSelect2: true, ActionSelect3: true, ActionSelect4: true,
}

// IsChord reports whether the action modifies the select actions
func (a Action) IsChord() bool {
	return a == ActionCameraChord || a == ActionPolygonChord
}

// ParseAction validates an action name from the key bindings
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if !keyActions[a] {
		return "", fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// selectIndex returns the zero based digit of a select action
func selectIndex(a Action) (int, bool) {
	switch a {
	case ActionSelect1:
		return 0, true
	case ActionSelect2:
		return 1, true
	case ActionSelect3:
		return 2, true
	case ActionSelect4:
		return 3, true
	}
	return 0, false
}

// Press handles a key going down
func (c *Controller) Press(a Action) {
	c.held[a]++

	if i, ok := selectIndex(a); ok {
		if c.Held(ActionCameraChord) {
			c.state.ActiveCamera = i
			c.log.Debugf("camera %d", i+1)
		}
		if c.Held(ActionPolygonChord) && i <= int(PolygonPoint) {
			c.state.PolygonMode = PolygonMode(i)
		}
		return
	}

	switch a {
	case ActionQuit:
		c.quit = true
	case ActionCursorLock:
		c.cursorLocked = !c.cursorLocked
	case ActionReload:
		// failures are logged by Load and the viewer keeps running unloaded
		_ = c.Reload()
	case ActionFog:
		c.toggleFog()
	case ActionFlashlight:
		spot := &c.state.Lights.Spot
		spot.Intensity += c.cfg.Lighting.FlashlightStep
		if spot.Intensity > c.cfg.Lighting.FlashlightMax {
			spot.Intensity = 0
		}
	}
}

// Release handles a key going up. An action bound to several keys stays
// held until all of them are released.
func (c *Controller) Release(a Action) {
	if c.held[a] <= 1 {
		delete(c.held, a)
		return
	}
	c.held[a]--
}

// Held reports whether any key of an action is down
func (c *Controller) Held(a Action) bool {
	return c.held[a] > 0
}

// Pick reacts to a click on the model with the given stencil id
func (c *Controller) Pick(id uint8) {
	c.log.Debugf("clicked on object with id %d", id)
	switch id {
	case PickCampfire:
		c.state.Campfire.Burning = !c.state.Campfire.Burning
	case PickFog:
		c.toggleFog()
	case PickCreature:
		c.state.Creature.Enabled = !c.state.Creature.Enabled
	}
}

func (c *Controller) toggleFog() {
	c.state.Fog = !c.state.Fog
}
