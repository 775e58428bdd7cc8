// Package resource wraps GPU object names in owning handles so that every
// object created during a scene load is deleted exactly once.
package resource

import "fmt"

// Kind names the kind of GPU object a handle owns
type Kind string

// Object kinds
const (
	KindTexture     Kind = "texture"
	KindProgram     Kind = "program"
	KindVertexArray Kind = "vertex array"
	KindBuffer      Kind = "buffer"
)

// Handle owns one GPU object. Release deletes it at most once.
type Handle struct {
	kind     Kind
	id       uint32
	label    string
	release  func(id uint32)
	released bool
}

// New wraps id. release is called with id the first time Release runs.
func New(kind Kind, id uint32, label string, release func(id uint32)) *Handle {
	return &Handle{kind: kind, id: id, label: label, release: release}
}

// ID returns the underlying object name, or 0 once released
func (h *Handle) ID() uint32 {
	if h == nil || h.released {
		return 0
	}
	return h.id
}

// Kind returns the object kind
func (h *Handle) Kind() Kind {
	return h.kind
}

// Label returns the human readable origin of the object, usually a path
func (h *Handle) Label() string {
	return h.label
}

// Released reports whether Release already ran
func (h *Handle) Released() bool {
	return h.released
}

// Release deletes the object. Further calls do nothing.
func (h *Handle) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	if h.release != nil {
		h.release(h.id)
	}
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s %d (%s)", h.kind, h.id, h.label)
}
