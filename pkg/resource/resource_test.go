package resource

import "testing"

func TestHandleReleasesOnce(t *testing.T) {
	calls := 0
	h := New(KindTexture, 7, "fog.png", func(id uint32) {
		if id != 7 {
			t.Errorf("release called with %d, want 7", id)
		}
		calls++
	})

	if h.ID() != 7 {
		t.Errorf("ID() = %d, want 7", h.ID())
	}
	if h.Kind() != KindTexture || h.Label() != "fog.png" {
		t.Errorf("handle = %s %q", h.Kind(), h.Label())
	}
	h.Release()
	h.Release()

	if calls != 1 {
		t.Errorf("release called %d times, want 1", calls)
	}
	if h.ID() != 0 || !h.Released() {
		t.Errorf("released handle reports id %d, released %v", h.ID(), h.Released())
	}
}

func TestNilHandle(t *testing.T) {
	var h *Handle
	h.Release()
	if h.ID() != 0 {
		t.Errorf("nil handle ID() = %d, want 0", h.ID())
	}
}

func TestSetReleasesInReverseOrder(t *testing.T) {
	var order []uint32
	release := func(id uint32) { order = append(order, id) }

	s := NewSet()
	first := s.Track(New(KindProgram, 1, "object", release), nil, New(KindBuffer, 2, "vbo", release))
	s.Track(New(KindTexture, 3, "diffuse", release))

	if first == nil || first.ID() != 1 {
		t.Errorf("Track returned %v, want handle 1", first)
	}
	if s.Len() != 3 || s.Count(KindTexture) != 1 {
		t.Errorf("Len = %d, Count(texture) = %d", s.Len(), s.Count(KindTexture))
	}

	s.Release()
	s.Release()

	want := []uint32{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("released %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("release order = %v, want %v", order, want)
			break
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len after Release = %d, want 0", s.Len())
	}
}

func TestCacheKeysByHandle(t *testing.T) {
	loads := 0
	load := func(id uint32) int32 {
		loads++
		return int32(id*10) + int32(loads)
	}

	c := NewCache[int32]()
	old := New(KindProgram, 5, "object", nil)
	first := c.Get(old, "modelMatrix", load)
	if got := c.Get(old, "modelMatrix", load); got != first || loads != 1 {
		t.Errorf("second lookup = %d after %d loads, want cached %d", got, loads, first)
	}

	// a reload releases the program and the driver hands out the same name
	old.Release()
	reloaded := New(KindProgram, 5, "object", nil)
	if got := c.Get(reloaded, "modelMatrix", load); got == first || loads != 2 {
		t.Errorf("reloaded program reused stale entry %d", got)
	}

	if n := c.Prune(); n != 1 || c.Len() != 1 {
		t.Errorf("Prune dropped %d, Len = %d, want 1 and 1", n, c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestCacheSkipsReleasedHandles(t *testing.T) {
	c := NewCache[int32]()
	h := New(KindProgram, 3, "banner", nil)
	h.Release()

	got := c.Get(h, "fog", func(id uint32) int32 {
		if id != 0 {
			t.Errorf("load called with %d for a released handle", id)
		}
		return -1
	})
	if got != -1 || c.Len() != 0 {
		t.Errorf("Get = %d, Len = %d, want -1 and 0", got, c.Len())
	}
}
