package nav

import "testing"

func TestHistoryBackForward(t *testing.T) {
	h := NewHistory()
	a := Route{Section: "about"}
	b := Route{Section: "photos"}
	c := Route{Section: "contact"}

	h.Push(a)
	h.Push(b)
	h.Push(c)

	if got, ok := h.Back(); !ok || got != b {
		t.Errorf("Expected back to photos, got %+v ok=%v", got, ok)
	}
	if got, ok := h.Back(); !ok || got != a {
		t.Errorf("Expected back to about, got %+v ok=%v", got, ok)
	}
	if _, ok := h.Back(); ok {
		t.Error("Expected back to fail at start of history")
	}
	if got, ok := h.Forward(); !ok || got != b {
		t.Errorf("Expected forward to photos, got %+v ok=%v", got, ok)
	}
}

func TestHistoryPushDropsForwardEntries(t *testing.T) {
	h := NewHistory()
	h.Push(Route{Section: "about"})
	h.Push(Route{Section: "photos"})
	h.Back()

	h.Push(Route{Section: "contact"})

	if h.Len() != 2 {
		t.Fatalf("Expected 2 entries after mid-stack push, got %d", h.Len())
	}
	if _, ok := h.Forward(); ok {
		t.Error("Expected no forward entry after push")
	}
	if got, ok := h.Current(); !ok || got.Section != "contact" {
		t.Errorf("Expected contact current, got %+v", got)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Current(); ok {
		t.Error("Expected no current route in empty history")
	}
	if _, ok := h.Back(); ok {
		t.Error("Expected back to fail on empty history")
	}
	if _, ok := h.Forward(); ok {
		t.Error("Expected forward to fail on empty history")
	}
}
