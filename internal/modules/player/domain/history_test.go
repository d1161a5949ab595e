package domain

import "testing"

func historyTrack(id string) *Track {
	return &Track{
		ID:     TrackID(id),
		Title:  "Track " + id,
		Origin: DirectOrigin{StreamURL: "https://example.com/" + id},
	}
}

func TestHistory_PushDeduplicates(t *testing.T) {
	h := NewHistory(10)
	a := historyTrack("a")
	b := historyTrack("b")

	h.Push(a)
	h.Push(b)
	h.Push(a) // replay moves a to the most recent position

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	list := h.List()
	if list[0].ID != "b" || list[1].ID != "a" {
		t.Errorf("List() order = [%s, %s], want [b, a]", list[0].ID, list[1].ID)
	}
	if h.Last().ID != "a" {
		t.Errorf("Last() = %s, want a", h.Last().ID)
	}
}

func TestHistory_NoDuplicateIDs(t *testing.T) {
	h := NewHistory(10)
	ids := []string{"a", "b", "c", "b", "a", "c", "a"}
	for _, id := range ids {
		h.Push(historyTrack(id))
	}

	seen := make(map[TrackID]bool)
	for _, track := range h.List() {
		if seen[track.ID] {
			t.Errorf("history contains duplicate ID %s", track.ID)
		}
		seen[track.ID] = true
	}
}

func TestHistory_Cap(t *testing.T) {
	h := NewHistory(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		h.Push(historyTrack(id))
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	list := h.List()
	if list[0].ID != "b" {
		t.Errorf("oldest entry = %s, want b (a evicted)", list[0].ID)
	}
}

func TestHistory_LastEmpty(t *testing.T) {
	h := NewHistory(0)
	if h.Last() != nil {
		t.Error("Last() on empty history should be nil")
	}
	if h.limit != DefaultHistoryLimit {
		t.Errorf("limit = %d, want default %d", h.limit, DefaultHistoryLimit)
	}
}

func TestHistory_ListIsCopy(t *testing.T) {
	h := NewHistory(10)
	h.Push(historyTrack("a"))

	list := h.List()
	list[0] = historyTrack("z")

	if h.Last().ID != "a" {
		t.Error("mutating List() result must not affect the history")
	}
}
