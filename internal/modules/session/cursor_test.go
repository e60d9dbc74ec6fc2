package session

import "testing"

func TestCursorScrollWindow(t *testing.T) {
	cases := []struct {
		name           string
		count, page    int
		set            int
		wantSel, wantS int
	}{
		{"list top", 40, ListPageSize, 0, 0, 0},
		{"list last row of first page", 40, ListPageSize, 14, 14, 0},
		{"list one past page", 40, ListPageSize, 15, 15, 1},
		{"list middle", 40, ListPageSize, 20, 20, 6},
		{"list end", 40, ListPageSize, 39, 39, 25},
		{"list past end clamps", 40, ListPageSize, 100, 39, 25},
		{"list negative clamps", 40, ListPageSize, -3, 0, 0},
		{"short list never scrolls", 5, ListPageSize, 4, 4, 0},
		{"bookmarks end", 12, BookmarkPageSize, 11, 11, 2},
		{"bookmarks one past page", 12, BookmarkPageSize, 10, 10, 1},
		{"bookmarks top", 12, BookmarkPageSize, 0, 0, 0},
		{"empty list", 0, BookmarkPageSize, 3, 0, 0},
	}
	for _, tc := range cases {
		c := NewCursor(tc.count, tc.page)
		c.Set(tc.set)
		if c.Selected != tc.wantSel || c.Scroll != tc.wantS {
			t.Fatalf("%s: expected selected %d scroll %d, got %d %d", tc.name, tc.wantSel, tc.wantS, c.Selected, c.Scroll)
		}
	}
}

func TestCursorMoveDoesNotWrap(t *testing.T) {
	c := NewCursor(40, ListPageSize)
	if c.Move(-1) {
		t.Fatalf("expected no move above the head")
	}
	for i := 0; i < 15; i++ {
		c.Move(1)
	}
	if c.Selected != 15 || c.Scroll != 1 {
		t.Fatalf("expected window pushed down by one, got %+v", c)
	}
	c.Set(39)
	if c.Move(1) {
		t.Fatalf("expected no move past the tail")
	}
	if start, end := c.Visible(); start != 25 || end != 40 {
		t.Fatalf("expected visible 25..40, got %d..%d", start, end)
	}
	c.Set(0)
	if c.Scroll != 0 {
		t.Fatalf("expected scroll back at 0, got %d", c.Scroll)
	}
}

func TestCursorSetCountReclamps(t *testing.T) {
	c := NewCursor(40, ListPageSize)
	c.Set(39)
	c.SetCount(5)
	if c.Selected != 4 || c.Scroll != 0 {
		t.Fatalf("expected selection clamped to 4 and scroll 0, got %+v", c)
	}
	c.SetCount(0)
	if c.Selected != 0 || c.Scroll != 0 {
		t.Fatalf("expected empty cursor at 0, got %+v", c)
	}
	if start, end := c.Visible(); start != 0 || end != 0 {
		t.Fatalf("expected empty window, got %d..%d", start, end)
	}
}
