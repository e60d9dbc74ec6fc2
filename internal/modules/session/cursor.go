package session

// Page sizes for the list screens.
const (
	ListPageSize     = 15
	BookmarkPageSize = 10
)

// clamp bounds v to [lo, hi] and reports whether it had to.
func clamp(v, lo, hi int) (int, bool) {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo, true
	}
	if v > hi {
		return hi, true
	}
	return v, false
}

// Cursor tracks the selection and scroll window of a list screen. Selection
// is clamped to the list and never wraps.
type Cursor struct {
	Selected int `json:"selected"`
	Scroll   int `json:"scroll"`
	Count    int `json:"count"`
	Page     int `json:"page"`
}

// NewCursor returns a cursor at the head of a list.
func NewCursor(count, page int) Cursor {
	if page <= 0 {
		page = 1
	}
	if count < 0 {
		count = 0
	}
	return Cursor{Count: count, Page: page}
}

// Move shifts the selection by delta and reports whether it changed.
func (c *Cursor) Move(delta int) bool {
	before := c.Selected
	c.Set(c.Selected + delta)
	return c.Selected != before
}

// Set selects index, clamped to the list.
func (c *Cursor) Set(index int) {
	c.Selected, _ = clamp(index, 0, c.Count-1)
	c.follow()
}

// SetCount updates the list length and re-clamps the selection.
func (c *Cursor) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	c.Count = count
	c.Set(c.Selected)
}

// Visible returns the half-open window of indexes on screen.
func (c Cursor) Visible() (int, int) {
	end, _ := clamp(c.Scroll+c.Page, 0, c.Count)
	return c.Scroll, end
}

func (c *Cursor) follow() {
	if c.Selected < c.Scroll {
		c.Scroll = c.Selected
	}
	if c.Selected >= c.Scroll+c.Page {
		c.Scroll = c.Selected - (c.Page - 1)
	}
	c.Scroll, _ = clamp(c.Scroll, 0, c.Count-c.Page)
}
