package shared

import "time"

// Filter is the list query shared by every repository. From is inclusive
// and To exclusive; Filters holds column equality matches the repository
// has whitelisted.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	From     *time.Time
	To       *time.Time
	Filters  map[string]any
}

// DefaultFilter lists the newest rows first, twenty to a page.
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 20, OrderBy: "created_at", OrderDir: "desc", Filters: map[string]any{}}
}

func (f Filter) Offset() int {
	return max(f.Page-1, 0) * f.PageSize
}
