// Package pagination holds the page/limit arithmetic shared by every
// paginated listing in the console. Pages are 1-based, matching the
// backend's path parameters.
package pagination

import "strconv"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params identifies one page of a listing.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps raw page and limit values into the accepted range.
func Normalize(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// PathParams renders the parameters for endpoint template resolution.
func (p Params) PathParams() map[string]string {
	return map[string]string{
		"page":  strconv.Itoa(p.Page),
		"limit": strconv.Itoa(p.Limit),
	}
}

// TotalPages returns the page count for a total record count, at least 1.
func (p Params) TotalPages(total int) int {
	if total <= 0 || p.Limit <= 0 {
		return 1
	}
	pages := (total + p.Limit - 1) / p.Limit
	if pages < 1 {
		return 1
	}
	return pages
}

func (p Params) HasNext(total int) bool {
	return p.Page < p.TotalPages(total)
}

func (p Params) HasPrevious() bool {
	return p.Page > 1
}

func (p Params) Next() Params {
	return Params{Page: p.Page + 1, Limit: p.Limit}
}

func (p Params) Previous() Params {
	if p.Page <= 1 {
		return p
	}
	return Params{Page: p.Page - 1, Limit: p.Limit}
}

// Window returns the 1-based record range the page covers, for footers of
// the form "Showing 11-20 of 37". Both bounds are 0 when the listing is
// empty.
func (p Params) Window(total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	start = (p.Page-1)*p.Limit + 1
	if start > total {
		return 0, 0
	}
	end = start + p.Limit - 1
	if end > total {
		end = total
	}
	return start, end
}
