package feed

import (
	"inkwell/domain"
	"inkwell/errs"
)

// DefaultPageSize is the number of posts per page unless the
// deployment overrides it.
const DefaultPageSize = 10

// Page is one fixed-size slice of an ordered post sequence, plus the
// metadata a client needs to walk the sequence.
type Page struct {
	Items       []domain.Post `json:"items"`
	Number      int           `json:"number"`
	Size        int           `json:"size"`
	TotalItems  int           `json:"total_items"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// Paginate slices posts into 1-indexed pages of at most size items,
// preserving input order. An empty sequence still has one empty page.
// A page number below 1 or beyond the last page is an out-of-range
// error; callers that want clamping must do it themselves. Pure
// function, no hidden state.
func Paginate(posts []domain.Post, size, page int) (*Page, error) {
	if size < 1 {
		return nil, errs.Errorf(errs.EINVALID, "Page size must be at least 1.")
	}
	totalPages := (len(posts) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		return nil, errs.Errorf(errs.ENOTFOUND, "Page %d is out of range.", page)
	}
	start := (page - 1) * size
	end := start + size
	if end > len(posts) {
		end = len(posts)
	}
	items := posts[start:end]
	if items == nil {
		items = []domain.Post{}
	}
	return &Page{
		Items:       items,
		Number:      page,
		Size:        size,
		TotalItems:  len(posts),
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, nil
}
