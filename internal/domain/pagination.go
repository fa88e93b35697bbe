package domain

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is an offset window over a filtered collection.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the window into the allowed range.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Slice bounds [start, end) of the page inside a collection of size total.
func (p Page) Bounds(total int) (int, int) {
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// PageMeta is rendered as the envelope's meta block.
type PageMeta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

func NewPageMeta(p Page, total int64) PageMeta {
	return PageMeta{
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: int64(p.Offset+p.Limit) < total,
	}
}
