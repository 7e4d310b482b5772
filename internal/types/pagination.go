package types

// Pagination is the shared envelope for offset-paginated list responses.
type Pagination struct {
	Current int   `json:"current"`
	Limit   int   `json:"limit"`
	Records int64 `json:"records"`
	Pages   int64 `json:"pages"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizePage coerces a requested page number to >= 1.
func NormalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// NormalizeLimit coerces a requested limit into [1, MaxLimit], applying the
// default when the value is unset or non-positive.
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NewPagination builds the envelope for a normalized page/limit pair and a
// total record count. Pages is ceil(records/limit); limit is never zero here
// because NormalizeLimit clamps it away.
func NewPagination(page, limit int, records int64) Pagination {
	pages := records / int64(limit)
	if records%int64(limit) != 0 {
		pages++
	}
	return Pagination{
		Current: page,
		Limit:   limit,
		Records: records,
		Pages:   pages,
	}
}
