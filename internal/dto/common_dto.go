package dto

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

type PageQuery struct {
	Page    int `query:"page"`
	PerPage int `query:"perPage"`
}

// Normalize clamps the page to >= 1 and perPage to [1, 100], applying def when unset.
func (q PageQuery) Normalize(def int) PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = def
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
	return q
}
