package model

// Pagination tells which page has been sent
// and how many pages exist
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	Pages       int `json:"pages"`
}

// FeedPage is the response of the feed routes
type FeedPage struct {
	Profiles   []Profile  `json:"profiles"`
	Pagination Pagination `json:"pagination"`
}

// HasMore reports whether a page exists after this one
func (p FeedPage) HasMore() bool {
	return p.Pagination.CurrentPage < p.Pagination.Pages
}
