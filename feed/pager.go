package feed

import "github.com/davidnwogucodes/sadaora/model"

// Pager tracks the page to fetch next. It never fetches by itself.
type Pager struct {
	page    int
	hasMore bool
	loading bool
	failed  bool
}

// NewPager starts on page 1 with more pages assumed
func NewPager() *Pager {
	return &Pager{page: 1, hasMore: true}
}

// Page is the current fetch target
func (p *Pager) Page() int { return p.page }

// HasMore is false once the last page has been loaded
func (p *Pager) HasMore() bool { return p.hasMore }

// Loading reports a fetch in flight
func (p *Pager) Loading() bool { return p.loading }

// Advance moves to the next page when more pages exist and no fetch is
// in flight. After a failed fetch the failed page is targeted again
// instead of being skipped.
func (p *Pager) Advance() bool {
	if !p.hasMore || p.loading {
		return false
	}

	if p.failed {
		p.failed = false
		return true
	}

	p.page++
	return true
}

// Retry targets the failed page again. It reports false when the last
// fetch did not fail or a fetch is in flight.
func (p *Pager) Retry() bool {
	if !p.failed || p.loading {
		return false
	}

	p.failed = false
	return true
}

// Reset goes back to page 1. The owner clears the accumulated profiles
// in the same step.
func (p *Pager) Reset() {
	p.page = 1
	p.hasMore = true
	p.loading = false
	p.failed = false
}

// Begin marks a fetch in flight
func (p *Pager) Begin() {
	p.loading = true
}

// Complete records a successful fetch
func (p *Pager) Complete(pagination model.Pagination) {
	p.loading = false
	p.failed = false
	p.hasMore = pagination.CurrentPage < pagination.Pages
}

// Fail records a failed fetch. HasMore is left as is so the page can be
// fetched again.
func (p *Pager) Fail() {
	p.loading = false
	p.failed = true
}
