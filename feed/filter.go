package feed

import "strings"

// Filter holds the active interest filter
type Filter struct {
	active string
}

// Active returns the trimmed filter, empty for the unfiltered feed
func (f *Filter) Active() string { return f.active }

// Set trims text and makes it the active filter.
// It reports false when text matches the active filter.
func (f *Filter) Set(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == f.active {
		return text, false
	}

	f.active = text
	return text, true
}
