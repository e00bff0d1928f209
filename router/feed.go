package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/davidnwogucodes/sadaora/database"
	"github.com/davidnwogucodes/sadaora/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Feed handles GET /feed?page={n}
func (h *Handler) Feed(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	page, ok := pageQuery(w, req)
	if !ok {
		return
	}

	h.serveFeed(w, req, vanity, nil, page)
}

// FilterFeed handles GET /feed/filter?page={n}&interests={csv}
func (h *Handler) FilterFeed(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	page, ok := pageQuery(w, req)
	if !ok {
		return
	}

	interests := ParseInterests(req.URL.Query().Get("interests"))
	if len(interests) == 0 {
		writeError(w, http.StatusBadRequest, ErrorInvalidQuery)
		return
	}

	h.serveFeed(w, req, vanity, interests, page)
}

func (h *Handler) serveFeed(w http.ResponseWriter, req *http.Request, vanity string, interests []string, page int) {
	key := database.FeedKey(vanity, strings.Join(interests, ","), page)
	if h.Cache != nil {
		if cached, ok := h.Cache.GetFeed(key); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	profiles, total, err := h.Store.Feed(req.Context(), vanity, interests, page, h.PageSize)
	if err != nil {
		h.logger().Error("cannot get feed", "viewer", vanity, "page", page, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	if profiles == nil {
		profiles = make([]model.Profile, 0)
	}

	feed := model.FeedPage{
		Profiles: profiles,
		Pagination: model.Pagination{
			CurrentPage: page,
			Pages:       database.Pages(total, h.PageSize),
		},
	}

	if h.Cache != nil {
		h.Cache.SetFeed(key, feed)
	}

	writeJSON(w, http.StatusOK, feed)
}

// pageQuery reads the page query parameter, 1 when absent
func pageQuery(w http.ResponseWriter, req *http.Request) (int, bool) {
	raw := req.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, ErrorInvalidQuery)
		return 0, false
	}

	return page, true
}

// ParseInterests splits a comma separated interest list. Tags are trimmed,
// lower-cased and deduplicated; empty tags are dropped
func ParseInterests(csv string) []string {
	lower := cases.Lower(language.English)

	var interests []string
	seen := make(map[string]bool)
	for _, tag := range strings.Split(csv, ",") {
		tag = lower.String(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}

		seen[tag] = true
		interests = append(interests, tag)
	}

	return interests
}
