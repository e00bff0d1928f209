package router

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter creates the routes of the feed service.
// API routes live under /api, like the web front end expects
func NewRouter(h *Handler) *mux.Router {
	if h.PageSize <= 0 {
		h.PageSize = 10
	}

	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorNotFound)
	})

	r.HandleFunc("/", Index).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/feed", h.Feed).Methods(http.MethodGet)
	api.HandleFunc("/feed/filter", h.FilterFeed).Methods(http.MethodGet)

	// /profile/me must be registered before /profile/{id}/follow
	api.HandleFunc("/profile/"+ME, h.Me).Methods(http.MethodGet)
	api.HandleFunc("/profile/"+ME, h.CreateMe).Methods(http.MethodPost)
	api.HandleFunc("/profile/"+ME, h.UpdateMe).Methods(http.MethodPut)
	api.HandleFunc("/profile/"+ME, h.DeleteMe).Methods(http.MethodDelete)

	api.HandleFunc("/profile/{id}/follow", h.FollowStatus).Methods(http.MethodGet)
	api.HandleFunc("/profile/{id}/follow", h.Follow).Methods(http.MethodPost)
	api.HandleFunc("/profile/{id}/follow", h.Unfollow).Methods(http.MethodDelete)

	return r
}
