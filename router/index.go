package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/davidnwogucodes/sadaora/model"
)

const ME = "me"

// Every possible error list
const (
	ErrorInternalServerError = "Internal server error"
	ErrorInvalidToken        = "Invalid token"
	ErrorInvalidBody         = "Invalid body"
	ErrorInvalidRelation     = "Invalid relation"
	ErrorInvalidQuery        = "Invalid query"
	ErrorInvalidUser         = "Invalid user"
	ErrorMethodNotAllowed    = "Method not allowed"
	ErrorNameRequired        = "Name is required"
	ErrorNotFound            = "Not found"
	ErrorProfileExists       = "Profile already exists"
	ErrorUnableReadBody      = "Unable to read body"
)

// Every OK message reponse
const (
	Ok                = "OK"
	OkCreatedRelation = "Created relation"
	OkDeletedRelation = "Deleted relation"
	OkDeletedProfile  = "Deleted profile"
)

// Store is the graph storage behind the routes
type Store interface {
	CreateProfile(ctx context.Context, profile model.Profile) error
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	Feed(ctx context.Context, viewer string, interests []string, page, size int) ([]model.Profile, int, error)
	IsFollowing(ctx context.Context, id, to string) (bool, error)
	Follow(ctx context.Context, id, to string) error
	Unfollow(ctx context.Context, id, to string) error
}

// FeedCache keeps feed pages for a short time
type FeedCache interface {
	GetFeed(key string) (model.FeedPage, bool)
	SetFeed(key string, page model.FeedPage)
}

// Publisher sends follow events
type Publisher interface {
	Publish(subject string, message model.Message)
}

// TokenChecker returns the subject of a valid bearer token
type TokenChecker interface {
	CheckToken(token string) (string, error)
}

// FollowCounter counts follow actions
type FollowCounter interface {
	IncrementFollow(action string)
}

// Handler serves the feed and profile routes.
// Cache, Publisher and Metrics are optional
type Handler struct {
	Store     Store
	Auth      TokenChecker
	Cache     FeedCache
	Publisher Publisher
	Metrics   FollowCounter
	PageSize  int
	Logger    *slog.Logger
}

// Index is the main route, which is notably there
// for the healthcheck
func Index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, Ok)
}

// writeJSON encodes v with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError answers with a model.RequestError
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.RequestError{
		Error:   true,
		Message: message,
	})
}

// authenticate returns the id of the signed-in user,
// or answers 401 and returns false
func (h *Handler) authenticate(w http.ResponseWriter, req *http.Request) (string, bool) {
	if req.Header.Get("Authorization") == "" {
		writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return "", false
	}

	vanity, err := h.Auth.CheckToken(req.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return "", false
	}

	return vanity, true
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
