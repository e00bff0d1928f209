package router

import (
	"errors"
	"net/http"

	"github.com/davidnwogucodes/sadaora/database"
	"github.com/davidnwogucodes/sadaora/helpers"
	"github.com/davidnwogucodes/sadaora/model"
	"github.com/gorilla/mux"
)

// FollowStatus handles route to know if the signed-in user
// follows the profile {id}
func (h *Handler) FollowStatus(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	target := mux.Vars(req)["id"]
	if target == vanity {
		writeJSON(w, http.StatusOK, model.FollowStatus{IsFollowing: false})
		return
	}

	is, err := h.Store.IsFollowing(req.Context(), vanity, target)
	if err != nil {
		h.logger().Error("cannot read relation", "from", vanity, "to", target, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, model.FollowStatus{IsFollowing: is})
}

// Follow is a route for allowing users to follow each other.
// Following an already followed profile succeeds
func (h *Handler) Follow(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	target := mux.Vars(req)["id"]
	if target == vanity {
		writeError(w, http.StatusBadRequest, ErrorInvalidRelation)
		return
	}

	if err := h.Store.Follow(req.Context(), vanity, target); errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		h.logger().Error("cannot create relation", "from", vanity, "to", target, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	h.notify(helpers.SubjectFollow, "follow", vanity, target)
	writeJSON(w, http.StatusOK, model.RequestError{
		Error:   false,
		Message: OkCreatedRelation,
	})
}

// Unfollow is a route to stop following a profile.
// Unfollowing a profile which is not followed succeeds
func (h *Handler) Unfollow(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	target := mux.Vars(req)["id"]
	if err := h.Store.Unfollow(req.Context(), vanity, target); err != nil {
		h.logger().Error("cannot delete relation", "from", vanity, "to", target, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	h.notify(helpers.SubjectUnfollow, "unfollow", vanity, target)
	writeJSON(w, http.StatusOK, model.RequestError{
		Error:   false,
		Message: OkDeletedRelation,
	})
}

func (h *Handler) notify(subject, action, from, to string) {
	if h.Metrics != nil {
		h.Metrics.IncrementFollow(action)
	}
	if h.Publisher != nil {
		h.Publisher.Publish(subject, model.Message{Type: action, From: from, To: to})
	}
}
