package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/davidnwogucodes/sadaora/database"
	"github.com/davidnwogucodes/sadaora/model"
)

// Me returns the profile of the signed-in user
func (h *Handler) Me(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	profile, err := h.Store.GetProfile(req.Context(), vanity)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		h.logger().Error("cannot get profile", "id", vanity, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateMe handles put method, allows to update profile data
func (h *Handler) UpdateMe(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	defer req.Body.Close()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	var getbody model.ProfileUpdate
	if err := json.Unmarshal(body, &getbody); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	update, ok := NormalizeUpdate(getbody)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorNameRequired)
		return
	}

	profile, err := h.Store.UpdateProfile(req.Context(), vanity, update)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		h.logger().Error("cannot update profile", "id", vanity, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// DeleteMe allows users to delete their profile
func (h *Handler) DeleteMe(w http.ResponseWriter, req *http.Request) {
	vanity, ok := h.authenticate(w, req)
	if !ok {
		return
	}

	err := h.Store.DeleteProfile(req.Context(), vanity)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		h.logger().Error("cannot delete profile", "id", vanity, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, model.RequestError{
		Error:   false,
		Message: OkDeletedProfile,
	})
}

// NormalizeUpdate trims every field and drops empty interests.
// It reports false when the name is missing
func NormalizeUpdate(update model.ProfileUpdate) (model.ProfileUpdate, bool) {
	out := model.ProfileUpdate{
		Name:     strings.TrimSpace(update.Name),
		Bio:      strings.TrimSpace(update.Bio),
		Headline: strings.TrimSpace(update.Headline),
		PhotoUrl: strings.TrimSpace(update.PhotoUrl),
	}
	if out.Name == "" {
		return model.ProfileUpdate{}, false
	}

	for _, interest := range update.Interests {
		if interest = strings.TrimSpace(interest); interest != "" {
			out.Interests = append(out.Interests, interest)
		}
	}

	return out, true
}
