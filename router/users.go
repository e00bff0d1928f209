package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/davidnwogucodes/sadaora/database"
	"github.com/davidnwogucodes/sadaora/model"
)

// CreateMe creates the profile of the signed-in user on first sign in.
// The profile id is the token subject
func (h *Handler) CreateMe(w http.ResponseWriter, req *http.Request) {
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

	_, err = h.Store.GetProfile(req.Context(), vanity)
	if err == nil {
		writeError(w, http.StatusConflict, ErrorProfileExists)
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		h.logger().Error("cannot get profile", "id", vanity, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	profile := ProfileFromUpdate(vanity, update)
	if err := h.Store.CreateProfile(req.Context(), profile); err != nil {
		h.logger().Error("cannot create profile", "id", vanity, "error", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

// ProfileFromUpdate builds a new profile from normalized fields
func ProfileFromUpdate(id string, update model.ProfileUpdate) model.Profile {
	profile := model.Profile{
		Id:        id,
		Name:      update.Name,
		Headline:  update.Headline,
		Bio:       update.Bio,
		Interests: update.Interests,
	}
	if update.PhotoUrl != "" {
		photo := update.PhotoUrl
		profile.PhotoUrl = &photo
	}
	if profile.Interests == nil {
		profile.Interests = []string{}
	}

	return profile
}
