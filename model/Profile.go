package model

// Profile struct defines how a discoverable user is sent
// on the feed and on the profile routes
type Profile struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Headline    string   `json:"headline,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	PhotoUrl    *string  `json:"photoUrl"`
	Interests   []string `json:"interests"`
	IsFollowing bool     `json:"isFollowing"`
}

// ProfileUpdate defines the body of the PUT /profile/me route.
// Optional fields are omitted when empty
type ProfileUpdate struct {
	Name      string   `json:"name"`
	Bio       string   `json:"bio,omitempty"`
	Headline  string   `json:"headline,omitempty"`
	PhotoUrl  string   `json:"photoUrl,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// FollowStatus is the response of GET /profile/{id}/follow
type FollowStatus struct {
	IsFollowing bool `json:"isFollowing"`
}
