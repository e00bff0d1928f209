package database

import (
	"strings"
	"testing"

	"github.com/davidnwogucodes/sadaora/model"
	"github.com/google/go-cmp/cmp"
)

func TestPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := Pages(tt.total, tt.size); got != tt.want {
			t.Errorf("Pages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestProfileFromMap(t *testing.T) {
	photo := "https://img.test/a.png"
	got := profileFromMap(map[string]any{
		"id":        "a",
		"name":      "Ada",
		"headline":  nil,
		"bio":       "math",
		"photoUrl":  photo,
		"interests": []any{"music", "art", 3},
	})

	want := model.Profile{
		Id:        "a",
		Name:      "Ada",
		Bio:       "math",
		PhotoUrl:  &photo,
		Interests: []string{"music", "art"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profileFromMap() mismatch (-want +got):\n%s", diff)
	}

	empty := profileFromMap(map[string]any{"id": "b", "photoUrl": ""})
	if empty.PhotoUrl != nil || empty.Interests == nil {
		t.Errorf("profileFromMap() = %+v, want nil photo and empty interests", empty)
	}
}

func TestProfileParams(t *testing.T) {
	params := profileParams("a", "Ada", "", "bio", nil, nil)
	if params["headline"] != nil || params["photoUrl"] != nil {
		t.Errorf("empty optional fields must be nil: %v", params)
	}
	if diff := cmp.Diff([]string{}, params["interests"]); diff != "" {
		t.Errorf("interests mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedKey(t *testing.T) {
	a := FeedKey("viewer", "music, art", 1)
	b := FeedKey("viewer", "music, art", 2)
	c := FeedKey("viewer", "", 1)

	if a == b || a == c {
		t.Fatalf("keys must differ: %q %q %q", a, b, c)
	}
	if strings.ContainsAny(a, " \n") {
		t.Errorf("key %q contains whitespace", a)
	}
}
