package main

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/davidnwogucodes/sadaora/helpers"
	"github.com/davidnwogucodes/sadaora/model"
)

func TestCreateToken(t *testing.T) {
	auth := helpers.NewAuth("test-secret")

	jwt, err := auth.CreateToken("dssfsddfdf", time.Hour)
	if err != nil {
		t.Fatalf(`CreateToken("dssfsddfdf") error = %v`, err)
	}

	jwtCheck := regexp.MustCompile(`(^[A-Za-z0-9-_]*\.[A-Za-z0-9-_]*\.[A-Za-z0-9-_]*$)`)
	if !jwtCheck.MatchString(jwt) {
		t.Fatalf(`CreateToken("dssfsddfdf") = %q, want match for %#q, nil`, jwt, jwtCheck)
	}

	subject, err := auth.CheckToken("Bearer " + jwt)
	if err != nil || subject != "dssfsddfdf" {
		t.Fatalf(`CheckToken() = %q, %v, want "dssfsddfdf", nil`, subject, err)
	}
}

func TestCheckTokenRejects(t *testing.T) {
	auth := helpers.NewAuth("test-secret")

	other, _ := helpers.NewAuth("other-secret").CreateToken("user", time.Hour)
	if _, err := auth.CheckToken(other); err == nil {
		t.Error("CheckToken() accepted a token signed with another secret")
	}

	expired, _ := auth.CreateToken("user", -time.Minute)
	if _, err := auth.CheckToken(expired); err == nil {
		t.Error("CheckToken() accepted an expired token")
	}
}

type seedRecorder struct{ profiles []model.Profile }

func (r *seedRecorder) CreateProfile(_ context.Context, p model.Profile) error {
	r.profiles = append(r.profiles, p)
	return nil
}

func TestSeedProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	data := `[{"id":"ada","name":" Ada ","interests":["music"," "]},{"name":"Bob","photoUrl":"https://img/b.png"}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := &seedRecorder{}
	n, err := seedProfiles(context.Background(), rec, path)
	if err != nil || n != 2 {
		t.Fatalf("seedProfiles() = %d, %v; want 2, nil", n, err)
	}

	if rec.profiles[0].Id != "ada" || rec.profiles[0].Name != "Ada" || len(rec.profiles[0].Interests) != 1 {
		t.Errorf("first profile = %+v", rec.profiles[0])
	}
	if rec.profiles[1].Id == "" || rec.profiles[1].PhotoUrl == nil {
		t.Errorf("second profile = %+v, want generated id and photo", rec.profiles[1])
	}
}

func TestSeedProfilesRequiresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte(`[{"name":"  "}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := seedProfiles(context.Background(), &seedRecorder{}, path); err == nil {
		t.Fatal("seedProfiles() accepted a profile without name")
	}
}
