package feed

import (
	"context"
	"log/slog"

	"github.com/davidnwogucodes/sadaora/model"
	"golang.org/x/sync/errgroup"
)

// FollowLookup returns whether the session user follows a profile
type FollowLookup interface {
	FollowStatus(ctx context.Context, id string) (bool, error)
}

// Reconciler merges follow status into fetched pages and owns the
// accumulated profile list.
//
// Enrich may run on any goroutine. The list methods must only be called
// by the goroutine owning the list.
type Reconciler struct {
	lookup FollowLookup
	limit  int
	logger *slog.Logger

	profiles []model.Profile
	index    map[string]int
}

// NewReconciler creates a Reconciler issuing at most limit lookups at once
func NewReconciler(lookup FollowLookup, limit int, logger *slog.Logger) *Reconciler {
	if limit <= 0 {
		limit = 8
	}

	return &Reconciler{
		lookup: lookup,
		limit:  limit,
		logger: logger,
		index:  make(map[string]int),
	}
}

// Enrich looks up the follow status of every profile concurrently.
// A failed lookup counts as not following. The page order is kept.
func (r *Reconciler) Enrich(ctx context.Context, profiles []model.Profile) []model.Profile {
	out := make([]model.Profile, len(profiles))
	copy(out, profiles)

	var g errgroup.Group
	g.SetLimit(r.limit)

	for i := range out {
		i := i
		g.Go(func() error {
			following, err := r.lookup.FollowStatus(ctx, out[i].Id)
			if err != nil {
				r.logger.Debug("follow lookup failed", "profile", out[i].Id, "error", err)
				following = false
			}
			out[i].IsFollowing = following
			return nil
		})
	}

	// lookups never return an error
	_ = g.Wait()

	return out
}

// Append adds profiles after the accumulated ones, skipping ids already
// present. It returns how many were added.
func (r *Reconciler) Append(profiles []model.Profile) int {
	added := 0
	for _, p := range profiles {
		if _, ok := r.index[p.Id]; ok {
			continue
		}

		r.index[p.Id] = len(r.profiles)
		r.profiles = append(r.profiles, p)
		added++
	}

	return added
}

// Clear drops the accumulated profiles
func (r *Reconciler) Clear() {
	r.profiles = nil
	r.index = make(map[string]int)
}

// MarkFollowed sets isFollowing on the profile id, reporting whether
// the profile is in the list
func (r *Reconciler) MarkFollowed(id string) bool {
	_, ok := r.mark(id, true)
	return ok
}

// MarkUnfollowed clears isFollowing on the profile id, reporting whether
// the profile is in the list
func (r *Reconciler) MarkUnfollowed(id string) bool {
	_, ok := r.mark(id, false)
	return ok
}

// mark sets the follow flag and returns the previous one
func (r *Reconciler) mark(id string, following bool) (bool, bool) {
	i, ok := r.index[id]
	if !ok {
		return false, false
	}

	prev := r.profiles[i].IsFollowing
	r.profiles[i].IsFollowing = following
	return prev, true
}

// Len is the number of accumulated profiles
func (r *Reconciler) Len() int { return len(r.profiles) }

// LastID is the id of the last accumulated profile, empty when none
func (r *Reconciler) LastID() string {
	if len(r.profiles) == 0 {
		return ""
	}
	return r.profiles[len(r.profiles)-1].Id
}

// Profiles returns a copy of the accumulated profiles
func (r *Reconciler) Profiles() []model.Profile {
	out := make([]model.Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}
