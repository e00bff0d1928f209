package database

import (
	"context"
	"errors"

	"github.com/davidnwogucodes/sadaora/model"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrNotFound is returned when a profile does not exist
var ErrNotFound = errors.New("profile not found")

// profileProjection returns the editable properties of p as a map
const profileProjection = "p {.id, .name, .headline, .bio, .photoUrl, .interests}"

// Graph stores profiles and FOLLOWS edges in Memgraph
// (or any bolt compatible graph database)
type Graph struct {
	driver neo4j.DriverWithContext
}

// Init create the driver for the graph database connection
func Init(ctx context.Context, url, username, password string) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return &Graph{driver: driver}, nil
}

// Close closes the driver
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// makeRequest is a simple way to send a query
// and get the first value of the first record
func (g *Graph) makeRequest(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]any) (any, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	work := func(transaction neo4j.ManagedTransaction) (any, error) {
		result, err := transaction.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		if result.Next(ctx) {
			return result.Record().Values[0], nil
		}

		return nil, result.Err()
	}

	if mode == neo4j.AccessModeRead {
		return session.ExecuteRead(ctx, work)
	}
	return session.ExecuteWrite(ctx, work)
}

// CreateProfile allows to create a new profile into the graph database
func (g *Graph) CreateProfile(ctx context.Context, profile model.Profile) error {
	_, err := g.makeRequest(ctx, neo4j.AccessModeWrite,
		"CREATE (p:Profile {id: $id, name: $name, headline: $headline, bio: $bio, photoUrl: $photoUrl, interests: $interests, rank: 0});",
		profileParams(profile.Id, profile.Name, profile.Headline, profile.Bio, profile.PhotoUrl, profile.Interests))
	return err
}

// GetProfile returns the profile with the given id
func (g *Graph) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	res, err := g.makeRequest(ctx, neo4j.AccessModeRead,
		"MATCH (p:Profile {id: $id}) RETURN "+profileProjection+";",
		map[string]any{"id": id})
	if err != nil {
		return model.Profile{}, err
	}

	m, ok := res.(map[string]any)
	if !ok {
		return model.Profile{}, ErrNotFound
	}

	return profileFromMap(m), nil
}

// UpdateProfile replaces the editable fields of a profile.
// Empty optional fields are removed
func (g *Graph) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.Profile, error) {
	var photo *string
	if update.PhotoUrl != "" {
		photo = &update.PhotoUrl
	}

	res, err := g.makeRequest(ctx, neo4j.AccessModeWrite,
		"MATCH (p:Profile {id: $id}) SET p.name = $name, p.headline = $headline, p.bio = $bio, p.photoUrl = $photoUrl, p.interests = $interests RETURN "+profileProjection+";",
		profileParams(id, update.Name, update.Headline, update.Bio, photo, update.Interests))
	if err != nil {
		return model.Profile{}, err
	}

	m, ok := res.(map[string]any)
	if !ok {
		return model.Profile{}, ErrNotFound
	}

	return profileFromMap(m), nil
}

// DeleteProfile allows to remove a profile and every relation of it
func (g *Graph) DeleteProfile(ctx context.Context, id string) error {
	res, err := g.makeRequest(ctx, neo4j.AccessModeWrite,
		"MATCH (p:Profile {id: $id}) DETACH DELETE p RETURN count(*);",
		map[string]any{"id": id})
	if err != nil {
		return err
	}

	if n, _ := res.(int64); n == 0 {
		return ErrNotFound
	}

	return nil
}

// Feed returns a page of profiles the viewer may discover, and the number
// of matching profiles. An empty interests list disables the filter;
// interests are expected in lower case
func (g *Graph) Feed(ctx context.Context, viewer string, interests []string, page, size int) ([]model.Profile, int, error) {
	if interests == nil {
		interests = []string{}
	}

	params := map[string]any{
		"viewer":    viewer,
		"interests": interests,
		"skip":      (page - 1) * size,
		"limit":     size,
	}
	where := "WHERE p.id <> $viewer AND (size($interests) = 0 OR any(i IN coalesce(p.interests, []) WHERE toLower(i) IN $interests))"

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	profiles := make([]model.Profile, 0, size)
	var total int

	_, err := session.ExecuteRead(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		profiles = profiles[:0]

		result, err := transaction.Run(ctx, "MATCH (p:Profile) "+where+" RETURN count(p);", params)
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			count, _ := result.Record().Values[0].(int64)
			total = int(count)
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		result, err = transaction.Run(ctx,
			"MATCH (p:Profile) "+where+" RETURN "+profileProjection+" ORDER BY coalesce(p.rank, 0) DESC, p.id SKIP $skip LIMIT $limit;",
			params)
		if err != nil {
			return nil, err
		}

		for result.Next(ctx) {
			if m, ok := result.Record().Values[0].(map[string]any); ok {
				profiles = append(profiles, profileFromMap(m))
			}
		}

		return nil, result.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// IsFollowing check if a profile (id) follows another one (to)
// and respond with true if a relation (edge) exists
// or with false if no relation exists
func (g *Graph) IsFollowing(ctx context.Context, id, to string) (bool, error) {
	res, err := g.makeRequest(ctx, neo4j.AccessModeRead,
		"MATCH (a:Profile {id: $id})-[:FOLLOWS]->(b:Profile {id: $to}) RETURN a.id;",
		map[string]any{"id": id, "to": to})
	if err != nil {
		return false, err
	}

	return res != nil, nil
}

// Follow creates the FOLLOWS edge between two profiles.
// Following twice keeps a single edge
func (g *Graph) Follow(ctx context.Context, id, to string) error {
	res, err := g.makeRequest(ctx, neo4j.AccessModeWrite,
		"MATCH (a:Profile {id: $id}), (b:Profile {id: $to}) MERGE (a)-[:FOLLOWS]->(b) RETURN b.id;",
		map[string]any{"id": id, "to": to})
	if err != nil {
		return err
	} else if res == nil {
		return ErrNotFound
	}

	return nil
}

// Unfollow deletes the FOLLOWS edge between two profiles, if any
func (g *Graph) Unfollow(ctx context.Context, id, to string) error {
	_, err := g.makeRequest(ctx, neo4j.AccessModeWrite,
		"MATCH (a:Profile {id: $id})-[r:FOLLOWS]->(:Profile {id: $to}) DELETE r;",
		map[string]any{"id": id, "to": to})
	return err
}

// RankProfiles stores the follower count of every profile as its rank,
// which orders the feed
func (g *Graph) RankProfiles(ctx context.Context) (int64, error) {
	res, err := g.makeRequest(ctx, neo4j.AccessModeWrite,
		"MATCH (p:Profile) OPTIONAL MATCH (f:Profile)-[:FOLLOWS]->(p) WITH p, count(f) AS followers SET p.rank = followers RETURN count(p);",
		nil)
	if err != nil {
		return 0, err
	}

	n, _ := res.(int64)
	return n, nil
}

// Pages returns how many pages of size items are needed for total items.
// There is always at least one page
func Pages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}

	return (total + size - 1) / size
}

func profileParams(id, name, headline, bio string, photo *string, interests []string) map[string]any {
	params := map[string]any{
		"id":        id,
		"name":      name,
		"headline":  nil,
		"bio":       nil,
		"photoUrl":  nil,
		"interests": interests,
	}
	if headline != "" {
		params["headline"] = headline
	}
	if bio != "" {
		params["bio"] = bio
	}
	if photo != nil && *photo != "" {
		params["photoUrl"] = *photo
	}
	if interests == nil {
		params["interests"] = []string{}
	}

	return params
}

// profileFromMap converts a profile projection into a model.Profile
func profileFromMap(m map[string]any) model.Profile {
	var profile model.Profile

	profile.Id, _ = m["id"].(string)
	profile.Name, _ = m["name"].(string)
	profile.Headline, _ = m["headline"].(string)
	profile.Bio, _ = m["bio"].(string)

	if photo, ok := m["photoUrl"].(string); ok && photo != "" {
		profile.PhotoUrl = &photo
	}

	profile.Interests = make([]string, 0)
	if list, ok := m["interests"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				profile.Interests = append(profile.Interests, s)
			}
		}
	}

	return profile
}
