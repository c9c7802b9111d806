// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsdeck/crewbot/internal/app/store"
	"github.com/opsdeck/crewbot/internal/app/store/query"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists teams in the "teams" collection, keyed by github_team_id.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Put validates the team and writes it with upsert semantics. Invalid
// records write nothing and return (false, nil). Writes to the same
// github_team_id are last-writer-wins.
func (s *Store) Put(ctx context.Context, t *models.Team) (bool, error) {
	if t == nil || !t.IsValid() {
		return false, nil
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"github_team_id": t.GithubTeamID}, t,
		options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("put team %s: %w", t.GithubTeamID, err)
	}
	return true, nil
}

// Get loads a team by github_team_id, returning store.ErrNotFound when no
// record exists.
func (s *Store) Get(ctx context.Context, githubTeamID string) (*models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"github_team_id": githubTeamID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", githubTeamID, err)
	}
	return &t, nil
}

// Delete removes the team with the given github_team_id. Deleting an
// absent record is a no-op.
func (s *Store) Delete(ctx context.Context, githubTeamID string) error {
	if _, err := s.c.DeleteOne(ctx, bson.M{"github_team_id": githubTeamID}); err != nil {
		return fmt.Errorf("delete team %s: %w", githubTeamID, err)
	}
	return nil
}

// Query returns every team matching all predicates. A predicate on
// "members" means set containment (query.For handles the distinction).
func (s *Store) Query(ctx context.Context, preds []query.Predicate) ([]models.Team, error) {
	cur, err := s.c.Find(ctx, query.And(preds))
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	return out, nil
}
