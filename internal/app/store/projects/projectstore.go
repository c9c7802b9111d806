// internal/app/store/projects/projectstore.go
package projectstore

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

// Store persists projects in the "projects" collection, keyed by
// project_id.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Put validates the project and writes it with upsert semantics. Invalid
// records write nothing and return (false, nil). Writes to the same
// project_id are last-writer-wins.
func (s *Store) Put(ctx context.Context, p *models.Project) (bool, error) {
	if p == nil || !p.IsValid() {
		return false, nil
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"project_id": p.ProjectID}, p,
		options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("put project %s: %w", p.ProjectID, err)
	}
	return true, nil
}

// Get loads a project by project_id, returning store.ErrNotFound when no
// record exists.
func (s *Store) Get(ctx context.Context, projectID string) (*models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"project_id": projectID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	return &p, nil
}

// Delete removes the project with the given project_id. Deleting an
// absent record is a no-op.
func (s *Store) Delete(ctx context.Context, projectID string) error {
	if _, err := s.c.DeleteOne(ctx, bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	return nil
}

// Query returns every project matching all predicates. Predicates on
// "tags" and "github_urls" mean set containment.
func (s *Store) Query(ctx context.Context, preds []query.Predicate) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, query.And(preds))
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return out, nil
}
