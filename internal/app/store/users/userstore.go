// internal/app/store/users/userstore.go
package userstore

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

// Store persists users in the "users" collection, keyed by slack_id.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Put validates the user and writes it with upsert semantics: the record
// is created or overwritten whole by slack_id. An invalid record writes
// nothing and returns (false, nil): a signaled outcome, not a fault.
//
// Concurrent writes to the same slack_id are last-writer-wins; there is no
// optimistic-concurrency token. Callers adding concurrency control must
// re-read between conflicting writes.
func (s *Store) Put(ctx context.Context, u *models.User) (bool, error) {
	if u == nil || !u.IsValid() {
		return false, nil
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"slack_id": u.SlackID}, u,
		options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("put user %s: %w", u.SlackID, err)
	}
	return true, nil
}

// Get loads a user by slack_id. Returns store.ErrNotFound when no record
// exists; any other error means the store is unavailable.
func (s *Store) Get(ctx context.Context, slackID string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"slack_id": slackID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", slackID, err)
	}
	return &u, nil
}

// Delete removes the user with the given slack_id. Deleting an absent
// record is a no-op.
func (s *Store) Delete(ctx context.Context, slackID string) error {
	if _, err := s.c.DeleteOne(ctx, bson.M{"slack_id": slackID}); err != nil {
		return fmt.Errorf("delete user %s: %w", slackID, err)
	}
	return nil
}

// Query returns every user matching all predicates. An empty predicate
// list returns the whole collection. Order is unspecified.
func (s *Store) Query(ctx context.Context, preds []query.Predicate) ([]models.User, error) {
	cur, err := s.c.Find(ctx, query.And(preds))
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return out, nil
}
