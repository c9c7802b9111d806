// internal/app/facade/facade.go
//
// Package facade is the sole interface through which commands and webhook
// handlers reach persisted entities. It adds no behavior beyond the store
// adapters; it exists so every consumer depends on one narrow interface
// and tests can substitute doubles without touching Mongo.
package facade

import (
	"context"

	projectstore "github.com/opsdeck/crewbot/internal/app/store/projects"
	"github.com/opsdeck/crewbot/internal/app/store/query"
	teamstore "github.com/opsdeck/crewbot/internal/app/store/teams"
	userstore "github.com/opsdeck/crewbot/internal/app/store/users"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBFacade is the persistence contract consumed by commands. Retrieve*
// is the only operation whose failure (store.ErrNotFound) callers are
// expected to catch and translate into a user-facing message.
type DBFacade interface {
	StoreUser(ctx context.Context, u *models.User) (bool, error)
	RetrieveUser(ctx context.Context, slackID string) (*models.User, error)
	QueryUser(ctx context.Context, preds []query.Predicate) ([]models.User, error)
	DeleteUser(ctx context.Context, slackID string) error

	StoreTeam(ctx context.Context, t *models.Team) (bool, error)
	RetrieveTeam(ctx context.Context, githubTeamID string) (*models.Team, error)
	QueryTeam(ctx context.Context, preds []query.Predicate) ([]models.Team, error)
	DeleteTeam(ctx context.Context, githubTeamID string) error

	StoreProject(ctx context.Context, p *models.Project) (bool, error)
	RetrieveProject(ctx context.Context, projectID string) (*models.Project, error)
	QueryProject(ctx context.Context, preds []query.Predicate) ([]models.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
}

// Facade implements DBFacade over the three collection stores. It is
// constructed once at startup and shared; the underlying Mongo client is
// safe for concurrent use.
type Facade struct {
	users    *userstore.Store
	teams    *teamstore.Store
	projects *projectstore.Store
}

var _ DBFacade = (*Facade)(nil)

func New(db *mongo.Database) *Facade {
	return &Facade{
		users:    userstore.New(db),
		teams:    teamstore.New(db),
		projects: projectstore.New(db),
	}
}

func (f *Facade) StoreUser(ctx context.Context, u *models.User) (bool, error) {
	return f.users.Put(ctx, u)
}

func (f *Facade) RetrieveUser(ctx context.Context, slackID string) (*models.User, error) {
	return f.users.Get(ctx, slackID)
}

func (f *Facade) QueryUser(ctx context.Context, preds []query.Predicate) ([]models.User, error) {
	return f.users.Query(ctx, preds)
}

func (f *Facade) DeleteUser(ctx context.Context, slackID string) error {
	return f.users.Delete(ctx, slackID)
}

func (f *Facade) StoreTeam(ctx context.Context, t *models.Team) (bool, error) {
	return f.teams.Put(ctx, t)
}

func (f *Facade) RetrieveTeam(ctx context.Context, githubTeamID string) (*models.Team, error) {
	return f.teams.Get(ctx, githubTeamID)
}

func (f *Facade) QueryTeam(ctx context.Context, preds []query.Predicate) ([]models.Team, error) {
	return f.teams.Query(ctx, preds)
}

func (f *Facade) DeleteTeam(ctx context.Context, githubTeamID string) error {
	return f.teams.Delete(ctx, githubTeamID)
}

func (f *Facade) StoreProject(ctx context.Context, p *models.Project) (bool, error) {
	return f.projects.Put(ctx, p)
}

func (f *Facade) RetrieveProject(ctx context.Context, projectID string) (*models.Project, error) {
	return f.projects.Get(ctx, projectID)
}

func (f *Facade) QueryProject(ctx context.Context, preds []query.Predicate) ([]models.Project, error) {
	return f.projects.Query(ctx, preds)
}

func (f *Facade) DeleteProject(ctx context.Context, projectID string) error {
	return f.projects.Delete(ctx, projectID)
}
