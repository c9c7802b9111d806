// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given Slack ID and permission level.
func (f *Fixtures) CreateUser(ctx context.Context, slackID string, perm models.Permission) models.User {
	f.t.Helper()

	user := models.User{
		SlackID:    slackID,
		Name:       "Test User " + slackID,
		Email:      slackID + "@test.com",
		Permission: perm,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateMember inserts a member-level user.
func (f *Fixtures) CreateMember(ctx context.Context, slackID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, slackID, models.PermissionMember)
}

// CreateTeamLead inserts a team-lead-level user.
func (f *Fixtures) CreateTeamLead(ctx context.Context, slackID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, slackID, models.PermissionTeamLead)
}

// CreateAdmin inserts an admin-level user.
func (f *Fixtures) CreateAdmin(ctx context.Context, slackID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, slackID, models.PermissionAdmin)
}

// CreateTeam inserts a team with the given GitHub team ID and members.
func (f *Fixtures) CreateTeam(ctx context.Context, githubTeamID string, members ...string) models.Team {
	f.t.Helper()

	team := models.Team{
		GithubTeamID: githubTeamID,
		DisplayName:  "Team " + githubTeamID,
		Platform:     "slack",
		Members:      members,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// CreateProject inserts a project with the given ID and tags.
func (f *Fixtures) CreateProject(ctx context.Context, projectID string, tags ...string) models.Project {
	f.t.Helper()

	project := models.Project{
		ProjectID:   projectID,
		DisplayName: "Project " + projectID,
		Description: "Test project description",
		Tags:        tags,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return project
}
