// internal/testutil/fakefacade.go
package testutil

import (
	"context"

	"github.com/opsdeck/crewbot/internal/app/facade"
	"github.com/opsdeck/crewbot/internal/app/store"
	"github.com/opsdeck/crewbot/internal/app/store/query"
	"github.com/opsdeck/crewbot/internal/domain/models"
)

// FakeFacade is an in-memory DBFacade for tests that must not touch
// Mongo. Setting Err makes every operation fail with it, simulating an
// unavailable store.
type FakeFacade struct {
	Users    map[string]models.User
	Teams    map[string]models.Team
	Projects map[string]models.Project
	Err      error
}

var _ facade.DBFacade = (*FakeFacade)(nil)

func NewFakeFacade() *FakeFacade {
	return &FakeFacade{
		Users:    make(map[string]models.User),
		Teams:    make(map[string]models.Team),
		Projects: make(map[string]models.Project),
	}
}

func (f *FakeFacade) StoreUser(ctx context.Context, u *models.User) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	if u == nil || !u.IsValid() {
		return false, nil
	}
	f.Users[u.SlackID] = *u
	return true, nil
}

func (f *FakeFacade) RetrieveUser(ctx context.Context, slackID string) (*models.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	u, ok := f.Users[slackID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *FakeFacade) QueryUser(ctx context.Context, preds []query.Predicate) ([]models.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	var out []models.User
	for _, u := range f.Users {
		if matchAll(preds, func(p query.Predicate) bool { return matchUser(u, p) }) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *FakeFacade) DeleteUser(ctx context.Context, slackID string) error {
	if f.Err != nil {
		return f.Err
	}
	delete(f.Users, slackID)
	return nil
}

func (f *FakeFacade) StoreTeam(ctx context.Context, t *models.Team) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	if t == nil || !t.IsValid() {
		return false, nil
	}
	f.Teams[t.GithubTeamID] = *t
	return true, nil
}

func (f *FakeFacade) RetrieveTeam(ctx context.Context, githubTeamID string) (*models.Team, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	t, ok := f.Teams[githubTeamID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (f *FakeFacade) QueryTeam(ctx context.Context, preds []query.Predicate) ([]models.Team, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	var out []models.Team
	for _, t := range f.Teams {
		if matchAll(preds, func(p query.Predicate) bool { return matchTeam(t, p) }) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *FakeFacade) DeleteTeam(ctx context.Context, githubTeamID string) error {
	if f.Err != nil {
		return f.Err
	}
	delete(f.Teams, githubTeamID)
	return nil
}

func (f *FakeFacade) StoreProject(ctx context.Context, p *models.Project) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	if p == nil || !p.IsValid() {
		return false, nil
	}
	f.Projects[p.ProjectID] = *p
	return true, nil
}

func (f *FakeFacade) RetrieveProject(ctx context.Context, projectID string) (*models.Project, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	p, ok := f.Projects[projectID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *FakeFacade) QueryProject(ctx context.Context, preds []query.Predicate) ([]models.Project, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	var out []models.Project
	for _, p := range f.Projects {
		if matchAll(preds, func(pr query.Predicate) bool { return matchProject(p, pr) }) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeFacade) DeleteProject(ctx context.Context, projectID string) error {
	if f.Err != nil {
		return f.Err
	}
	delete(f.Projects, projectID)
	return nil
}

func matchAll(preds []query.Predicate, match func(query.Predicate) bool) bool {
	for _, p := range preds {
		if !match(p) {
			return false
		}
	}
	return true
}

func matchUser(u models.User, p query.Predicate) bool {
	switch p.Attr {
	case "slack_id":
		return u.SlackID == p.Value
	case "name":
		return u.Name == p.Value
	case "email":
		return u.Email == p.Value
	case "position":
		return u.Position == p.Value
	case "major":
		return u.Major == p.Value
	case "bio":
		return u.Biography == p.Value
	case "image_url":
		return u.ImageURL == p.Value
	case "github":
		return u.GithubUsername == p.Value
	case "permission_level":
		return u.Permission.String() == p.Value
	}
	return false
}

func matchTeam(t models.Team, p query.Predicate) bool {
	switch p.Attr {
	case "github_team_id":
		return t.GithubTeamID == p.Value
	case "display_name":
		return t.DisplayName == p.Value
	case "platform":
		return t.Platform == p.Value
	case "members":
		return t.HasMember(p.Value)
	}
	return false
}

func matchProject(pr models.Project, p query.Predicate) bool {
	switch p.Attr {
	case "project_id":
		return pr.ProjectID == p.Value
	case "display_name":
		return pr.DisplayName == p.Value
	case "description":
		return pr.Description == p.Value
	case "tags":
		return pr.HasTag(p.Value)
	case "github_urls":
		for _, u := range pr.GithubURLs {
			if u == p.Value {
				return true
			}
		}
	}
	return false
}
