package teamstore_test

import (
	"errors"
	"testing"

	"github.com/opsdeck/crewbot/internal/app/store"
	"github.com/opsdeck/crewbot/internal/app/store/query"
	teamstore "github.com/opsdeck/crewbot/internal/app/store/teams"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"github.com/opsdeck/crewbot/internal/testutil"
)

func TestTeamRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	s := teamstore.New(db)

	team := &models.Team{
		GithubTeamID: "platform",
		DisplayName:  "Platform",
		Platform:     "slack",
		Members:      []string{"U1", "U2"},
	}
	ok, err := s.Put(ctx, team)
	if err != nil || !ok {
		t.Fatalf("put: got (%v, %v)", ok, err)
	}

	got, err := s.Get(ctx, "platform")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DisplayName != "Platform" || len(got.Members) != 2 {
		t.Errorf("round trip mismatch: got %+v", got)
	}

	ok, err = s.Put(ctx, &models.Team{DisplayName: "No Key"})
	if err != nil || ok {
		t.Errorf("put invalid: got (%v, %v), want (false, nil)", ok, err)
	}

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get missing: got %v, want store.ErrNotFound", err)
	}
}

func TestTeamMembershipQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	s := teamstore.New(db)
	f := testutil.NewFixtures(t, db)

	f.CreateTeam(ctx, "alpha", "U1", "U2")
	f.CreateTeam(ctx, "beta", "U2", "U3")
	f.CreateTeam(ctx, "gamma")

	// Containment, not whole-field equality: U2 is in two teams.
	got, err := s.Query(ctx, []query.Predicate{
		query.For(models.KindTeam, "members", "U2"),
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("members containment: got %d teams, want 2", len(got))
	}

	only, err := s.Query(ctx, []query.Predicate{
		query.For(models.KindTeam, "members", "U3"),
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(only) != 1 || only[0].GithubTeamID != "beta" {
		t.Errorf("U3 containment: got %+v, want beta", only)
	}
}

func TestTeamDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	s := teamstore.New(db)
	f := testutil.NewFixtures(t, db)

	f.CreateTeam(ctx, "alpha", "U1")
	if err := s.Delete(ctx, "alpha"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "alpha"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}
