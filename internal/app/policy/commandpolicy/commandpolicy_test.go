package commandpolicy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opsdeck/crewbot/internal/app/policy/commandpolicy"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"github.com/opsdeck/crewbot/internal/testutil"
)

func TestCheckThreeWayBranch(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewFakeFacade()
	db.Users["U_MEMBER"] = models.User{SlackID: "U_MEMBER", Permission: models.PermissionMember}
	db.Users["U_ADMIN"] = models.User{SlackID: "U_ADMIN", Permission: models.PermissionAdmin}

	res, err := commandpolicy.Check(ctx, db, "U_GHOST", models.PermissionMember)
	if err != nil {
		t.Fatalf("check unknown caller: %v", err)
	}
	if res.Outcome != commandpolicy.ActorNotFound {
		t.Errorf("unknown caller: got %v, want ActorNotFound", res.Outcome)
	}

	res, err = commandpolicy.Check(ctx, db, "U_MEMBER", models.PermissionAdmin)
	if err != nil {
		t.Fatalf("check underprivileged caller: %v", err)
	}
	if res.Outcome != commandpolicy.Denied {
		t.Errorf("underprivileged caller: got %v, want Denied", res.Outcome)
	}
	if res.Actor == nil || res.Actor.SlackID != "U_MEMBER" {
		t.Errorf("denied result should still carry the actor, got %+v", res.Actor)
	}

	res, err = commandpolicy.Check(ctx, db, "U_ADMIN", models.PermissionAdmin)
	if err != nil {
		t.Fatalf("check authorized caller: %v", err)
	}
	if res.Outcome != commandpolicy.Allowed {
		t.Errorf("authorized caller: got %v, want Allowed", res.Outcome)
	}
}

func TestCheckInfrastructureFailureIsAnError(t *testing.T) {
	db := testutil.NewFakeFacade()
	db.Err = errors.New("store down")

	_, err := commandpolicy.Check(context.Background(), db, "U1", models.PermissionMember)
	if err == nil {
		t.Fatal("store failure should surface as an error, not an outcome")
	}
}

func TestEditThreshold(t *testing.T) {
	cases := []struct {
		attr string
		self bool
		want models.Permission
	}{
		{"name", true, models.PermissionMember},
		{"name", false, models.PermissionTeamLead},
		{"bio", true, models.PermissionMember},
		{"github", false, models.PermissionTeamLead},
		{"permission_level", true, models.PermissionAdmin},
		{"permission_level", false, models.PermissionAdmin},
	}
	for _, c := range cases {
		got, ok := commandpolicy.EditThreshold(c.attr, c.self)
		if !ok {
			t.Errorf("EditThreshold(%s, self=%v): unexpectedly unknown", c.attr, c.self)
			continue
		}
		if got != c.want {
			t.Errorf("EditThreshold(%s, self=%v): got %s, want %s", c.attr, c.self, got, c.want)
		}
	}

	if _, ok := commandpolicy.EditThreshold("slack_id", true); ok {
		t.Error("the key attribute must not be editable")
	}
}

func TestRequiredForEditTakesTheMaximum(t *testing.T) {
	got, err := commandpolicy.RequiredForEdit([]string{"name", "bio"}, true)
	if err != nil {
		t.Fatalf("self profile edit: %v", err)
	}
	if got != models.PermissionMember {
		t.Errorf("self profile edit: got %s, want member", got)
	}

	got, err = commandpolicy.RequiredForEdit([]string{"name", "permission_level"}, true)
	if err != nil {
		t.Fatalf("self edit with promotion: %v", err)
	}
	if got != models.PermissionAdmin {
		t.Errorf("promotion folded in: got %s, want admin", got)
	}

	got, err = commandpolicy.RequiredForEdit([]string{"name"}, false)
	if err != nil {
		t.Fatalf("edit of another member: %v", err)
	}
	if got != models.PermissionTeamLead {
		t.Errorf("edit of another member: got %s, want team_lead", got)
	}

	if _, err := commandpolicy.RequiredForEdit([]string{"nonsense"}, true); err == nil {
		t.Error("unknown attribute should be rejected")
	}
}
