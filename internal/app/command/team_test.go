package command_test

import (
	"context"
	"strings"
	"testing"

	"github.com/opsdeck/crewbot/internal/app/command"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"github.com/opsdeck/crewbot/internal/testutil"
	"go.uber.org/zap"
)

func seedTeam(db *testutil.FakeFacade, githubTeamID string, members ...string) {
	db.Teams[githubTeamID] = models.Team{
		GithubTeamID: githubTeamID,
		DisplayName:  "Team " + githubTeamID,
		Members:      members,
	}
}

func TestTeamView(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U1", models.PermissionMember)
	seedTeam(db, "platform", "U1", "U2")
	n := &fakeNotifier{}
	c := command.NewTeamCommand(db, n, zap.NewNop())

	if err := c.Handle(context.Background(), "view platform", "U1", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := n.onlyChannelMessage(t)
	if !strings.Contains(got.msg, "Team platform") || !strings.Contains(got.msg, "U1, U2") {
		t.Errorf("view reply: got %q", got.msg)
	}

	n = &fakeNotifier{}
	c = command.NewTeamCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "view nope", "U1", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); got.msg != "Team not found!" {
		t.Errorf("missing team reply: got %q", got.msg)
	}
}

func TestTeamEditMembershipRequiresTeamLead(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U_MEMBER", models.PermissionMember)
	seedUser(db, "U_LEAD", models.PermissionTeamLead)
	seedTeam(db, "platform", "U1")

	n := &fakeNotifier{}
	c := command.NewTeamCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "edit platform --add-member U9", "U_MEMBER", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); !strings.Contains(got.msg, "permission level") {
		t.Errorf("member edit: got %q, want denial", got.msg)
	}

	n = &fakeNotifier{}
	c = command.NewTeamCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "edit platform --add-member U9", "U_LEAD", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); !strings.Contains(got.msg, "added member: U9") {
		t.Errorf("lead edit: got %q", got.msg)
	}
	team := db.Teams["platform"]
	if !team.HasMember("U9") {
		t.Errorf("team after edit: got %+v", team.Members)
	}
}

func TestTeamEditNoChange(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U_LEAD", models.PermissionTeamLead)
	seedTeam(db, "platform", "U1")

	// Adding an existing member and removing an absent one are no-ops.
	n := &fakeNotifier{}
	c := command.NewTeamCommand(db, n, zap.NewNop())
	err := c.Handle(context.Background(), "edit platform --add-member U1 --remove-member U9", "U_LEAD", "C1")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); !strings.HasPrefix(got.msg, "No changes applied") {
		t.Errorf("no-op edit: got %q", got.msg)
	}
}

func TestTeamDeleteRequiresAdmin(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U_LEAD", models.PermissionTeamLead)
	seedUser(db, "U_ADMIN", models.PermissionAdmin)
	seedTeam(db, "platform")

	n := &fakeNotifier{}
	c := command.NewTeamCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "delete platform", "U_LEAD", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); !strings.Contains(got.msg, "permission level") {
		t.Errorf("lead delete: got %q, want denial", got.msg)
	}
	if _, ok := db.Teams["platform"]; !ok {
		t.Fatal("denied delete must not remove the team")
	}

	n = &fakeNotifier{}
	c = command.NewTeamCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "delete platform", "U_ADMIN", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); got.msg != "Deleted team with GitHub team ID: platform" {
		t.Errorf("admin delete: got %q", got.msg)
	}
	if _, ok := db.Teams["platform"]; ok {
		t.Error("team should be gone")
	}
}

func TestTeamParseFailureRepliesHelp(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U1", models.PermissionTeamLead)

	for _, text := range []string{
		"",
		"edit",
		"edit --add-member U1",
		"edit platform",
		"edit platform --bogus x",
		"view",
		"help",
	} {
		n := &fakeNotifier{}
		c := command.NewTeamCommand(db, n, zap.NewNop())
		if err := c.Handle(context.Background(), text, "U1", "C1"); err != nil {
			t.Fatalf("handle %q: %v", text, err)
		}
		got := n.onlyChannelMessage(t)
		if !strings.HasPrefix(got.msg, "Team Command Reference:") {
			t.Errorf("handle %q: got %q, want help text", text, got.msg)
		}
	}
}
