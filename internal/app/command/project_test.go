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

func seedProject(db *testutil.FakeFacade, projectID string, tags ...string) {
	db.Projects[projectID] = models.Project{
		ProjectID:   projectID,
		DisplayName: "Project " + projectID,
		Tags:        tags,
	}
}

func TestProjectView(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U1", models.PermissionMember)
	seedProject(db, "api", "go")
	n := &fakeNotifier{}
	c := command.NewProjectCommand(db, n, zap.NewNop())

	if err := c.Handle(context.Background(), "view api", "U1", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := n.onlyChannelMessage(t)
	if !strings.Contains(got.msg, "Project api") || !strings.Contains(got.msg, "Tags: go") {
		t.Errorf("view reply: got %q", got.msg)
	}

	n = &fakeNotifier{}
	c = command.NewProjectCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "view nope", "U1", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); got.msg != "Project not found!" {
		t.Errorf("missing project reply: got %q", got.msg)
	}
}

func TestProjectEdit(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U_MEMBER", models.PermissionMember)
	seedUser(db, "U_LEAD", models.PermissionTeamLead)
	seedProject(db, "api")

	n := &fakeNotifier{}
	c := command.NewProjectCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "edit api --add-tag go", "U_MEMBER", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); !strings.Contains(got.msg, "permission level") {
		t.Errorf("member edit: got %q, want denial", got.msg)
	}

	n = &fakeNotifier{}
	c = command.NewProjectCommand(db, n, zap.NewNop())
	text := "edit api --description 'Service backend' --add-tag go --add-url https://github.com/opsdeck/crewbot"
	if err := c.Handle(context.Background(), text, "U_LEAD", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := n.onlyChannelMessage(t)
	if !strings.HasPrefix(got.msg, "Project edited: ") {
		t.Errorf("lead edit: got %q", got.msg)
	}
	p := db.Projects["api"]
	if p.Description != "Service backend" || !p.HasTag("go") || len(p.GithubURLs) != 1 {
		t.Errorf("project after edit: got %+v", p)
	}
}

func TestProjectDeleteRequiresAdmin(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U_LEAD", models.PermissionTeamLead)
	seedUser(db, "U_ADMIN", models.PermissionAdmin)
	seedProject(db, "api")

	n := &fakeNotifier{}
	c := command.NewProjectCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "delete api", "U_LEAD", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); !strings.Contains(got.msg, "permission level") {
		t.Errorf("lead delete: got %q, want denial", got.msg)
	}

	n = &fakeNotifier{}
	c = command.NewProjectCommand(db, n, zap.NewNop())
	if err := c.Handle(context.Background(), "delete api", "U_ADMIN", "C1"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := n.onlyChannelMessage(t); got.msg != "Deleted project with ID: api" {
		t.Errorf("admin delete: got %q", got.msg)
	}
	if _, ok := db.Projects["api"]; ok {
		t.Error("project should be gone")
	}
}

func TestProjectParseFailureRepliesHelp(t *testing.T) {
	db := testutil.NewFakeFacade()
	seedUser(db, "U1", models.PermissionTeamLead)

	for _, text := range []string{"", "edit", "edit api", "view", "help", "bogus"} {
		n := &fakeNotifier{}
		c := command.NewProjectCommand(db, n, zap.NewNop())
		if err := c.Handle(context.Background(), text, "U1", "C1"); err != nil {
			t.Fatalf("handle %q: %v", text, err)
		}
		got := n.onlyChannelMessage(t)
		if !strings.HasPrefix(got.msg, "Project Command Reference:") {
			t.Errorf("handle %q: got %q, want help text", text, got.msg)
		}
	}
}
