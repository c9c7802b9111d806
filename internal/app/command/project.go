// internal/app/command/project.go
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/opsdeck/crewbot/internal/app/facade"
	"github.com/opsdeck/crewbot/internal/app/policy/commandpolicy"
	"github.com/opsdeck/crewbot/internal/app/store"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.uber.org/zap"
)

const projectHelp = "Project Command Reference:\n\n" +
	"@crewbot project view PROJECT_ID\n" +
	"    view a project\n\n" +
	"@crewbot project edit PROJECT_ID [--display-name NAME]\n" +
	"                      [--description TEXT] [--add-tag TAG]\n" +
	"                      [--add-url REPO_URL]\n" +
	"    TEAM LEAD/ADMIN ONLY: edit a project;\n" +
	"    surround values containing spaces with single quotes\n\n" +
	"@crewbot project delete PROJECT_ID\n" +
	"    ADMIN ONLY: permanently delete a project\n\n" +
	"@crewbot project help\n" +
	"    show this reference"

const projectLookupError = "Project not found!"

// ProjectCommand handles view/edit/delete/help over project records.
type ProjectCommand struct {
	db       facade.DBFacade
	notifier Notifier
	log      *zap.Logger
}

func NewProjectCommand(db facade.DBFacade, notifier Notifier, log *zap.Logger) *ProjectCommand {
	return &ProjectCommand{db: db, notifier: notifier, log: log}
}

func (c *ProjectCommand) Name() string { return "project" }
func (c *ProjectCommand) Help() string { return projectHelp }

func (c *ProjectCommand) Handle(ctx context.Context, text, callerID, channel string) error {
	args, err := shlex.Split(text)
	if err != nil || len(args) == 0 {
		return notify(c.notifier, projectHelp, channel)
	}

	switch args[0] {
	case "view":
		return c.view(ctx, args[1:], channel)
	case "edit":
		return c.edit(ctx, args[1:], callerID, channel)
	case "delete":
		return c.delete(ctx, args[1:], callerID, channel)
	default:
		return notify(c.notifier, projectHelp, channel)
	}
}

func (c *ProjectCommand) view(ctx context.Context, args []string, channel string) error {
	if len(args) != 1 {
		return notify(c.notifier, projectHelp, channel)
	}
	p, err := c.db.RetrieveProject(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return notify(c.notifier, projectLookupError, channel)
	}
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	return notify(c.notifier, formatProject(p), channel)
}

func (c *ProjectCommand) delete(ctx context.Context, args []string, callerID, channel string) error {
	if len(args) != 1 {
		return notify(c.notifier, projectHelp, channel)
	}
	target := args[0]

	res, err := commandpolicy.Check(ctx, c.db, callerID, models.PermissionAdmin)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	switch res.Outcome {
	case commandpolicy.ActorNotFound:
		return notify(c.notifier, lookupError, channel)
	case commandpolicy.Denied:
		return notify(c.notifier, permissionError, channel)
	}

	if err := c.db.DeleteProject(ctx, target); err != nil {
		return failStore(c.notifier, channel, err)
	}
	c.log.Info("project deleted",
		zap.String("target", target),
		zap.String("actor", callerID))
	return notify(c.notifier, "Deleted project with ID: "+target, channel)
}

func (c *ProjectCommand) edit(ctx context.Context, args []string, callerID, channel string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return notify(c.notifier, projectHelp, channel)
	}
	projectID := args[0]

	fs := newFlagSet("project edit")
	displayName := fs.String("display-name", "", "")
	description := fs.String("description", "", "")
	addTag := fs.String("add-tag", "", "")
	addURL := fs.String("add-url", "", "")
	if err := fs.Parse(args[1:]); err != nil || fs.NFlag() == 0 {
		return notify(c.notifier, projectHelp, channel)
	}

	res, err := commandpolicy.Check(ctx, c.db, callerID, models.PermissionTeamLead)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	switch res.Outcome {
	case commandpolicy.ActorNotFound:
		return notify(c.notifier, lookupError, channel)
	case commandpolicy.Denied:
		return notify(c.notifier, permissionError, channel)
	}

	p, err := c.db.RetrieveProject(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return notify(c.notifier, projectLookupError, channel)
	}
	if err != nil {
		return failStore(c.notifier, channel, err)
	}

	var parts []string
	if *displayName != "" {
		p.DisplayName = *displayName
		parts = append(parts, "display name: "+*displayName)
	}
	if *description != "" {
		p.Description = *description
		parts = append(parts, "description: "+*description)
	}
	if *addTag != "" && p.AddTag(*addTag) {
		parts = append(parts, "added tag: "+*addTag)
	}
	if *addURL != "" && p.AddGithubURL(*addURL) {
		parts = append(parts, "added url: "+*addURL)
	}
	if len(parts) == 0 {
		return notify(c.notifier, "No changes applied to project "+projectID+".", channel)
	}

	ok, err := c.db.StoreProject(ctx, p)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	if !ok {
		return notify(c.notifier, "Edit rejected: the resulting record is invalid.", channel)
	}

	c.log.Info("project edited",
		zap.String("target", projectID),
		zap.String("actor", callerID))
	return notify(c.notifier, summarize("Project edited: ", parts), channel)
}

func formatProject(p *models.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)\n", p.DisplayName, p.ProjectID)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n", p.Description)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if len(p.GithubURLs) > 0 {
		fmt.Fprintf(&b, "Repositories: %s\n", strings.Join(p.GithubURLs, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
