// internal/app/command/team.go
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

const teamHelp = "Team Command Reference:\n\n" +
	"@crewbot team view TEAM_ID\n" +
	"    view a team and its members\n\n" +
	"@crewbot team edit TEAM_ID [--display-name NAME] [--platform PLATFORM]\n" +
	"                   [--add-member MEMBER_ID] [--remove-member MEMBER_ID]\n" +
	"    TEAM LEAD/ADMIN ONLY: edit a team;\n" +
	"    surround values containing spaces with single quotes\n\n" +
	"@crewbot team delete TEAM_ID\n" +
	"    ADMIN ONLY: permanently delete a team\n\n" +
	"@crewbot team help\n" +
	"    show this reference"

const teamLookupError = "Team not found!"

// TeamCommand handles view/edit/delete/help over team records.
type TeamCommand struct {
	db       facade.DBFacade
	notifier Notifier
	log      *zap.Logger
}

func NewTeamCommand(db facade.DBFacade, notifier Notifier, log *zap.Logger) *TeamCommand {
	return &TeamCommand{db: db, notifier: notifier, log: log}
}

func (c *TeamCommand) Name() string { return "team" }
func (c *TeamCommand) Help() string { return teamHelp }

func (c *TeamCommand) Handle(ctx context.Context, text, callerID, channel string) error {
	args, err := shlex.Split(text)
	if err != nil || len(args) == 0 {
		return notify(c.notifier, teamHelp, channel)
	}

	switch args[0] {
	case "view":
		return c.view(ctx, args[1:], channel)
	case "edit":
		return c.edit(ctx, args[1:], callerID, channel)
	case "delete":
		return c.delete(ctx, args[1:], callerID, channel)
	default:
		return notify(c.notifier, teamHelp, channel)
	}
}

func (c *TeamCommand) view(ctx context.Context, args []string, channel string) error {
	if len(args) != 1 {
		return notify(c.notifier, teamHelp, channel)
	}
	t, err := c.db.RetrieveTeam(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return notify(c.notifier, teamLookupError, channel)
	}
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	return notify(c.notifier, formatTeam(t), channel)
}

func (c *TeamCommand) delete(ctx context.Context, args []string, callerID, channel string) error {
	if len(args) != 1 {
		return notify(c.notifier, teamHelp, channel)
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

	if err := c.db.DeleteTeam(ctx, target); err != nil {
		return failStore(c.notifier, channel, err)
	}
	c.log.Info("team deleted",
		zap.String("target", target),
		zap.String("actor", callerID))
	return notify(c.notifier, "Deleted team with GitHub team ID: "+target, channel)
}

func (c *TeamCommand) edit(ctx context.Context, args []string, callerID, channel string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return notify(c.notifier, teamHelp, channel)
	}
	teamID := args[0]

	fs := newFlagSet("team edit")
	displayName := fs.String("display-name", "", "")
	platform := fs.String("platform", "", "")
	addMember := fs.String("add-member", "", "")
	removeMember := fs.String("remove-member", "", "")
	if err := fs.Parse(args[1:]); err != nil || fs.NFlag() == 0 {
		return notify(c.notifier, teamHelp, channel)
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

	t, err := c.db.RetrieveTeam(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return notify(c.notifier, teamLookupError, channel)
	}
	if err != nil {
		return failStore(c.notifier, channel, err)
	}

	var parts []string
	if *displayName != "" {
		t.DisplayName = *displayName
		parts = append(parts, "display name: "+*displayName)
	}
	if *platform != "" {
		t.Platform = *platform
		parts = append(parts, "platform: "+*platform)
	}
	if *addMember != "" && t.AddMember(*addMember) {
		parts = append(parts, "added member: "+*addMember)
	}
	if *removeMember != "" && t.RemoveMember(*removeMember) {
		parts = append(parts, "removed member: "+*removeMember)
	}
	if len(parts) == 0 {
		return notify(c.notifier, "No changes applied to team "+teamID+".", channel)
	}

	ok, err := c.db.StoreTeam(ctx, t)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	if !ok {
		return notify(c.notifier, "Edit rejected: the resulting record is invalid.", channel)
	}

	c.log.Info("team edited",
		zap.String("target", teamID),
		zap.String("actor", callerID))
	return notify(c.notifier, summarize("Team edited: ", parts), channel)
}

func formatTeam(t *models.Team) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)\n", t.DisplayName, t.GithubTeamID)
	if t.Platform != "" {
		fmt.Fprintf(&b, "Platform: %s\n", t.Platform)
	}
	if len(t.Members) == 0 {
		b.WriteString("No members")
	} else {
		fmt.Fprintf(&b, "Members (%d): %s", len(t.Members), strings.Join(t.Members, ", "))
	}
	return b.String()
}
