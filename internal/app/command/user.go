// internal/app/command/user.go
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/opsdeck/crewbot/internal/app/facade"
	"github.com/opsdeck/crewbot/internal/app/policy/commandpolicy"
	"github.com/opsdeck/crewbot/internal/app/store"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const userHelp = "User Command Reference:\n\n" +
	"@crewbot user view [--slack_id ID]\n" +
	"    view a user's profile (defaults to your own)\n\n" +
	"@crewbot user edit [--name NAME] [--email ADDRESS] [--pos POSITION]\n" +
	"                   [--github USERNAME] [--major MAJOR] [--bio BIO]\n" +
	"    edit properties of your own profile;\n" +
	"    surround values containing spaces with single quotes\n" +
	"    TEAM LEAD/ADMIN ONLY: --member MEMBER_ID to edit another member\n" +
	"    ADMIN ONLY: --permission member|team_lead|admin\n\n" +
	"@crewbot user delete MEMBER_ID\n" +
	"    ADMIN ONLY: permanently delete a member's profile\n\n" +
	"@crewbot user help\n" +
	"    show this reference"

// SourceControl answers whether a source-control account exists; used to
// sanity-check github usernames before linking them to a profile.
type SourceControl interface {
	UserExists(ctx context.Context, login string) (bool, error)
}

// UserCommand handles view/edit/delete/help over user records.
type UserCommand struct {
	db       facade.DBFacade
	notifier Notifier
	gh       SourceControl // nil disables github username verification
	log      *zap.Logger
}

func NewUserCommand(db facade.DBFacade, notifier Notifier, gh SourceControl, log *zap.Logger) *UserCommand {
	return &UserCommand{db: db, notifier: notifier, gh: gh, log: log}
}

func (c *UserCommand) Name() string { return "user" }
func (c *UserCommand) Help() string { return userHelp }

// Handle tokenizes the raw text with shell quoting rules and routes to the
// matching subcommand. Any parse failure replies with the help text.
func (c *UserCommand) Handle(ctx context.Context, text, callerID, channel string) error {
	args, err := shlex.Split(text)
	if err != nil || len(args) == 0 {
		return notify(c.notifier, userHelp, channel)
	}

	switch args[0] {
	case "view":
		return c.view(ctx, args[1:], callerID, channel)
	case "edit":
		return c.edit(ctx, args[1:], callerID, channel)
	case "delete":
		return c.delete(ctx, args[1:], callerID, channel)
	case "help":
		return notify(c.notifier, userHelp, channel)
	default:
		return notify(c.notifier, userHelp, channel)
	}
}

func (c *UserCommand) view(ctx context.Context, args []string, callerID, channel string) error {
	fs := newFlagSet("user view")
	slackID := fs.String("slack_id", "", "")
	if err := fs.Parse(args); err != nil {
		return notify(c.notifier, userHelp, channel)
	}

	target := callerID
	if *slackID != "" {
		target = *slackID
	}

	u, err := c.db.RetrieveUser(ctx, target)
	if errors.Is(err, store.ErrNotFound) {
		return notify(c.notifier, lookupError, channel)
	}
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	return notify(c.notifier, formatUser(u), channel)
}

func (c *UserCommand) delete(ctx context.Context, args []string, callerID, channel string) error {
	if len(args) != 1 || strings.HasPrefix(args[0], "-") {
		return notify(c.notifier, userHelp, channel)
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

	if err := c.db.DeleteUser(ctx, target); err != nil {
		return failStore(c.notifier, channel, err)
	}
	c.log.Info("user deleted",
		zap.String("target", target),
		zap.String("actor", callerID))
	return notify(c.notifier, "Deleted user with Slack ID: "+target, channel)
}

func (c *UserCommand) edit(ctx context.Context, args []string, callerID, channel string) error {
	fs := newFlagSet("user edit")
	name := fs.String("name", "", "")
	email := fs.String("email", "", "")
	pos := fs.String("pos", "", "")
	github := fs.String("github", "", "")
	major := fs.String("major", "", "")
	bio := fs.String("bio", "", "")
	member := fs.String("member", "", "")
	permission := fs.String("permission", "", "")
	if err := fs.Parse(args); err != nil {
		return notify(c.notifier, userHelp, channel)
	}

	// Map each provided flag onto its stored attribute name so the policy
	// table can price the edit.
	flagAttrs := map[string]string{
		"name":       "name",
		"email":      "email",
		"pos":        "position",
		"github":     "github",
		"major":      "major",
		"bio":        "bio",
		"permission": "permission_level",
	}
	var attrs []string
	fs.Visit(func(f *pflag.Flag) {
		if attr, ok := flagAttrs[f.Name]; ok {
			attrs = append(attrs, attr)
		}
	})
	if len(attrs) == 0 {
		return notify(c.notifier, userHelp, channel)
	}

	var newLevel models.Permission
	if *permission != "" {
		lvl, err := models.ParsePermission(*permission)
		if err != nil {
			return notify(c.notifier, userHelp, channel)
		}
		newLevel = lvl
	}

	targetID := callerID
	self := true
	if *member != "" && *member != callerID {
		targetID = *member
		self = false
	}

	required, err := commandpolicy.RequiredForEdit(attrs, self)
	if err != nil {
		return notify(c.notifier, userHelp, channel)
	}

	res, err := commandpolicy.Check(ctx, c.db, callerID, required)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	switch res.Outcome {
	case commandpolicy.ActorNotFound:
		return notify(c.notifier, lookupError, channel)
	case commandpolicy.Denied:
		return notify(c.notifier, permissionError, channel)
	}

	target := res.Actor
	if !self {
		target, err = c.db.RetrieveUser(ctx, targetID)
		if errors.Is(err, store.ErrNotFound) {
			return notify(c.notifier, lookupError, channel)
		}
		if err != nil {
			return failStore(c.notifier, channel, err)
		}
	}

	// Verify the github login before linking it. A lookup failure is not
	// the caller's fault, so it logs and the edit proceeds.
	if *github != "" && c.gh != nil {
		exists, gherr := c.gh.UserExists(ctx, *github)
		switch {
		case gherr != nil:
			c.log.Warn("github username verification unavailable",
				zap.String("login", *github),
				zap.Error(gherr))
		case !exists:
			return notify(c.notifier, "GitHub user "+*github+" not found!", channel)
		}
	}

	var parts []string
	apply := func(attr, flagVal string, field *string) {
		if flagVal != "" {
			*field = flagVal
			parts = append(parts, fmt.Sprintf("%s: %s", attr, flagVal))
		}
	}
	apply("name", *name, &target.Name)
	apply("email", *email, &target.Email)
	apply("position", *pos, &target.Position)
	apply("github", *github, &target.GithubUsername)
	apply("major", *major, &target.Major)
	apply("bio", *bio, &target.Biography)
	if *permission != "" {
		target.Permission = newLevel
		parts = append(parts, "permission: "+newLevel.String())
	}

	ok, err := c.db.StoreUser(ctx, target)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	if !ok {
		return notify(c.notifier, "Edit rejected: the resulting record is invalid.", channel)
	}

	c.log.Info("user edited",
		zap.String("target", target.SlackID),
		zap.String("actor", callerID),
		zap.Strings("attributes", attrs))
	return notify(c.notifier, summarize("User edited: ", parts), channel)
}

func formatUser(u *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (<@%s>)\n", u.Name, u.SlackID)
	fmt.Fprintf(&b, "Permission level: %s\n", u.Permission)
	if u.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", u.Email)
	}
	if u.Position != "" {
		fmt.Fprintf(&b, "Position: %s\n", u.Position)
	}
	if u.Major != "" {
		fmt.Fprintf(&b, "Major: %s\n", u.Major)
	}
	if u.GithubUsername != "" {
		fmt.Fprintf(&b, "GitHub: %s\n", u.GithubUsername)
	}
	if u.Biography != "" {
		fmt.Fprintf(&b, "Bio: %s\n", u.Biography)
	}
	return strings.TrimRight(b.String(), "\n")
}

// newFlagSet builds a flag set that reports parse failures as errors
// instead of exiting or printing; commands translate those errors into
// their help text.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}
