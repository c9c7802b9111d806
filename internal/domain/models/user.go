// internal/domain/models/user.go
package models

// User is a member of the workspace. The Slack account ID is the primary
// key and is immutable once assigned; everything else is profile data the
// user (or an admin) can edit through commands.
//
// The bson attribute names are the wire contract with the existing store.
// Renaming any of them requires a migration.
type User struct {
	SlackID        string     `bson:"slack_id" json:"slack_id"`
	Name           string     `bson:"name,omitempty" json:"name,omitempty"`
	Email          string     `bson:"email,omitempty" json:"email,omitempty"`
	Position       string     `bson:"position,omitempty" json:"position,omitempty"`
	Major          string     `bson:"major,omitempty" json:"major,omitempty"`
	Biography      string     `bson:"bio,omitempty" json:"bio,omitempty"`
	ImageURL       string     `bson:"image_url,omitempty" json:"image_url,omitempty"`
	GithubUsername string     `bson:"github,omitempty" json:"github,omitempty"`
	Permission     Permission `bson:"permission_level" json:"permission_level"`
}

// NewUser returns a user with the lowest permission level, the state every
// record starts in until an admin promotes it.
func NewUser(slackID string) *User {
	return &User{SlackID: slackID, Permission: PermissionMember}
}

// IsValid reports whether the record may be written: the identifier and a
// recognized permission level must both be present. Store adapters call
// this inside the write path; an invalid record never reaches the store.
func (u *User) IsValid() bool {
	return u.SlackID != "" && u.Permission.IsValid()
}
