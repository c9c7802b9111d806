// internal/domain/models/team.go
package models

// Team groups users under a GitHub team. Members is a set of user Slack
// IDs resolved by value: deleting a user does not cascade into teams, and
// membership tests are plain containment checks.
type Team struct {
	GithubTeamID string   `bson:"github_team_id" json:"github_team_id"`
	DisplayName  string   `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Platform     string   `bson:"platform,omitempty" json:"platform,omitempty"`
	Members      []string `bson:"members,omitempty" json:"members,omitempty"`
}

// NewTeam returns a team with no members.
func NewTeam(githubTeamID, displayName string) *Team {
	return &Team{GithubTeamID: githubTeamID, DisplayName: displayName}
}

// IsValid reports whether the record may be written.
func (t *Team) IsValid() bool {
	return t.GithubTeamID != ""
}

// HasMember reports whether slackID is in the member set.
func (t *Team) HasMember(slackID string) bool {
	for _, m := range t.Members {
		if m == slackID {
			return true
		}
	}
	return false
}

// AddMember adds slackID to the member set, preserving uniqueness.
// It reports whether the set changed.
func (t *Team) AddMember(slackID string) bool {
	if slackID == "" || t.HasMember(slackID) {
		return false
	}
	t.Members = append(t.Members, slackID)
	return true
}

// RemoveMember removes slackID from the member set. Removing an absent
// member is a no-op. It reports whether the set changed.
func (t *Team) RemoveMember(slackID string) bool {
	for i, m := range t.Members {
		if m == slackID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return true
		}
	}
	return false
}
