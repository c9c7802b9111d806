// internal/domain/models/attrs.go
package models

// EntityKind names one of the three persisted record types.
type EntityKind string

const (
	KindUser    EntityKind = "user"
	KindTeam    EntityKind = "team"
	KindProject EntityKind = "project"
)

// setAttrs lists, per entity kind, the stored attributes that hold sets.
// A query predicate on one of these attributes means "set contains value"
// rather than whole-field equality. Keeping the allow-list here as data
// (instead of conditionals scattered through the query layer) means adding
// a set-valued field is a one-line change.
var setAttrs = map[EntityKind]map[string]bool{
	KindUser: {},
	KindTeam: {
		"members": true,
	},
	KindProject: {
		"tags":        true,
		"github_urls": true,
	},
}

// IsSetAttr reports whether attr is a set-valued attribute of kind.
// Attributes not on the allow-list fall back to plain equality.
func IsSetAttr(kind EntityKind, attr string) bool {
	return setAttrs[kind][attr]
}

// KeyAttr returns the primary-key attribute name for kind. These names are
// part of the wire contract with the existing store.
func KeyAttr(kind EntityKind) string {
	switch kind {
	case KindUser:
		return "slack_id"
	case KindTeam:
		return "github_team_id"
	case KindProject:
		return "project_id"
	}
	return ""
}
