// internal/domain/models/permission.go
package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Permission is the authorization level of a user. Levels form a total
// order (member < team_lead < admin) and are always compared numerically;
// the name strings exist only as the stored representation.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionMember
	PermissionTeamLead
	PermissionAdmin
)

var permissionNames = map[Permission]string{
	PermissionMember:   "member",
	PermissionTeamLead: "team_lead",
	PermissionAdmin:    "admin",
}

// String returns the canonical name ("member", "team_lead", "admin"),
// or "" for an unset level.
func (p Permission) String() string {
	return permissionNames[p]
}

// IsValid reports whether p is one of the defined levels.
func (p Permission) IsValid() bool {
	_, ok := permissionNames[p]
	return ok
}

// AtLeast reports whether p grants everything required does.
func (p Permission) AtLeast(required Permission) bool {
	return p >= required
}

// ParsePermission converts a stored name string back to a level.
func ParsePermission(s string) (Permission, error) {
	for p, name := range permissionNames {
		if name == s {
			return p, nil
		}
	}
	return PermissionNone, fmt.Errorf("unknown permission level %q", s)
}

// MarshalBSONValue stores the level as its canonical name string so the
// persisted attribute stays readable and matches the legacy wire contract.
func (p Permission) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(p.String())
}

// UnmarshalBSONValue accepts the canonical name string.
func (p *Permission) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var s string
	if err := bson.UnmarshalValue(t, data, &s); err != nil {
		return err
	}
	if s == "" {
		*p = PermissionNone
		return nil
	}
	parsed, err := ParsePermission(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
