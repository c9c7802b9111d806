// internal/app/policy/commandpolicy/commandpolicy.go
//
// Package commandpolicy decides whether the caller of a chat command may
// perform a mutation. Every permission-gated command follows the same
// three-way branch: the actor's record is missing, the actor's level is
// below the requirement, or the actor is authorized. Policy outcomes are
// normal values; the error return is reserved for infrastructure
// failures, so callers can distinguish "not allowed" from "store down"
// (the same split the rest of the policy layer uses).
package commandpolicy

import (
	"context"
	"errors"

	"github.com/opsdeck/crewbot/internal/app/facade"
	"github.com/opsdeck/crewbot/internal/app/store"
	"github.com/opsdeck/crewbot/internal/domain/models"
)

// Outcome is the result of a permission check.
type Outcome int

const (
	// ActorNotFound means the caller has no stored record; the mutation
	// must be skipped and an "actor not found" message sent.
	ActorNotFound Outcome = iota
	// Denied means the caller exists but their level is below the
	// operation's requirement.
	Denied
	// Allowed means the mutation may proceed.
	Allowed
)

// Result carries the outcome plus the actor's record when one was found.
type Result struct {
	Outcome Outcome
	Actor   *models.User
}

// Check looks up the caller and compares their permission level against
// required. Lookup failure is an outcome, not an error; only an
// unavailable store produces a non-nil error.
func Check(ctx context.Context, db facade.DBFacade, callerID string, required models.Permission) (Result, error) {
	actor, err := db.RetrieveUser(ctx, callerID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Outcome: ActorNotFound}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if !actor.Permission.AtLeast(required) {
		return Result{Outcome: Denied, Actor: actor}, nil
	}
	return Result{Outcome: Allowed, Actor: actor}, nil
}

// editThresholds enumerates, per editable user attribute, the level
// required to change it on the caller's own record (Self) and on another
// member's record (Other). The table is the authority: thresholds are
// data, not code shape.
var editThresholds = map[string]struct{ Self, Other models.Permission }{
	"name":             {models.PermissionMember, models.PermissionTeamLead},
	"email":            {models.PermissionMember, models.PermissionTeamLead},
	"position":         {models.PermissionMember, models.PermissionTeamLead},
	"major":            {models.PermissionMember, models.PermissionTeamLead},
	"bio":              {models.PermissionMember, models.PermissionTeamLead},
	"github":           {models.PermissionMember, models.PermissionTeamLead},
	"image_url":        {models.PermissionMember, models.PermissionTeamLead},
	"permission_level": {models.PermissionAdmin, models.PermissionAdmin},
}

// EditThreshold returns the permission level required to edit attr, given
// whether the caller is targeting their own record. Unknown attributes
// report ok=false and must be rejected by the caller.
func EditThreshold(attr string, self bool) (required models.Permission, ok bool) {
	th, ok := editThresholds[attr]
	if !ok {
		return models.PermissionNone, false
	}
	if self {
		return th.Self, true
	}
	return th.Other, true
}

// RequiredForEdit folds EditThreshold over every attribute the caller is
// changing and returns the highest requirement.
func RequiredForEdit(attrs []string, self bool) (models.Permission, error) {
	required := models.PermissionMember
	for _, attr := range attrs {
		th, ok := EditThreshold(attr, self)
		if !ok {
			return models.PermissionNone, errors.New("unknown editable attribute " + attr)
		}
		if th > required {
			required = th
		}
	}
	return required, nil
}
