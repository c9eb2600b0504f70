package access

import (
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Guard confines non-administrators to their assigned branch
type Guard struct {
	adminRole Role
}

// GuardOption configures a Guard
type GuardOption func(*Guard)

// WithAdminRole overrides the role treated as administrator
func WithAdminRole(role Role) GuardOption {
	return func(g *Guard) {
		if role != "" {
			g.adminRole = role
		}
	}
}

// NewGuard creates a branch access guard
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{adminRole: RoleAdmin}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsAdmin reports whether the actor bypasses branch confinement
func (g *Guard) IsAdmin(actor Actor) bool {
	return actor.Role == g.adminRole
}

// ScopeBranch returns the branch an operation must run against.
// Administrators keep what they asked for (nil meaning all branches).
// Everyone else is silently moved to their own branch. An actor without
// a branch is left untouched, so the request passes through as supplied.
func (g *Guard) ScopeBranch(actor Actor, requested *uuid.UUID) *uuid.UUID {
	if g.IsAdmin(actor) || !actor.HasBranch() {
		return requested
	}
	branchID := *actor.BranchID
	return &branchID
}

// AuthorizeRecord checks a record fetched by id against the actor's branch.
// Actors without a branch are not confined, matching ScopeBranch.
func (g *Guard) AuthorizeRecord(actor Actor, recordBranchID uuid.UUID) error {
	if g.IsAdmin(actor) || !actor.HasBranch() {
		return nil
	}
	if *actor.BranchID != recordBranchID {
		return shared.NewForbiddenError("record belongs to another branch")
	}
	return nil
}

// RequireAdmin fails with Forbidden unless the actor is an administrator
func (g *Guard) RequireAdmin(actor Actor) error {
	if !g.IsAdmin(actor) {
		return shared.NewForbiddenError("administrator privilege required")
	}
	return nil
}

// RequireIdentity fails with Unauthorized when no caller identity was supplied
func (g *Guard) RequireIdentity(actor Actor) error {
	if actor.ID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	return nil
}
