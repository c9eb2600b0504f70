// Package access holds the caller identity passed into every ledger operation
// and the branch scoping policy applied to it.
package access

import (
	"context"

	"github.com/google/uuid"
)

// Role is the caller's role as supplied by the identity collaborator
type Role string

// RoleAdmin is the administrator role. Every other role is branch-confined.
const RoleAdmin Role = "ADMIN"

// Actor is the authenticated caller of a ledger operation
type Actor struct {
	ID       uuid.UUID
	Role     Role
	BranchID *uuid.UUID
}

// HasBranch reports whether the actor is assigned to a branch
func (a Actor) HasBranch() bool {
	return a.BranchID != nil && *a.BranchID != uuid.Nil
}

// CompanyContext identifies the company every ledger call runs under.
// It is resolved once per request.
type CompanyContext struct {
	CompanyID uuid.UUID
}

type actorKey struct{}
type companyKey struct{}

// WithActor stores the actor in the context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in the context
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// WithCompany stores the company context
func WithCompany(ctx context.Context, company CompanyContext) context.Context {
	return context.WithValue(ctx, companyKey{}, company)
}

// CompanyFromContext returns the company context stored in the context
func CompanyFromContext(ctx context.Context) (CompanyContext, bool) {
	company, ok := ctx.Value(companyKey{}).(CompanyContext)
	return company, ok
}
