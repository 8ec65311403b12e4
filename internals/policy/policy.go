// Package policy is the single authorization checkpoint. Every mutating
// operation asks the Gate whether (actor, action, resource) is allowed;
// route middleware asks the same Gate with a nil resource for the coarse
// role check, so role lists live in one place.
package policy

import (
	"context"

	"github.com/google/uuid"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/constants"
)

type Action string

const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionList       Action = "list"
	ActionCancel     Action = "cancel"
	ActionVerify     Action = "verify"
	ActionStats      Action = "stats"
	ActionDelete     Action = "delete"
	ActionDeactivate Action = "deactivate"
	ActionReactivate Action = "reactivate"
	ActionListDay    Action = "list_day"
	ActionUpdateSelf Action = "update_self"
)

// Resource type names registered on the default gate.
const (
	Booking    = "booking"
	Allocation = "coach_allocation"
	Notice     = "notice"
	Account    = "account"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsZero() bool { return a.ID == uuid.Nil }

func (a Actor) HasRole(roles ...string) bool { return constants.HasRole(roles, a.Role) }

// Owned is implemented by resources that belong to one account.
type Owned interface {
	OwnerID() uuid.UUID
}

// Policy decides one resource type. resource is nil for list/create checks.
type Policy interface {
	Can(ctx context.Context, actor Actor, action Action, resource any) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, actor Actor, action Action, resource any) bool

func (f PolicyFunc) Can(ctx context.Context, actor Actor, action Action, resource any) bool {
	return f(ctx, actor, action, resource)
}

type Gate struct {
	policies map[string]Policy
}

func NewGate() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize returns nil when allowed, an Unauthenticated error for a zero
// actor, and an Authorization error otherwise. Unknown resource types deny.
func (g *Gate) Authorize(ctx context.Context, actor Actor, action Action, resourceType string, resource any) error {
	if actor.IsZero() {
		return apperrors.Unauthenticated("authentication required")
	}
	p, ok := g.policies[resourceType]
	if !ok || !p.Can(ctx, actor, action, resource) {
		return apperrors.Forbidden("not allowed to %s %s", action, resourceType)
	}
	return nil
}

func (g *Gate) Can(ctx context.Context, actor Actor, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, actor, action, resourceType, resource) == nil
}

func owns(actor Actor, resource any) bool {
	o, ok := resource.(Owned)
	return ok && o.OwnerID() == actor.ID
}
