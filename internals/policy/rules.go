package policy

import (
	"context"

	"poolbooking_backend/internals/constants"
)

// Default returns the gate with the pool's rules registered.
func Default() *Gate {
	g := NewGate()
	g.Register(Booking, PolicyFunc(bookingPolicy))
	g.Register(Allocation, PolicyFunc(allocationPolicy))
	g.Register(Notice, PolicyFunc(noticePolicy))
	g.Register(Account, PolicyFunc(accountPolicy))
	return g
}

func bookingPolicy(_ context.Context, a Actor, action Action, res any) bool {
	switch action {
	case ActionCreate, ActionList:
		return true
	case ActionRead, ActionCancel:
		if res == nil {
			return true
		}
		return owns(a, res) || a.HasRole(constants.ElevatedRoles...)
	case ActionVerify, ActionListDay:
		return a.HasRole(constants.VerifierRoles...)
	case ActionStats:
		return a.HasRole(constants.AdminOnly...)
	}
	return false
}

func allocationPolicy(_ context.Context, a Actor, action Action, _ any) bool {
	switch action {
	case ActionRead, ActionList:
		return true
	case ActionCreate, ActionDelete:
		return a.HasRole(constants.AdminOnly...)
	}
	return false
}

func noticePolicy(_ context.Context, a Actor, action Action, res any) bool {
	switch action {
	case ActionRead, ActionList:
		return true
	case ActionCreate:
		return a.HasRole(constants.AuthorRoles...)
	case ActionDeactivate, ActionReactivate:
		if res == nil {
			return a.HasRole(constants.AuthorRoles...)
		}
		return a.HasRole(constants.AdminOnly...) || owns(a, res)
	}
	return false
}

func accountPolicy(_ context.Context, a Actor, action Action, res any) bool {
	switch action {
	case ActionUpdateSelf:
		return a.HasRole(constants.RoleCoach) && (res == nil || owns(a, res))
	case ActionRead:
		return a.HasRole(constants.AdminOnly...) || (res != nil && owns(a, res))
	case ActionList, ActionCreate, ActionDelete, ActionDeactivate, ActionReactivate:
		return a.HasRole(constants.AdminOnly...)
	}
	return false
}
