// Package policy is the capability table consulted at the API boundary.
// Core allocation logic never checks roles; handlers ask here before calling
// into a service.
package policy

import (
	"context"
	"fmt"

	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/requestcontext"
)

// Action names one guarded operation.
type Action string

const (
	ActionRegisterDonor       Action = "registry.register_donor"
	ActionRegisterRecipient   Action = "registry.register_recipient"
	ActionRegisterHospital    Action = "registry.register_hospital"
	ActionReadRegistry        Action = "registry.read"
	ActionManageWaitlist      Action = "waitlist.manage"
	ActionReadWaitlist        Action = "waitlist.read"
	ActionRegisterOrgan       Action = "allocation.register_organ"
	ActionAllocate            Action = "allocation.allocate"
	ActionEmergencyMatch      Action = "allocation.emergency_match"
	ActionScore               Action = "allocation.score"
	ActionMarkTransplanted    Action = "allocation.mark_transplanted"
	ActionMarkExpired         Action = "allocation.mark_expired"
	ActionRejectProposal      Action = "allocation.reject_proposal"
	ActionRequestVerification Action = "oracle.request_verification"
	ActionReadVerification    Action = "oracle.read_verification"
	ActionFulfillVerification Action = "oracle.fulfill_verification"
	ActionReadAudit           Action = "audit.read"
)

// capabilities maps each role to the actions it may perform. Admin is handled
// separately: it may do everything.
var capabilities = map[requestcontext.Role]map[Action]struct{}{
	requestcontext.RoleCoordinator: actionSet(
		ActionRegisterDonor, ActionRegisterRecipient, ActionRegisterHospital,
		ActionReadRegistry, ActionManageWaitlist, ActionReadWaitlist,
		ActionRegisterOrgan, ActionAllocate, ActionEmergencyMatch, ActionScore,
		ActionMarkTransplanted, ActionMarkExpired,
		ActionRequestVerification, ActionReadVerification, ActionReadAudit,
	),
	requestcontext.RoleHospital: actionSet(
		ActionReadRegistry, ActionReadWaitlist, ActionScore,
		ActionRejectProposal, ActionMarkTransplanted, ActionReadVerification,
	),
	requestcontext.RoleOracle: actionSet(
		ActionReadVerification, ActionFulfillVerification,
	),
}

func actionSet(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Authorize reports whether a role may perform an action, as a Forbidden
// domain error when it may not.
func Authorize(role requestcontext.Role, action Action) error {
	if role == requestcontext.RoleAdmin {
		return nil
	}
	if _, ok := capabilities[role][action]; ok {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden,
		fmt.Sprintf("role %q may not perform %s", role, action))
}

// Require authorizes the caller identified in the request context.
func Require(ctx context.Context, action Action) error {
	return Authorize(requestcontext.ActorRole(ctx), action)
}
