package authz

import (
	"sort"

	"go-hrms/internal/domain"

	"github.com/google/uuid"
)

type Action string

const (
	ActionRead       Action = "read"
	ActionModifySelf Action = "modify_self"
	ActionModifyAny  Action = "modify_any"
	ActionApprove    Action = "approve"
	ActionDelete     Action = "delete"
)

// Self-service fields an employee may change on their own record.
const (
	FieldPhone            = "phone"
	FieldAddress          = "address"
	FieldEmergencyContact = "emergency_contact"
	FieldProfileImage     = "profile_image"
)

var selfServiceFields = map[string]struct{}{
	FieldPhone:            {},
	FieldAddress:          {},
	FieldEmergencyContact: {},
	FieldProfileImage:     {},
}

func IsSelfServiceField(field string) bool {
	_, ok := selfServiceFields[field]
	return ok
}

type Subject struct {
	ID        uuid.UUID
	Role      domain.Role
	ManagerID *uuid.UUID
	Status    string
}

type Decision struct {
	Allowed      bool
	Rule         string
	DeniedFields []string
}

type request struct {
	actor  Subject
	target Subject
	action Action
	fields []string
}

type rule struct {
	name  string
	match func(req request) (Decision, bool)
}

// rules is evaluated top to bottom; the first rule that matches decides.
var rules = []rule{
	{name: "admin_tier", match: adminTier},
	{name: "hr", match: hrTier},
	{name: "manager_of_target", match: managerOfTarget},
	{name: "self", match: self},
}

func Decide(actor, target Subject, action Action, fields ...string) Decision {
	req := request{actor: actor, target: target, action: action, fields: fields}
	for _, r := range rules {
		if d, ok := r.match(req); ok {
			d.Rule = r.name
			return d
		}
	}
	return Decision{Allowed: false, Rule: "default_deny"}
}

func adminTier(req request) (Decision, bool) {
	if req.actor.Role == domain.RoleSuperAdmin || req.actor.Role == domain.RoleAdmin {
		return Decision{Allowed: true}, true
	}
	return Decision{}, false
}

func hrTier(req request) (Decision, bool) {
	if req.actor.Role != domain.RoleHR {
		return Decision{}, false
	}
	switch req.action {
	case ActionRead, ActionModifyAny, ActionApprove:
		return Decision{Allowed: true}, true
	case ActionDelete:
		return Decision{Allowed: false}, true
	}
	// modify_self on their own record falls through to the self rule
	return Decision{}, false
}

func managerOfTarget(req request) (Decision, bool) {
	if req.actor.Role != domain.RoleManager {
		return Decision{}, false
	}
	if req.action != ActionRead && req.action != ActionApprove {
		return Decision{}, false
	}
	if req.target.ManagerID != nil && *req.target.ManagerID == req.actor.ID {
		return Decision{Allowed: true}, true
	}
	return Decision{}, false
}

func self(req request) (Decision, bool) {
	if req.actor.ID != req.target.ID {
		return Decision{}, false
	}
	switch req.action {
	case ActionRead:
		return Decision{Allowed: true}, true
	case ActionModifySelf:
		denied := deniedFields(req.fields)
		if len(denied) > 0 {
			return Decision{Allowed: false, DeniedFields: denied}, true
		}
		return Decision{Allowed: true}, true
	}
	return Decision{Allowed: false}, true
}

func deniedFields(fields []string) []string {
	var denied []string
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		if !IsSelfServiceField(f) {
			denied = append(denied, f)
		}
	}
	sort.Strings(denied)
	return denied
}
