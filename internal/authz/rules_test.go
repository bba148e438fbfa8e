package authz

import (
	"testing"

	"go-hrms/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func subject(role domain.Role, manager *uuid.UUID) Subject {
	return Subject{ID: uuid.New(), Role: role, ManagerID: manager, Status: "active"}
}

func TestDecide_RuleOrder(t *testing.T) {
	admin := subject(domain.RoleAdmin, nil)
	superAdmin := subject(domain.RoleSuperAdmin, nil)
	hr := subject(domain.RoleHR, nil)
	manager := subject(domain.RoleManager, nil)
	report := subject(domain.RoleEmployee, &manager.ID)
	stranger := subject(domain.RoleEmployee, nil)

	tests := []struct {
		name    string
		actor   Subject
		target  Subject
		action  Action
		allowed bool
		rule    string
	}{
		{"admin deletes anyone", admin, stranger, ActionDelete, true, "admin_tier"},
		{"super admin approves", superAdmin, report, ActionApprove, true, "admin_tier"},
		{"hr reads anyone", hr, stranger, ActionRead, true, "hr"},
		{"hr modifies any field", hr, stranger, ActionModifyAny, true, "hr"},
		{"hr approves", hr, report, ActionApprove, true, "hr"},
		{"hr cannot delete", hr, stranger, ActionDelete, false, "hr"},
		{"manager reads report", manager, report, ActionRead, true, "manager_of_target"},
		{"manager approves report", manager, report, ActionApprove, true, "manager_of_target"},
		{"manager cannot modify report", manager, report, ActionModifyAny, false, "default_deny"},
		{"manager cannot read stranger", manager, stranger, ActionRead, false, "default_deny"},
		{"manager reads self", manager, manager, ActionRead, true, "self"},
		{"manager cannot approve self", manager, manager, ActionApprove, false, "self"},
		{"employee reads self", stranger, stranger, ActionRead, true, "self"},
		{"employee cannot approve self", stranger, stranger, ActionApprove, false, "self"},
		{"employee cannot read other", stranger, report, ActionRead, false, "default_deny"},
		{"employee cannot modify any on self", stranger, stranger, ActionModifyAny, false, "self"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.actor, tt.target, tt.action)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.rule, d.Rule)
		})
	}
}

func TestDecide_SelfServiceFields(t *testing.T) {
	me := subject(domain.RoleEmployee, nil)

	t.Run("allow-listed fields", func(t *testing.T) {
		d := Decide(me, me, ActionModifySelf, FieldPhone, FieldAddress, FieldEmergencyContact, FieldProfileImage)
		assert.True(t, d.Allowed)
		assert.Empty(t, d.DeniedFields)
	})

	t.Run("offending fields are enumerated", func(t *testing.T) {
		d := Decide(me, me, ActionModifySelf, FieldPhone, "basic_salary", "role", "basic_salary")
		assert.False(t, d.Allowed)
		assert.Equal(t, []string{"basic_salary", "role"}, d.DeniedFields)
	})

	t.Run("hr editing own record uses self rule", func(t *testing.T) {
		hr := subject(domain.RoleHR, nil)
		d := Decide(hr, hr, ActionModifySelf, FieldPhone)
		assert.True(t, d.Allowed)
		assert.Equal(t, "self", d.Rule)
	})
}

func TestDecide_UnknownRoleDenied(t *testing.T) {
	ghost := Subject{ID: uuid.New(), Role: domain.Role("")}
	other := subject(domain.RoleEmployee, nil)

	d := Decide(ghost, other, ActionRead)
	assert.False(t, d.Allowed)
}
