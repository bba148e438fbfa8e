package rbac

import "go-hrms/internal/domain"

type policy struct {
	role     domain.Role
	resource string
	action   string
}

// defaultPolicies are route-level grants. Higher roles inherit the grants of
// every role below them, so each permission is listed once at its lowest tier.
var defaultPolicies = []policy{
	{domain.RoleEmployee, "employee", "read"},
	{domain.RoleEmployee, "employee", "update"},
	{domain.RoleEmployee, "department", "read"},
	{domain.RoleEmployee, "attendance", "clock"},
	{domain.RoleEmployee, "attendance", "read"},
	{domain.RoleEmployee, "leave", "create"},
	{domain.RoleEmployee, "leave", "read"},
	{domain.RoleEmployee, "leave", "update"},
	{domain.RoleEmployee, "leave", "cancel"},
	{domain.RoleEmployee, "payroll", "read"},
	{domain.RoleEmployee, "performance", "read"},
	{domain.RoleEmployee, "performance", "acknowledge"},

	{domain.RoleManager, "attendance", "manage"},
	{domain.RoleManager, "leave", "approve"},
	{domain.RoleManager, "employee", "team"},
	{domain.RoleManager, "performance", "create"},
	{domain.RoleManager, "performance", "update"},
	{domain.RoleManager, "performance", "approve"},

	{domain.RoleHR, "employee", "create"},
	{domain.RoleHR, "department", "create"},
	{domain.RoleHR, "department", "update"},
	{domain.RoleHR, "payroll", "create"},
	{domain.RoleHR, "payroll", "update"},
	{domain.RoleHR, "payroll", "pay"},
	{domain.RoleHR, "payroll", "export"},
	{domain.RoleHR, "performance", "hr_approve"},
	{domain.RoleHR, "rbac", "read"},

	{domain.RoleAdmin, "employee", "delete"},
	{domain.RoleAdmin, "department", "delete"},
	{domain.RoleAdmin, "rbac", "manage"},
}
