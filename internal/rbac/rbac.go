package rbac

// Role constants
const (
	RoleAdmin    = "admin_rh"
	RoleEmployee = "employe"
)

// Permission constants
const (
	PermManageEmployees   = "manage_employees"
	PermManageDepartments = "manage_departments"
	PermDecideRequests    = "decide_requests"
	PermReadAuditLog      = "read_audit_log"
	PermSubmitRequest     = "submit_request"
	PermManageOwnQR       = "manage_own_qr"
	PermEditOwnVisibility = "edit_own_visibility"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermManageEmployees, PermManageDepartments, PermDecideRequests,
		PermReadAuditLog, PermManageOwnQR, PermEditOwnVisibility,
	},
	RoleEmployee: {
		PermSubmitRequest, PermManageOwnQR, PermEditOwnVisibility,
		// Employee CANNOT: PermManageEmployees, PermDecideRequests, PermReadAuditLog
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

func IsKnownRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
