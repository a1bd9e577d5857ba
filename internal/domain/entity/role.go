package entity

// Role represents an employee role in the clinic
type Role string

const (
	RoleDoctor     Role = "doctor"
	RoleAssistant  Role = "assistant"
	RoleSecretary  Role = "secretary"
	RoleManager    Role = "manager"
	RoleSuperAdmin Role = "superadmin"
)

// IsManagerial reports whether the role may approve, reject or cancel requests
// on behalf of other employees.
func (r Role) IsManagerial() bool {
	return r == RoleManager || r == RoleSuperAdmin
}

// IsSchedulable reports whether the role appears on the day planning.
func (r Role) IsSchedulable() bool {
	return r == RoleDoctor || r == RoleAssistant || r == RoleSecretary
}
