package models

// Role is an organization-scoped role carried by a membership.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// Membership ties a user to an organization with a role.
type Membership struct {
	UserID         string
	OrganizationID string
	Role           Role
}
