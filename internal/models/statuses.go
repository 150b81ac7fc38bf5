package models

type UserRole string
type RoleStatus string
type ApplicationStatus string

const (
	UserRoleActor    UserRole = "actor"
	UserRoleDirector UserRole = "director"

	RoleStatusOpen   RoleStatus = "open"
	RoleStatusClosed RoleStatus = "closed"

	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)
