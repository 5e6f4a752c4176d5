package domain

import "time"

// RoleAssignedEvent represents the payload for task.access.role.assigned messages.
type RoleAssignedEvent struct {
	EventID    string
	UserID     string
	RoleID     string
	RoleName   string
	AssignedBy string
	AssignedAt time.Time
	Metadata   map[string]any
}

// RoleRemovedEvent represents the payload for task.access.role.removed messages.
type RoleRemovedEvent struct {
	EventID   string
	UserID    string
	RoleID    string
	RoleName  string
	RemovedBy string
	RemovedAt time.Time
	Metadata  map[string]any
}
