package domain

// Permission defines a named capability in resource:action form, e.g. "boards:create".
type Permission struct {
	ID          string
	Name        string
	Description *string
}

// Role defines a named bundle of permissions. Level is the hierarchy rank
// persisted on the role row itself; higher means more privileged.
type Role struct {
	ID          string
	Name        string
	Description *string
	Level       int
}

// Decision is the outcome of an authorization check, consumed by the
// enforcing transport layer.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Allow builds a permissive decision.
func Allow(reason string) Decision {
	return Decision{Allowed: true, Reason: reason}
}

// Deny builds a rejecting decision.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
