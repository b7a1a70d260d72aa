package storage

import "fmt"

// Role is the audience tag shared by users and articles. An article is
// visible to a user when the tags match.
type Role string

const (
	RoleUnset        Role = ""
	RoleRegular      Role = "regular"
	RoleEntrepreneur Role = "entrepreneur"
)

// ParseRole validates a role tag coming from the outside (callback payloads).
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRegular:
		return RoleRegular, nil
	case RoleEntrepreneur:
		return RoleEntrepreneur, nil
	default:
		return RoleUnset, fmt.Errorf("unknown role %q", s)
	}
}
