package domain

// User is an identity from the external directory. Users are never created
// or mutated here; the whole set is replaced on each directory sync and the
// snapshot lives only in process memory.
type User struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
}

// InGroup reports whether the user is a member of the named group.
func (u *User) InGroup(group string) bool {
	for _, g := range u.Groups {
		if g == group {
			return true
		}
	}
	return false
}
