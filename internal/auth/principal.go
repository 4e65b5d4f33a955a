package auth

// Principal identifies the authenticated caller of a request. It carries the
// claims extracted from the session token, not the full user record.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// HasRole reports whether the principal holds any of the given roles.
func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
