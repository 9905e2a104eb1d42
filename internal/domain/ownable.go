package domain

// Ownable is implemented by entities that ultimately belong to a single user.
// Account exposes its owner directly; Transaction derives it through its
// account, so the guard can treat both uniformly.
type Ownable interface {
	// OwnerID returns the id of the owning user, or "" when unknown.
	OwnerID() string
}

// Authorized reports whether caller may read or mutate target. A nil caller
// owns nothing, and an unknown owner never matches any caller. Every service
// operation that touches an owned entity must pass through this check.
func Authorized(caller *User, target Ownable) bool {
	if caller == nil || target == nil {
		return false
	}

	owner := target.OwnerID()

	return owner != "" && owner == caller.ID
}
