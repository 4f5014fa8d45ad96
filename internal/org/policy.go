package org

// CanManage decides whether the identity may mutate the organization. Only
// owner members may mutate; guests and non-members have read-only access.
// Pure decision over the loaded organization, no store access.
func CanManage(o Organization, email string) bool {
	isMember := false
	isGuest := false
	for _, m := range o.Members {
		if m.Email != email {
			continue
		}
		isMember = true
		if m.AccessLevel == AccessGuest {
			isGuest = true
		}
	}
	return isMember && !isGuest
}
