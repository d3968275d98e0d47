package server

import (
	"fmt"

	"blogd/internal/auth"
)

// Action names a mutating operation subject to the authorization policy.
type Action string

const (
	// ActionUpdatePost is allowed for any authenticated caller; ownership
	// is not checked, matching the documented behavior of the API.
	ActionUpdatePost Action = "update_post"
	// ActionDeletePost requires the caller to own the post or be an admin.
	ActionDeletePost Action = "delete_post"
	// ActionComment is denied to admin accounts.
	ActionComment Action = "comment"
	// ActionAdminOnly covers routes reserved for administrators.
	ActionAdminOnly Action = "admin_only"
)

// decide is the pure authorization policy: given the requester's identity
// and the id recorded as the resource owner, it returns nil to allow or a
// forbidden error to deny. It performs no I/O.
func decide(action Action, requester *auth.Claims, ownerID string) error {
	if requester == nil {
		return forbidden(fmt.Errorf("unauthorized action"))
	}

	switch action {
	case ActionUpdatePost:
		return nil
	case ActionDeletePost:
		if requester.IsAdmin || requester.Subject == ownerID {
			return nil
		}
		return forbidden(fmt.Errorf("unauthorized action"))
	case ActionComment:
		if requester.IsAdmin {
			return forbidden(fmt.Errorf("admin cannot add comments"))
		}
		return nil
	case ActionAdminOnly:
		if requester.IsAdmin {
			return nil
		}
		return forbidden(fmt.Errorf("admin access required"))
	default:
		return forbidden(fmt.Errorf("unknown action %q", action))
	}
}
