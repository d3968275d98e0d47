package server

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"blogd/internal/auth"
)

func claimsFor(userID string, isAdmin bool) *auth.Claims {
	return &auth.Claims{
		UserName: "someone",
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}
}

func TestDecide(t *testing.T) {
	owner := claimsFor("us-ab12", false)
	stranger := claimsFor("us-cd34", false)
	admin := claimsFor("us-ef56", true)

	cases := []struct {
		name      string
		action    Action
		requester *auth.Claims
		ownerID   string
		allowed   bool
	}{
		{"update never checks ownership", ActionUpdatePost, stranger, "us-ab12", true},
		{"update as admin", ActionUpdatePost, admin, "us-ab12", true},
		{"delete as owner", ActionDeletePost, owner, "us-ab12", true},
		{"delete as stranger", ActionDeletePost, stranger, "us-ab12", false},
		{"delete as admin", ActionDeletePost, admin, "us-ab12", true},
		{"comment as user", ActionComment, stranger, "", true},
		{"comment as admin", ActionComment, admin, "", false},
		{"admin route as admin", ActionAdminOnly, admin, "", true},
		{"admin route as user", ActionAdminOnly, owner, "", false},
		{"nil requester", ActionUpdatePost, nil, "", false},
		{"unknown action", Action("bogus"), admin, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := decide(tc.action, tc.requester, tc.ownerID)
			if tc.allowed && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tc.allowed {
				if err == nil {
					t.Fatal("expected deny")
				}
				if httpStatusFromError(err) != http.StatusForbidden {
					t.Fatalf("expected 403, got %d", httpStatusFromError(err))
				}
			}
		})
	}
}
