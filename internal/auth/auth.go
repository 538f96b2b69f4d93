package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
)

// AnonymousUser is the sentinel identity used when the CI host forwarded no
// authenticated user with the request.
const AnonymousUser = "anonymous"

// UserHeader carries the identity of the authenticated CI user. The service
// sits behind the host's proxy, which is trusted to set it.
const UserHeader = "X-Forwarded-User"

// Authorizer answers the promote capability check for a user.
type Authorizer struct {
	allowAll  bool
	promoters map[string]bool
}

func NewAuthorizer(promoters []string) *Authorizer {
	a := &Authorizer{promoters: map[string]bool{}}
	for _, p := range promoters {
		if p == "*" {
			a.allowAll = true
			continue
		}
		a.promoters[p] = true
	}
	return a
}

func (a *Authorizer) HasPermission(user string) bool {
	return a.allowAll || a.promoters[user]
}

// CheckPermission is the enforcing variant of HasPermission.
func (a *Authorizer) CheckPermission(user string) error {
	if !a.HasPermission(user) {
		return entity.ErrPermissionDenied
	}
	return nil
}

// CurrentUser resolves the invoking user's identity from the request,
// falling back to the anonymous sentinel.
func CurrentUser(c echo.Context) string {
	if user := c.Request().Header.Get(UserHeader); user != "" {
		return user
	}
	return AnonymousUser
}
