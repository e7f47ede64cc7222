package authn

import (
	"context"

	"github.com/ecomarket/storefront/internal/models"
)

// Identity is the authenticated principal for one request: the freshly
// fetched user plus the authority set derived from its current role.
type Identity struct {
	User        *models.User
	Authorities map[string]struct{}
}

func NewIdentity(user *models.User) *Identity {
	names := user.Authorities()
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return &Identity{User: user, Authorities: set}
}

// HasAuthority reports whether the identity holds the named permission.
// Matching is exact and case-sensitive.
func (id *Identity) HasAuthority(permission string) bool {
	if id == nil {
		return false
	}
	_, ok := id.Authorities[permission]
	return ok
}

// Authorize is the single capability check used by every gated operation.
func Authorize(id *Identity, permission string) bool {
	return id.HasAuthority(permission)
}

type identityContextKey struct{}

func IntoContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}
