package authn

import (
	"context"
	"net/http"

	"github.com/offgate/offgate/user"
)

type identityContextKeyType string

const identityContextKey identityContextKeyType = "authenticated_identity"

// Identity is what a successful authentication attaches to the request
// context. PasswordExpired marks an authenticated caller whose stored
// password is past its expiry and must be changed.
type Identity struct {
	Username        string
	AccountType     user.AccountType
	PasswordExpired bool
}

func (i *Identity) IsAdmin() bool {
	return i.AccountType == user.AccountTypeAdmin
}

// GetIdentityFromRequest returns the authenticated identity placed on
// the request by the middleware. It panics when the middleware is not
// in the chain; that is a wiring bug, not a runtime condition.
func GetIdentityFromRequest(r *http.Request) *Identity {
	id := r.Context().Value(identityContextKey)
	if id == nil {
		panic("no identity in request, is the authentication middleware configured properly?")
	}

	return id.(*Identity)
}

func attachIdentity(r *http.Request, id *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityContextKey, id))
}

// ArbitraryAttachIdentity places an identity on a request directly.
// Only really useful for tests that exercise handlers without the
// middleware in front of them.
func ArbitraryAttachIdentity(r *http.Request, id *Identity) *http.Request {
	return attachIdentity(r, id)
}
