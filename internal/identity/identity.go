// Package identity maps identities verified by the external identity
// provider onto internal user records.
package identity

import (
	"context"
	"net/http"
	"strings"
)

// DefaultName is used when the identity profile carries no name.
const DefaultName = "User"

// Identity is the caller as seen by the identity provider.
type Identity struct {
	ExternalID string
	FirstName  string
	LastName   string
	Email      string
	ImageURL   string
}

// DisplayName joins first and last name, falling back to DefaultName.
func (i *Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return DefaultName
	}
	return name
}

// Provider verifies the credentials on a request. It returns a nil
// Identity without error when the request carries no credentials at all.
type Provider interface {
	Authenticate(r *http.Request) (*Identity, error)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying ident.
func NewContext(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

// FromContext returns the identity stored in ctx, or nil.
func FromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(ctxKey{}).(*Identity)
	return ident
}
