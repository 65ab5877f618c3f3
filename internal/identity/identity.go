// Package identity defines the contract of the external identity provider
// and a demo provider that signs everyone in without credentials.
package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ErrSignInFailed is returned by providers that reject a sign-in.
var ErrSignInFailed = errors.New("sign-in failed")

// Identity is what a provider returns after a successful sign-in.
type Identity struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// Hint carries optional values the caller supplied at login.
type Hint struct {
	Name  string
	Email string
}

// Provider signs users in and out. The OAuth handshake, if any, happens
// behind it.
type Provider interface {
	SignIn(ctx context.Context, hint Hint) (Identity, error)
	SignOut(ctx context.Context, userID string) error
}

// Demo is a Provider that accepts every sign-in and invents a user.
type Demo struct{}

var _ Provider = Demo{}

const (
	demoName  = "Demo User"
	demoEmail = "demo.user@example.com"
)

// SignIn returns a demo identity. Hint values replace the defaults, and a
// hinted email always maps to the same id.
func (Demo) SignIn(ctx context.Context, hint Hint) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	name := strings.TrimSpace(hint.Name)
	if name == "" {
		name = demoName
	}
	email := strings.TrimSpace(hint.Email)
	if email == "" {
		email = demoEmail
	}
	if !strings.Contains(email, "@") {
		return Identity{}, errors.Join(ErrSignInFailed, errors.New("invalid email"))
	}

	return Identity{
		ID:        demoID(hint.Email),
		Name:      name,
		Email:     email,
		AvatarURL: AvatarURL(name),
	}, nil
}

// demoID derives a stable id from a caller-supplied email so the same person
// gets the same persisted data back. Anonymous sign-ins get a fresh id.
func demoID(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	u := uuid.New()
	if email != "" {
		u = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email))
	}
	return "user-" + strings.ReplaceAll(u.String(), "-", "")[:12]
}

// SignOut always succeeds.
func (Demo) SignOut(context.Context, string) error {
	return nil
}

// AvatarURL returns a generated initials avatar for name.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "0D8ABC")
	q.Set("color", "fff")
	return "https://ui-avatars.com/api/?" + q.Encode()
}
