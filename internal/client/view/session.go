package view

import (
	"context"

	log "github.com/sirupsen/logrus"

	"evcatalog/internal/client"
)

// SessionState is the authentication state of the session view.
type SessionState int

const (
	// Unauthenticated is the state without a valid session.
	Unauthenticated SessionState = iota
	// Checking is the state while a login or status call is in flight.
	Checking
	// Authenticated is the state with a verified principal.
	Authenticated
)

// SessionView tracks authentication status against the session endpoints.
// It holds only a projection of the principal, never authoritative state.
type SessionView struct {
	api *client.Client

	state SessionState
	user  client.User
}

// NewSessionView constructs an unauthenticated session view.
func NewSessionView(api *client.Client) *SessionView {
	return &SessionView{api: api, state: Unauthenticated}
}

// State returns the current authentication state.
func (v *SessionView) State() SessionState { return v.state }

// User returns the authenticated principal in the Authenticated state.
func (v *SessionView) User() client.User { return v.user }

// CheckStatus silently probes the status endpoint on startup. Any failure
// settles to Unauthenticated without surfacing an error.
func (v *SessionView) CheckStatus(ctx context.Context) {
	v.state = Checking
	status, errStatus := v.api.Status(ctx)
	if errStatus != nil || !status.IsAuthenticated {
		if errStatus != nil && !client.IsUnauthorized(errStatus) {
			log.WithError(errStatus).Debug("session status check failed")
		}
		v.state = Unauthenticated
		v.user = client.User{}
		return
	}
	v.state = Authenticated
	v.user = status.User
}

// Login authenticates and transitions Checking to Authenticated on success.
// The returned error carries the server's generic message, which does not
// distinguish unknown logins from wrong passwords.
func (v *SessionView) Login(ctx context.Context, login, password string) error {
	v.state = Checking
	user, errLogin := v.api.Login(ctx, login, password)
	if errLogin != nil {
		v.state = Unauthenticated
		v.user = client.User{}
		return errLogin
	}
	v.state = Authenticated
	v.user = user
	return nil
}

// Logout clears local session state regardless of the transport outcome.
func (v *SessionView) Logout(ctx context.Context) {
	if errLogout := v.api.Logout(ctx); errLogout != nil {
		log.WithError(errLogout).Debug("logout call failed")
	}
	v.state = Unauthenticated
	v.user = client.User{}
}
