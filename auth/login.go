package auth

import (
	"context"
	"errors"
	"log"

	"verification-dashboard/services"
)

type LoginState int

const (
	Idle LoginState = iota
	Submitting
	Authenticated
	Failed
)

func (s LoginState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgUnreachable        = "Unable to connect to the server. Please check if the backend is running."
	MsgGeneric            = "An error occurred. Please try again."
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// LoginFlow drives one login form. Each Submit is a single attempt.
type LoginFlow struct {
	auth    Authenticator
	state   LoginState
	message string
	token   string
}

func NewLoginFlow(a Authenticator) *LoginFlow {
	return &LoginFlow{auth: a}
}

func (f *LoginFlow) State() LoginState { return f.state }

// Message is the error shown under the form while the flow is Failed.
func (f *LoginFlow) Message() string { return f.message }

// Token is set once the flow is Authenticated.
func (f *LoginFlow) Token() string { return f.token }

func (f *LoginFlow) Submit(ctx context.Context, username, password string) error {
	f.state = Submitting
	f.message = ""
	f.token = ""

	token, err := f.auth.Login(ctx, username, password)
	if err != nil {
		log.Printf("login error: %v", err)
		f.state = Failed
		f.message = LoginMessage(err)
		return err
	}
	f.state = Authenticated
	f.token = token
	return nil
}

// LoginMessage maps a login failure to the text shown to the operator.
func LoginMessage(err error) string {
	var authErr *services.AuthError
	var netErr *services.NetworkError
	switch {
	case errors.As(err, &authErr):
		return MsgInvalidCredentials
	case errors.As(err, &netErr):
		return MsgUnreachable
	default:
		return MsgGeneric
	}
}
