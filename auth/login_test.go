package auth

import (
	"context"
	"errors"
	"testing"

	"verification-dashboard/services"
)

type fakeAuthenticator struct {
	token string
	err   error
	calls int
}

func (f *fakeAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	f.calls++
	return f.token, f.err
}

func TestLoginFlowStates(t *testing.T) {
	a := &fakeAuthenticator{err: &services.AuthError{Message: "Incorrect username or password"}}
	flow := NewLoginFlow(a)
	if flow.State() != Idle {
		t.Fatalf("expected idle, got %s", flow.State())
	}

	if err := flow.Submit(context.Background(), "admin@example.com", "wrong"); err == nil {
		t.Fatalf("expected error")
	}
	if flow.State() != Failed || flow.Message() != MsgInvalidCredentials || flow.Token() != "" {
		t.Fatalf("unexpected failed flow: %s %q %q", flow.State(), flow.Message(), flow.Token())
	}

	a.token, a.err = "tok", nil
	if err := flow.Submit(context.Background(), "admin@example.com", "secret"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if flow.State() != Authenticated || flow.Token() != "tok" || flow.Message() != "" {
		t.Fatalf("unexpected authenticated flow: %s %q", flow.State(), flow.Message())
	}
	if a.calls != 2 {
		t.Fatalf("expected one call per submission, got %d", a.calls)
	}
}

func TestLoginMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&services.AuthError{}, MsgInvalidCredentials},
		{&services.NetworkError{Op: "login", Err: errors.New("connection refused")}, MsgUnreachable},
		{&services.RequestError{StatusCode: 500, Message: "boom"}, MsgGeneric},
		{errors.New("other"), MsgGeneric},
	}
	for _, tc := range cases {
		if got := LoginMessage(tc.err); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.err, got, tc.want)
		}
	}
}
