package session

import (
	"context"
	"errors"

	"github.com/pot-code/interview-prep/internal/apiclient"
)

// State authentication state of one browser session
type State int

const (
	// Anonymous no usable token
	Anonymous State = iota
	// Checking token present, /auth/me in flight
	Checking
	// Authenticated token confirmed, user loaded
	Authenticated
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

const (
	loginFallback  = "Login failed"
	signupFallback = "Signup failed"
	checkFallback  = "Unable to verify your session, please try again"
)

var (
	// ErrNoSession context carries no browser session id
	ErrNoSession = errors.New("no session bound to context")
	// ErrNotAuthenticated operation requires an authenticated session
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Snapshot observable session fields
type Snapshot struct {
	User            *apiclient.User `json:"user"`
	IsAuthenticated bool            `json:"isAuthenticated"`
	Loading         bool            `json:"loading"`
	Error           string          `json:"error"`
	State           string          `json:"state"`
}

// UserPatch local profile edit, nil fields are left untouched
type UserPatch struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

// Failure user facing auth failure
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AuthAPI remote auth endpoints the session depends on
type AuthAPI interface {
	Signup(ctx context.Context, req *apiclient.SignupRequest) (*apiclient.User, error)
	Login(ctx context.Context, req *apiclient.Credentials) (*apiclient.TokenResponse, error)
	Me(ctx context.Context) (*apiclient.User, error)
	ForgotPassword(ctx context.Context, email string) (*apiclient.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*apiclient.MessageResponse, error)
}

// TokenRepository persists bearer tokens and cached users per session id
type TokenRepository interface {
	apiclient.TokenSource
	GetToken(ctx context.Context, sid string) (string, error)
	SaveToken(ctx context.Context, sid, token string) error
	GetUser(ctx context.Context, sid string) (*apiclient.User, error)
	SaveUser(ctx context.Context, sid string, user *apiclient.User) error
	Clear(ctx context.Context, sid string) error
}

// SessionUseCase auth/session operations, the session is the one bound to ctx
type SessionUseCase interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (*Snapshot, error)
	UpdateUser(ctx context.Context, patch *UserPatch) (*apiclient.User, error)
	ForgotPassword(ctx context.Context, email string) (*apiclient.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, token, password string) (*apiclient.MessageResponse, error)
}

type sidKey struct{}

// WithID bind browser session id to ctx
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidKey{}, sid)
}

// IDFromContext browser session id bound to ctx
func IDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sidKey{}).(string)
	return sid, ok && sid != ""
}
