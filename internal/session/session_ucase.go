package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/auth"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// SignupMessage shown after a successful signup, the session stays anonymous
const SignupMessage = "Account created! You can now log in."

type entry struct {
	op sync.Mutex // serializes auth transitions

	mu      sync.RWMutex
	state   State
	user    *apiclient.User
	err     string
	checked bool

	seen time.Time // guarded by SessionUseCaseImpl.mu
}

func (e *entry) snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := &Snapshot{
		IsAuthenticated: e.state == Authenticated,
		Loading:         e.state == Checking,
		Error:           e.err,
		State:           e.state.String(),
	}
	if e.user != nil {
		u := *e.user
		s.User = &u
	}
	return s
}

func (e *entry) set(state State, user *apiclient.User, errText string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
	e.user = user
	e.err = errText
}

const sweepInterval = time.Minute

// SessionUseCaseImpl session state per browser session id
type SessionUseCaseImpl struct {
	api    AuthAPI
	tokens TokenRepository
	idle   time.Duration
	now    func() time.Time

	mu          sync.Mutex
	entries     map[string]*entry
	swept       time.Time
	logoutHooks []func(sid string)
}

var _ SessionUseCase = &SessionUseCaseImpl{}

// NewSessionUseCase create a SessionUseCaseImpl, sessions untouched for idle are forgotten
func NewSessionUseCase(api AuthAPI, tokens TokenRepository, idle time.Duration) *SessionUseCaseImpl {
	return &SessionUseCaseImpl{
		api:     api,
		tokens:  tokens,
		idle:    idle,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// OnLogout register fn to run after a session logs out
func (su *SessionUseCaseImpl) OnLogout(fn func(sid string)) {
	su.mu.Lock()
	defer su.mu.Unlock()
	su.logoutHooks = append(su.logoutHooks, fn)
}

func (su *SessionUseCaseImpl) entry(ctx context.Context) (string, *entry, error) {
	sid, ok := IDFromContext(ctx)
	if !ok {
		return "", nil, ErrNoSession
	}

	now := su.now()
	su.mu.Lock()
	expired := su.sweep(now)
	e, ok := su.entries[sid]
	if !ok {
		e = new(entry)
		su.entries[sid] = e
	}
	e.seen = now
	su.mu.Unlock()

	for _, id := range expired {
		su.loggedOut(id)
	}
	return sid, e, nil
}

// sweep forget entries idle for longer than su.idle, returning the authenticated ones. su.mu must be held.
func (su *SessionUseCaseImpl) sweep(now time.Time) []string {
	if su.idle <= 0 || now.Sub(su.swept) < sweepInterval {
		return nil
	}
	su.swept = now

	var expired []string
	for sid, e := range su.entries {
		if now.Sub(e.seen) <= su.idle {
			continue
		}
		delete(su.entries, sid)
		e.mu.RLock()
		if e.state == Authenticated {
			expired = append(expired, sid)
		}
		e.mu.RUnlock()
	}
	return expired
}

// track keep e under sid only while it holds state a fresh entry could not rebuild from the token store
func (su *SessionUseCaseImpl) track(sid string, e *entry) {
	e.mu.RLock()
	keep := e.state == Authenticated || e.err != ""
	e.mu.RUnlock()

	su.mu.Lock()
	defer su.mu.Unlock()
	if keep {
		e.seen = su.now()
		su.entries[sid] = e
		return
	}
	if su.entries[sid] == e {
		delete(su.entries, sid)
	}
}

func (su *SessionUseCaseImpl) loggedOut(sid string) {
	su.mu.Lock()
	hooks := append([]func(string){}, su.logoutHooks...)
	su.mu.Unlock()
	for _, fn := range hooks {
		fn(sid)
	}
}

// Snapshot current session, restoring it from the stored token on first access
func (su *SessionUseCaseImpl) Snapshot(ctx context.Context) (*Snapshot, error) {
	_, e, err := su.entry(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	checked := e.checked
	e.mu.RUnlock()
	if !checked {
		return su.CheckAuth(ctx)
	}
	return e.snapshot(), nil
}

// CheckAuth resolve the stored token against /auth/me
func (su *SessionUseCaseImpl) CheckAuth(ctx context.Context) (*Snapshot, error) {
	span, ctx := apm.StartSpan(ctx, "SessionUseCase.CheckAuth", "service")
	defer span.End()

	sid, e, err := su.entry(ctx)
	if err != nil {
		return nil, err
	}
	dropped := false
	defer func() {
		if dropped {
			su.loggedOut(sid)
		}
	}()
	e.op.Lock()
	defer e.op.Unlock()
	defer su.track(sid, e)

	logger := logging.ExtractLoggerFromContext(ctx)
	token, err := su.tokens.GetToken(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		su.settle(e, Anonymous, nil, "")
		return e.snapshot(), nil
	}
	if claims, err := auth.Inspect(token); err == nil && claims.Expired(su.now()) {
		logger.Debug("dropping expired token", zap.String("session.id", sid))
		if err := su.tokens.Clear(ctx, sid); err != nil {
			return nil, err
		}
		dropped = true
		su.settle(e, Anonymous, nil, "")
		return e.snapshot(), nil
	}

	e.mu.Lock()
	e.state = Checking
	e.mu.Unlock()

	user, err := su.api.Me(ctx)
	if err != nil {
		if !apiclient.IsRejection(err) {
			// unreachable API says nothing about the token, keep it and check again next time
			logger.Warn("auth check failed", zap.String("session.id", sid), zap.Error(err))
			e.set(Anonymous, nil, checkFallback)
			return e.snapshot(), nil
		}
		logger.Debug("token rejected", zap.String("session.id", sid), zap.Error(err))
		if err := su.tokens.Clear(ctx, sid); err != nil {
			return nil, err
		}
		dropped = true
		su.settle(e, Anonymous, nil, "")
		return e.snapshot(), nil
	}
	user = su.restore(ctx, sid, user)
	if err := su.tokens.SaveUser(ctx, sid, user); err != nil {
		logger.Warn("failed to cache user", zap.String("session.id", sid), zap.Error(err))
	}
	su.settle(e, Authenticated, user, "")
	return e.snapshot(), nil
}

// Login exchange credentials for a token and load the user
func (su *SessionUseCaseImpl) Login(ctx context.Context, email, password string) error {
	span, ctx := apm.StartSpan(ctx, "SessionUseCase.Login", "service")
	defer span.End()

	sid, e, err := su.entry(ctx)
	if err != nil {
		return err
	}
	e.op.Lock()
	defer e.op.Unlock()
	defer su.track(sid, e)

	e.mu.Lock()
	e.err = ""
	e.mu.Unlock()

	res, err := su.api.Login(ctx, &apiclient.Credentials{Email: email, Password: password})
	if err != nil {
		return su.fail(e, loginFallback, err)
	}
	if err := su.tokens.SaveToken(ctx, sid, res.AccessToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	user, err := su.api.Me(ctx)
	if err != nil {
		if cerr := su.tokens.Clear(ctx, sid); cerr != nil {
			logging.ExtractLoggerFromContext(ctx).Error("failed to clear token", zap.String("session.id", sid), zap.Error(cerr))
		}
		return su.fail(e, loginFallback, err)
	}
	if err := su.tokens.SaveUser(ctx, sid, user); err != nil {
		logging.ExtractLoggerFromContext(ctx).Warn("failed to cache user", zap.String("session.id", sid), zap.Error(err))
	}
	su.settle(e, Authenticated, user, "")
	return nil
}

// Signup register an account, the session is not logged in afterwards
func (su *SessionUseCaseImpl) Signup(ctx context.Context, name, email, password string) error {
	span, ctx := apm.StartSpan(ctx, "SessionUseCase.Signup", "service")
	defer span.End()

	sid, e, err := su.entry(ctx)
	if err != nil {
		return err
	}
	e.op.Lock()
	defer e.op.Unlock()
	defer su.track(sid, e)

	e.mu.Lock()
	e.err = ""
	e.mu.Unlock()

	if _, err := su.api.Signup(ctx, &apiclient.SignupRequest{Name: name, Email: email, Password: password}); err != nil {
		msg := apiclient.Message(err, signupFallback)
		e.mu.Lock()
		e.err = msg
		e.mu.Unlock()
		return &Failure{Message: msg, Err: err}
	}
	return nil
}

// Logout local transition, the API is not told
func (su *SessionUseCaseImpl) Logout(ctx context.Context) error {
	sid, e, err := su.entry(ctx)
	if err != nil {
		return err
	}
	e.op.Lock()
	if err := su.tokens.Clear(ctx, sid); err != nil {
		e.op.Unlock()
		return err
	}
	su.settle(e, Anonymous, nil, "")
	su.track(sid, e)
	e.op.Unlock()

	su.loggedOut(sid)
	return nil
}

// UpdateUser merge patch into the cached user. The change is local to this web tier.
func (su *SessionUseCaseImpl) UpdateUser(ctx context.Context, patch *UserPatch) (*apiclient.User, error) {
	sid, e, err := su.entry(ctx)
	if err != nil {
		return nil, err
	}
	e.op.Lock()
	defer e.op.Unlock()

	e.mu.Lock()
	if e.state != Authenticated || e.user == nil {
		e.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	user := *e.user
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	e.user = &user
	e.mu.Unlock()

	if err := su.tokens.SaveUser(ctx, sid, &user); err != nil {
		return nil, err
	}
	out := user
	return &out, nil
}

// ForgotPassword request a reset token
func (su *SessionUseCaseImpl) ForgotPassword(ctx context.Context, email string) (*apiclient.ForgotPasswordResponse, error) {
	span, ctx := apm.StartSpan(ctx, "SessionUseCase.ForgotPassword", "service")
	defer span.End()

	res, err := su.api.ForgotPassword(ctx, email)
	if err != nil {
		return nil, &Failure{Message: apiclient.Message(err, "Failed to send reset email"), Err: err}
	}
	return res, nil
}

// ResetPassword set a new password with a reset token
func (su *SessionUseCaseImpl) ResetPassword(ctx context.Context, token, password string) (*apiclient.MessageResponse, error) {
	span, ctx := apm.StartSpan(ctx, "SessionUseCase.ResetPassword", "service")
	defer span.End()

	res, err := su.api.ResetPassword(ctx, token, password)
	if err != nil {
		return nil, &Failure{Message: apiclient.Message(err, "Failed to reset password"), Err: err}
	}
	return res, nil
}

// restore keep local profile edits cached for the same account
func (su *SessionUseCaseImpl) restore(ctx context.Context, sid string, user *apiclient.User) *apiclient.User {
	cached, err := su.tokens.GetUser(ctx, sid)
	if err != nil {
		logging.ExtractLoggerFromContext(ctx).Warn("failed to read cached user", zap.String("session.id", sid), zap.Error(err))
		return user
	}
	if cached == nil || cached.ID != user.ID {
		return user
	}
	return cached
}

// fail record a failed login/signup, the session ends up anonymous
func (su *SessionUseCaseImpl) fail(e *entry, fallback string, err error) error {
	msg := apiclient.Message(err, fallback)
	su.settle(e, Anonymous, nil, msg)
	return &Failure{Message: msg, Err: err}
}

func (su *SessionUseCaseImpl) settle(e *entry, state State, user *apiclient.User, errText string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
	e.user = user
	e.err = errText
	e.checked = true
}
