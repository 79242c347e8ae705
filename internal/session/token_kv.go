package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/auth"
	"github.com/pot-code/interview-prep/internal/infrastructure/driver"
)

// TokenKV TokenRepository backed by a key-value store
type TokenKV struct {
	kv  driver.KeyValueDB
	ttl time.Duration
	now func() time.Time
}

var _ TokenRepository = &TokenKV{}

// NewTokenKV create a TokenKV, ttl bounds entries whose token carries no exp claim
func NewTokenKV(kv driver.KeyValueDB, ttl time.Duration) *TokenKV {
	return &TokenKV{kv: kv, ttl: ttl, now: time.Now}
}

func tokenKey(sid string) string {
	return "session:" + sid
}

func userKey(sid string) string {
	return "session:" + sid + ":user"
}

// Token implement apiclient.TokenSource, anonymous contexts yield an empty token
func (tk *TokenKV) Token(ctx context.Context) (string, error) {
	sid, ok := IDFromContext(ctx)
	if !ok {
		return "", nil
	}
	return tk.GetToken(ctx, sid)
}

// GetToken stored token of sid, empty when none
func (tk *TokenKV) GetToken(ctx context.Context, sid string) (string, error) {
	token, err := tk.kv.Get(ctx, tokenKey(sid))
	if errors.Is(err, driver.ErrKeyNotFound) {
		return "", nil
	}
	return token, err
}

// SaveToken store token, expiring together with the token itself when it carries exp
func (tk *TokenKV) SaveToken(ctx context.Context, sid, token string) error {
	return tk.kv.SetEX(ctx, tokenKey(sid), token, tk.expiration(token))
}

// GetUser cached user of sid, nil when none
func (tk *TokenKV) GetUser(ctx context.Context, sid string) (*apiclient.User, error) {
	raw, err := tk.kv.Get(ctx, userKey(sid))
	if errors.Is(err, driver.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user := new(apiclient.User)
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil, fmt.Errorf("corrupted cached user: %w", err)
	}
	return user, nil
}

// SaveUser cache user for sid
func (tk *TokenKV) SaveUser(ctx context.Context, sid string, user *apiclient.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return tk.kv.SetEX(ctx, userKey(sid), string(raw), tk.ttl)
}

// Clear drop token and cached user
func (tk *TokenKV) Clear(ctx context.Context, sid string) error {
	if err := tk.kv.Del(ctx, tokenKey(sid)); err != nil {
		return err
	}
	return tk.kv.Del(ctx, userKey(sid))
}

func (tk *TokenKV) expiration(token string) time.Duration {
	claims, err := auth.Inspect(token)
	if err != nil {
		return tk.ttl
	}
	remaining := claims.TimeRemaining(tk.now())
	if remaining < 0 {
		return tk.ttl
	}
	if remaining == 0 {
		// already expired, keep it just long enough for CheckAuth to see and drop it
		return time.Second
	}
	if tk.ttl > 0 && tk.ttl < remaining {
		return tk.ttl
	}
	return remaining
}
