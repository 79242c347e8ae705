package apiclient

import (
	"context"
	"net/http"
)

// User account as served by /auth/me
type User struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
	TotalXP     int    `json:"total_xp"`
	Level       int    `json:"level"`
	StreakCount int    `json:"streak_count"`
	LastLogin   string `json:"last_login,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Credentials login body
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest signup body
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// TokenResponse login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ForgotPasswordResponse carries the reset token while no mailer exists
type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

// Signup POST /auth/signup
func (c *Client) Signup(ctx context.Context, req *SignupRequest) (*User, error) {
	out := new(User)
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/signup", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login POST /auth/login
func (c *Client) Login(ctx context.Context, req *Credentials) (*TokenResponse, error) {
	out := new(TokenResponse)
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me GET /auth/me
func (c *Client) Me(ctx context.Context) (*User, error) {
	out := new(User)
	if err := c.getJSON(ctx, "/auth/me", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForgotPassword POST /auth/forgot-password
func (c *Client) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResponse, error) {
	out := new(ForgotPasswordResponse)
	body := map[string]string{"email": email}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/forgot-password", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResetPassword POST /auth/reset-password
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*MessageResponse, error) {
	out := new(MessageResponse)
	body := map[string]string{"token": token, "new_password": newPassword}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/reset-password", body, out); err != nil {
		return nil, err
	}
	return out, nil
}
