package apiclient

import (
	"context"
	"net/http"
)

// PasswordChange POST /settings/change-password body
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword POST /settings/change-password
func (c *Client) ChangePassword(ctx context.Context, req *PasswordChange) (*MessageResponse, error) {
	out := new(MessageResponse)
	if err := c.sendJSON(ctx, http.MethodPost, "/settings/change-password", req, out); err != nil {
		return nil, err
	}
	return out, nil
}
