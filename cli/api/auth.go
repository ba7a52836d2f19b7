package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if err := Validate(creds); err != nil {
		return "", err
	}
	var raw json.RawMessage
	err := c.do(ctx, request{op: "login", method: http.MethodPost, path: "/auth/login", body: creds}, &raw)
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(raw, "token").String()
	if token == "" {
		return "", &TransportError{Op: "login", Message: "response did not contain a token"}
	}
	return token, nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{op: "logout", method: http.MethodPost, path: "/auth/logout"}, nil)
}
