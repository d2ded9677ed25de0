package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rozgarlabs/portalkit/internal/domain/model"
	"github.com/rozgarlabs/portalkit/pkg/logger"
)

// Auth endpoint paths.
const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
)

// loginRequest mirrors POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest mirrors POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	City      string `json:"city,omitempty"`
}

// AuthResponse mirrors the backend auth response envelope.
type AuthResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	AccessToken string      `json:"access_token,omitempty"`
	User        *model.User `json:"user,omitempty"`
}

// Login posts credentials. Backend-reported failures (wrong password,
// unknown user) come back as Success=false, not as an error; only transport
// failures return an error.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.postAuth(ctx, loginPath, loginRequest{Email: email, Password: password})
}

// Register creates an account. Same result semantics as Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.postAuth(ctx, registerPath, req)
}

func (c *Client) postAuth(ctx context.Context, path string, body any) (*AuthResponse, error) {
	resp, err := c.Do(ctx, http.MethodPost, path, body, "")
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := json.Unmarshal(resp.Body, &auth); err != nil || (!auth.Success && auth.Message == "") {
		auth = AuthResponse{Success: false, Message: ErrorMessage(resp.Body)}
	}

	if resp.StatusCode != http.StatusOK {
		auth.Success = false
		if auth.Message == "" {
			auth.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug(ctx, "auth request rejected",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
		)
	}
	return &auth, nil
}
