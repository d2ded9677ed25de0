package model

// User mirrors the user record returned by the portal auth endpoints.
type User struct {
	ID          int64          `json:"id"`
	PublicID    string         `json:"user_id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"name"`
	Role        string         `json:"role"`
	Profile     map[string]any `json:"profile,omitempty"`
}
