package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthUser is the user summary returned on a successful login. Fields come
// straight from the identity provider.
type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	User        *AuthUser `json:"user,omitempty"`
	AccessToken string    `json:"access_token,omitempty"`
}
