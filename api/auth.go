package api

// LoginRequest carries credentials for an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser is the public shape of an account.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse returns a signed token and the account it belongs to.
type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
