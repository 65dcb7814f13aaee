package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// ProfileResponse describes the caller's roles in the help desk
type ProfileResponse struct {
	User      UserResponse `json:"user"`
	IsStudent bool         `json:"isStudent"`
	IsTA      bool         `json:"isTA"`
	TAActive  bool         `json:"taActive"`
	OnDuty    bool         `json:"onDuty"`
	Courses   []int        `json:"courses,omitempty"`
}
