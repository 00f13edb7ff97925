package authapi

import "prepauth/internal/auth/session"

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email string `json:"email"`
	// Exactly one of Password and IDToken is required. Password goes
	// through the provider's password check; IDToken is used as-is when the
	// client completed the identity flow elsewhere.
	Password string `json:"password,omitempty"`
	IDToken  string `json:"id_token,omitempty"`
}

type meResponse struct {
	User *session.User `json:"user"`
}
