package domain

// AuthStatus is the answer of the API's /auth/status endpoint.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email"`
}

// Result is the envelope returned by mutating API endpoints.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// LoginResult is the answer of the API's /login endpoint.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Error   string `json:"error,omitempty"`
}
