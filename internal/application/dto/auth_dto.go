package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// LoginResponse token emitido.
type LoginResponse struct {
	Token string `json:"token"`
}
