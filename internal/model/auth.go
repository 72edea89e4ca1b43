package model

import "github.com/golang-jwt/jwt/v5"

// AgentClaims are JWT claims for an authenticated agent
type AgentClaims struct {
	AgentID string `json:"agentId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for agent login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	AgentID   string `json:"agentId"`
	ExpiresAt int64  `json:"expiresAt"`
}
