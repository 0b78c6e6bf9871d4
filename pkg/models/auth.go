package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the custom claims carried by service tokens.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	APIKey   string `json:"api_key"`
	UserTier string `json:"user_tier"`
	jwt.RegisteredClaims
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status     string            `json:"status"` // healthy, degraded, unhealthy
	Components map[string]string `json:"components"`
	Generation uint64            `json:"index_generation"`
}
