package models

import "github.com/golang-jwt/jwt/v5"

// Actor roles carried by tenant tokens.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleGuardian = "guardian"
)

// TenantClaims is the identity the authorization edge hands to the core: an
// already-validated tenant plus the acting user. The core performs no tenant
// or role resolution of its own.
type TenantClaims struct {
	TenantID uint   `json:"tenant_id"`
	ActorID  uint   `json:"actor_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
