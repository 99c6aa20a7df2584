package jwttoken

import (
	authmw "timecapsule/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *Claims) *authmw.IdentityClaims {
	return &authmw.IdentityClaims{
		Identity: claims.Identity,
		JTI:      claims.ID,
	}
}

// JWTServiceAdapter lets the auth middleware validate tokens without
// depending on the JWT claim layout.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.IdentityClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
