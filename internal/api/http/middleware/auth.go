package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	pasetotoken "github.com/agendaq/agendaq_backend/pkg/paseto"
)

// AuthRequired validates a Bearer PASETO access token. On success, stores
// *pasetotoken.Claims in c.Locals(pasetotoken.CtxKeyClaims). Tokens without
// a tenant claim are rejected with 403, not 401: the token itself is valid
// but cannot be scoped to any tenant's data.
func AuthRequired(mgr *pasetotoken.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// Only access tokens are accepted on protected routes
		if claims.Type != pasetotoken.TokenTypeAccess {
			return fiber.ErrUnauthorized
		}

		if claims.TenantID == "" {
			return fiber.ErrForbidden
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		return c.Next()
	}
}

// TenantFromFiber returns the authenticated caller's tenant.
func TenantFromFiber(c fiber.Ctx) (string, bool) {
	claims, ok := pasetotoken.ClaimsFromFiber(c)
	if !ok || claims.TenantID == "" {
		return "", false
	}
	return claims.TenantID, true
}
