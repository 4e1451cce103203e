package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CookieName carries the desk session token.
const CookieName = "desk_session"

// Locals keys set by the middleware.
const (
	LocalSessionID = "sessionId"
	LocalClientID  = "clientId"
)

// TokenFrom returns the session token of a request: the Authorization header
// ("Bearer <JWT>" or bare "<JWT>") wins over the cookie.
func TokenFrom(c *fiber.Ctx) string {
	if h := strings.TrimSpace(c.Get("Authorization")); h != "" {
		if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return h
	}
	return c.Cookies(CookieName)
}

// NewSessionMiddleware rejects requests without a valid desk session token and
// stores the session and client ids in c.Locals.
func NewSessionMiddleware(g *Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := TokenFrom(c)
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing desk session"})
		}
		claims, err := g.Parse(tokenStr)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}
		c.Locals(LocalSessionID, claims.Subject)
		c.Locals(LocalClientID, claims.ClientID)
		return c.Next()
	}
}
