package services

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/citizenhero/raindrop/config"
)

const sessionMaxAge = 30 * 24 * time.Hour

// SessionService resolves the opaque session identifier that scopes quest
// ownership. Resolution order: an explicit client-supplied identifier wins
// over the session cookie, which wins over minting a fresh identifier. The
// resolved identifier is always echoed back as a cookie.
type SessionService struct {
	cookieName string
	secure     bool
}

// NewSessionService creates a new session service
func NewSessionService(cfg *config.Config) *SessionService {
	cookieName := cfg.Web.CookieName
	if cookieName == "" {
		cookieName = "ch_session"
	}

	return &SessionService{
		cookieName: cookieName,
		secure:     cfg.Web.Environment == "production",
	}
}

// Resolve returns the session identifier for the request. explicit is the
// client_id from the request body, when the endpoint has one; the client_id
// query parameter and the cookie are consulted after it.
func (s *SessionService) Resolve(c *fiber.Ctx, explicit string) string {
	id := strings.TrimSpace(explicit)
	if id == "" {
		id = strings.TrimSpace(c.Query("client_id"))
	}
	if id == "" {
		id = c.Cookies(s.cookieName)
	}
	if id == "" {
		id = uuid.NewString()
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return id
}
