package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openagora/agora/auth/handlers"
	"github.com/openagora/agora/internal/cache"
	authjwt "github.com/openagora/agora/internal/middleware/authjwt"
	ratelimit "github.com/openagora/agora/internal/middleware/ratelimit"
	platformconfig "github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
)

// AuthHandlers holds all the handlers this router needs.
type AuthHandlers struct {
	AuthHandler *handlers.AuthHandlers
}

// RegisterRoutes is the single entry point for setting up auth routes.
// Signup and login are public but rate limited per IP; logout requires a
// valid session token.
func RegisterRoutes(app *fiber.App, h *AuthHandlers, cfg *platformconfig.Config, sessionCache *cache.GenericCacheService) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:    cfg.JWT.PublicKey,
		ClaimKey:     "claim",
		UserCtxName:  types.UserCtxName,
		CacheService: sessionCache,
	})

	limits := endpointLimits(cfg)

	group := app.Group("/auth")

	group.Post("/signup", ratelimit.NewSignupLimiter(limits), h.AuthHandler.Signup)
	group.Post("/login", ratelimit.NewLoginLimiter(limits), h.AuthHandler.Login)

	group.Post("/logout", jwtMiddleware, h.AuthHandler.Logout)
}

// endpointLimits maps the rate limit configuration onto the middleware
// limits, falling back to the defaults for unset values.
func endpointLimits(cfg *platformconfig.Config) *ratelimit.EndpointLimits {
	limits := ratelimit.DefaultEndpointLimits()

	if cfg.RateLimits.Login.Enabled {
		if cfg.RateLimits.Login.Max > 0 {
			limits.LoginMaxRequests = cfg.RateLimits.Login.Max
		}
		if cfg.RateLimits.Login.Duration > 0 {
			limits.LoginWindowDuration = cfg.RateLimits.Login.Duration
		}
	}
	if cfg.RateLimits.Signup.Enabled {
		if cfg.RateLimits.Signup.Max > 0 {
			limits.SignupMaxRequests = cfg.RateLimits.Signup.Max
		}
		if cfg.RateLimits.Signup.Duration > 0 {
			limits.SignupWindowDuration = cfg.RateLimits.Signup.Duration
		}
	}

	return &limits
}
