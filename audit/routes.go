package audit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openagora/agora/audit/handlers"
	"github.com/openagora/agora/internal/cache"
	authjwt "github.com/openagora/agora/internal/middleware/authjwt"
	platformconfig "github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
)

// AuditHandlers holds all the handlers this router needs.
type AuditHandlers struct {
	AuditHandler *handlers.AuditHandler
}

// RegisterRoutes is the single entry point for setting up audit routes.
// The listing endpoint is admin only; the role check lives in the handler.
func RegisterRoutes(app *fiber.App, h *AuditHandlers, cfg *platformconfig.Config, sessionCache *cache.GenericCacheService) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:    cfg.JWT.PublicKey,
		ClaimKey:     "claim",
		UserCtxName:  types.UserCtxName,
		CacheService: sessionCache,
	})

	group := app.Group("/audit", jwtMiddleware)
	group.Get("/", h.AuditHandler.ListEntries)
}
