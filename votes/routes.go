package votes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openagora/agora/internal/cache"
	authjwt "github.com/openagora/agora/internal/middleware/authjwt"
	platformconfig "github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
	"github.com/openagora/agora/votes/handlers"
)

// VotesHandlers holds all the handlers this router needs.
type VotesHandlers struct {
	VoteHandler *handlers.VoteHandler
}

// RegisterRoutes is the single entry point for setting up votes routes.
func RegisterRoutes(app *fiber.App, h *VotesHandlers, cfg *platformconfig.Config, sessionCache *cache.GenericCacheService) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:    cfg.JWT.PublicKey,
		ClaimKey:     "claim",
		UserCtxName:  types.UserCtxName,
		CacheService: sessionCache,
	})

	group := app.Group("/votes", jwtMiddleware)
	group.Post("/", h.VoteHandler.CastVote)
}
