package communities

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openagora/agora/communities/handlers"
	"github.com/openagora/agora/internal/cache"
	authjwt "github.com/openagora/agora/internal/middleware/authjwt"
	constraints "github.com/openagora/agora/internal/middleware/constraints"
	platformconfig "github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
)

// CommunitiesHandlers holds all the handlers this router needs.
type CommunitiesHandlers struct {
	CommunityHandler *handlers.CommunityHandler
}

// RegisterRoutes is the single entry point for setting up communities routes.
func RegisterRoutes(app *fiber.App, h *CommunitiesHandlers, cfg *platformconfig.Config, sessionCache *cache.GenericCacheService) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:    cfg.JWT.PublicKey,
		ClaimKey:     "claim",
		UserCtxName:  types.UserCtxName,
		CacheService: sessionCache,
	})

	group := app.Group("/communities")

	// Public listing and lookup
	group.Get("/", h.CommunityHandler.ListCommunities)
	group.Get("/slug/:slug", h.CommunityHandler.GetBySlug)

	// --- User-Facing Routes (JWT) ---
	userGroup := group.Group("", jwtMiddleware)

	userGroup.Post("/", h.CommunityHandler.CreateCommunity)
	userGroup.Post("/:communityId/join", constraints.RequireUUID("communityId"), h.CommunityHandler.Join)
	userGroup.Post("/:communityId/leave", constraints.RequireUUID("communityId"), h.CommunityHandler.Leave)

	// Moderation
	userGroup.Post("/:communityId/ban", constraints.RequireUUID("communityId"), h.CommunityHandler.BanMember)
	userGroup.Delete("/:communityId/posts/:postId",
		constraints.RequireUUID("communityId"), constraints.RequireUUID("postId"),
		h.CommunityHandler.RemovePost)
}
