package posts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openagora/agora/internal/cache"
	authjwt "github.com/openagora/agora/internal/middleware/authjwt"
	constraints "github.com/openagora/agora/internal/middleware/constraints"
	platformconfig "github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
	"github.com/openagora/agora/posts/handlers"
)

// PostsHandlers holds all the handlers this router needs.
type PostsHandlers struct {
	PostHandler *handlers.PostHandler
}

// RegisterRoutes is the single entry point for setting up posts routes.
// Search is public; everything else requires a valid session token.
func RegisterRoutes(app *fiber.App, h *PostsHandlers, cfg *platformconfig.Config, sessionCache *cache.GenericCacheService) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:    cfg.JWT.PublicKey,
		ClaimKey:     "claim",
		UserCtxName:  types.UserCtxName,
		CacheService: sessionCache,
	})

	group := app.Group("/posts")

	// Public search endpoint
	group.Get("/search", h.PostHandler.SearchPosts)

	// --- User-Facing Routes (JWT) ---
	userGroup := group.Group("", jwtMiddleware)

	userGroup.Post("/", h.PostHandler.CreatePost)

	// Parameterized routes for specific resources (must be last)
	userGroup.Get("/:postId", constraints.RequireUUID("postId"), h.PostHandler.GetPost)
	userGroup.Put("/:postId", constraints.RequireUUID("postId"), h.PostHandler.UpdatePost)
	userGroup.Delete("/:postId", constraints.RequireUUID("postId"), h.PostHandler.DeletePost)
}
