package comments

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openagora/agora/comments/handlers"
	"github.com/openagora/agora/internal/cache"
	authjwt "github.com/openagora/agora/internal/middleware/authjwt"
	constraints "github.com/openagora/agora/internal/middleware/constraints"
	platformconfig "github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
)

// CommentsHandlers holds all the handlers this router needs.
type CommentsHandlers struct {
	CommentHandler *handlers.CommentHandler
}

// RegisterRoutes is the single entry point for setting up comments routes.
func RegisterRoutes(app *fiber.App, h *CommentsHandlers, cfg *platformconfig.Config, sessionCache *cache.GenericCacheService) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:    cfg.JWT.PublicKey,
		ClaimKey:     "claim",
		UserCtxName:  types.UserCtxName,
		CacheService: sessionCache,
	})

	group := app.Group("/comments")

	// Public listing by post
	group.Get("/post/:postId", constraints.RequireUUID("postId"), h.CommentHandler.ListByPost)

	// --- User-Facing Routes (JWT) ---
	userGroup := group.Group("", jwtMiddleware)

	userGroup.Post("/", h.CommentHandler.CreateComment)
	userGroup.Put("/:commentId", constraints.RequireUUID("commentId"), h.CommentHandler.UpdateComment)
	userGroup.Delete("/:commentId", constraints.RequireUUID("commentId"), h.CommentHandler.DeleteComment)
}
