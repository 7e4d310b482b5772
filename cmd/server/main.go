package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/openagora/agora/audit"
	auditHandlers "github.com/openagora/agora/audit/handlers"
	auditRepository "github.com/openagora/agora/audit/repository"
	auditServices "github.com/openagora/agora/audit/services"
	"github.com/openagora/agora/auth"
	authHandlers "github.com/openagora/agora/auth/handlers"
	authRepository "github.com/openagora/agora/auth/repository"
	authServices "github.com/openagora/agora/auth/services"
	"github.com/openagora/agora/comments"
	commentHandlers "github.com/openagora/agora/comments/handlers"
	commentRepository "github.com/openagora/agora/comments/repository"
	commentServices "github.com/openagora/agora/comments/services"
	"github.com/openagora/agora/communities"
	communityHandlers "github.com/openagora/agora/communities/handlers"
	communityRepository "github.com/openagora/agora/communities/repository"
	communityServices "github.com/openagora/agora/communities/services"
	"github.com/openagora/agora/internal/cache"
	"github.com/openagora/agora/internal/database/postgres"
	requestid "github.com/openagora/agora/internal/middleware/requestid"
	platformconfig "github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/posts"
	postHandlers "github.com/openagora/agora/posts/handlers"
	postsRepository "github.com/openagora/agora/posts/repository"
	postsServices "github.com/openagora/agora/posts/services"
	"github.com/openagora/agora/votes"
	voteHandlers "github.com/openagora/agora/votes/handlers"
	votesRepository "github.com/openagora/agora/votes/repository"
	votesServices "github.com/openagora/agora/votes/services"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load platform config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid platform config: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			// If the handler already wrote a response, don't override it
			if len(c.Response().Body()) > 0 {
				return nil
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// CORS configuration for browser direct access
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.WebDomain,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))
	app.Use(requestid.New())

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("Failed to create postgres client: %v", err)
	}
	defer pgClient.Close()

	// Cache backend for the session allowlist
	var cacheBackend cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		cacheBackend, err = cache.NewRedisCache(ctx, &cfg.Cache.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
	default:
		cacheBackend = cache.NewMemoryCache()
	}
	sessionCache := cache.NewGenericCacheService(cacheBackend, &cache.Config{
		Enabled: cfg.Cache.Enabled,
		TTL:     cfg.Cache.TTL,
		Prefix:  cfg.Cache.Prefix,
		Backend: cfg.Cache.Backend,
	})

	// Repositories share the same connection pool
	userRepo := authRepository.NewPostgresUserRepository(pgClient)
	postRepo := postsRepository.NewPostgresRepository(pgClient)
	voteRepo := votesRepository.NewPostgresVoteRepository(pgClient)
	commentRepo := commentRepository.NewPostgresCommentRepository(pgClient)
	communityRepo := communityRepository.NewPostgresCommunityRepository(pgClient)
	membershipRepo := communityRepository.NewPostgresMembershipRepository(pgClient)
	auditRepo := auditRepository.NewPostgresAuditRepository(pgClient)

	// The audit service records entries from every other module
	auditService := auditServices.NewAuditService(auditRepo)

	authService := authServices.NewAuthService(userRepo, sessionCache, auditService, cfg)
	postService := postsServices.NewPostService(postRepo, voteRepo, membershipRepo, auditService)
	voteService := votesServices.NewVoteService(voteRepo, postRepo)
	commentService := commentServices.NewCommentService(commentRepo, postRepo, membershipRepo, auditService)
	communityService := communityServices.NewCommunityService(communityRepo, membershipRepo, postRepo, auditService)

	auth.RegisterRoutes(app, &auth.AuthHandlers{
		AuthHandler: authHandlers.NewAuthHandlers(authService, cfg),
	}, cfg, sessionCache)

	communities.RegisterRoutes(app, &communities.CommunitiesHandlers{
		CommunityHandler: communityHandlers.NewCommunityHandler(communityService),
	}, cfg, sessionCache)

	posts.RegisterRoutes(app, &posts.PostsHandlers{
		PostHandler: postHandlers.NewPostHandler(postService),
	}, cfg, sessionCache)

	comments.RegisterRoutes(app, &comments.CommentsHandlers{
		CommentHandler: commentHandlers.NewCommentHandler(commentService),
	}, cfg, sessionCache)

	votes.RegisterRoutes(app, &votes.VotesHandlers{
		VoteHandler: voteHandlers.NewVoteHandler(voteService),
	}, cfg, sessionCache)

	audit.RegisterRoutes(app, &audit.AuditHandlers{
		AuditHandler: auditHandlers.NewAuditHandler(auditService),
	}, cfg, sessionCache)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting Agora API server on %s", addr)
	log.Fatal(app.Listen(addr))
}
