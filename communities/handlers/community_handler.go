package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/communities/errors"
	"github.com/openagora/agora/communities/models"
	"github.com/openagora/agora/communities/services"
	"github.com/openagora/agora/internal/types"
)

// CommunityHandler handles all community-related HTTP requests
type CommunityHandler struct {
	communityService services.CommunityService
}

// NewCommunityHandler creates a new CommunityHandler with injected dependencies
func NewCommunityHandler(communityService services.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// CreateCommunity handles community creation
func (h *CommunityHandler) CreateCommunity(c *fiber.Ctx) error {
	var req models.CreateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	community, err := h.communityService.CreateCommunity(c.Context(), &req, &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(community)
}

// GetBySlug handles retrieving a community by slug
func (h *CommunityHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return errors.HandleInvalidRequestError(c, "slug is required")
	}

	community, err := h.communityService.GetBySlug(c.Context(), slug)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(community)
}

// ListCommunities handles the paginated community listing
func (h *CommunityHandler) ListCommunities(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.communityService.ListCommunities(c.Context(), page, limit)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(result)
}

// Join handles joining a community
func (h *CommunityHandler) Join(c *fiber.Ctx) error {
	communityID, err := uuid.FromString(c.Params("communityId"))
	if err != nil {
		return errors.HandleUUIDError(c, "communityId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.communityService.Join(c.Context(), communityID, &user); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// Leave handles leaving a community
func (h *CommunityHandler) Leave(c *fiber.Ctx) error {
	communityID, err := uuid.FromString(c.Params("communityId"))
	if err != nil {
		return errors.HandleUUIDError(c, "communityId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.communityService.Leave(c.Context(), communityID, &user); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// BanMember handles banning a community member
func (h *CommunityHandler) BanMember(c *fiber.Ctx) error {
	communityID, err := uuid.FromString(c.Params("communityId"))
	if err != nil {
		return errors.HandleUUIDError(c, "communityId")
	}

	var req models.BanMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if req.UserID == uuid.Nil {
		return errors.HandleValidationError(c, "userId is required")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.communityService.BanMember(c.Context(), communityID, &req, &user); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// RemovePost handles moderator removal of a post
func (h *CommunityHandler) RemovePost(c *fiber.Ctx) error {
	communityID, err := uuid.FromString(c.Params("communityId"))
	if err != nil {
		return errors.HandleUUIDError(c, "communityId")
	}

	postID, err := uuid.FromString(c.Params("postId"))
	if err != nil {
		return errors.HandleUUIDError(c, "postId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.communityService.RemovePost(c.Context(), communityID, postID, &user); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}
