package handlers

import (
	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/internal/types"
	"github.com/openagora/agora/votes/errors"
	"github.com/openagora/agora/votes/models"
	"github.com/openagora/agora/votes/services"
)

// VoteHandler handles all vote-related HTTP requests
type VoteHandler struct {
	voteService services.VoteService
}

// NewVoteHandler creates a new VoteHandler with injected dependencies
func NewVoteHandler(voteService services.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// CastVote handles POST /votes
func (h *VoteHandler) CastVote(c *fiber.Ctx) error {
	var req models.CastVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.PostID == uuid.Nil {
		return errors.HandleInvalidRequestError(c, "postId is required")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	result, err := h.voteService.Vote(c.Context(), req.PostID, user.UserID, req.VoteState)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(result)
}
