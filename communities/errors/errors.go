package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Community service specific errors
var (
	ErrCommunityNotFound  = errors.New("community not found")
	ErrCommunityExists    = errors.New("community name or slug already exists")
	ErrAlreadyMember      = errors.New("already a member of this community")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMemberBanned       = errors.New("member is banned from this community")
	ErrOwnerCannotLeave   = errors.New("community owner cannot leave")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPostNotFound       = errors.New("post not found")
)

// Error codes
const (
	CodeCommunityNotFound  = "COMMUNITY_NOT_FOUND"
	CodeDuplicateKey       = "DUPLICATE_KEY"
	CodeMembershipNotFound = "MEMBERSHIP_NOT_FOUND"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodePostNotFound       = "POST_NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidUUID        = "INVALID_UUID"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrCommunityNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeCommunityNotFound,
			Message: "Community not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrPostNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodePostNotFound,
			Message: "Post not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrMembershipNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeMembershipNotFound,
			Message: "Membership not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrCommunityExists):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeDuplicateKey,
			Message: "Community name or slug already exists",
			Details: err.Error(),
		})
	case errors.Is(err, ErrAlreadyMember):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeDuplicateKey,
			Message: "Already a member of this community",
			Details: err.Error(),
		})
	case errors.Is(err, ErrMemberBanned):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePermissionDenied,
			Message: "Member is banned from this community",
			Details: err.Error(),
		})
	case errors.Is(err, ErrOwnerCannotLeave):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePermissionDenied,
			Message: "Community owner cannot leave",
			Details: err.Error(),
		})
	case errors.Is(err, ErrPermissionDenied):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePermissionDenied,
			Message: "Permission denied",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	})
}

// HandleInvalidRequestError handles invalid request errors with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}

// HandleUserContextError handles user context errors with 400 Bad Request
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeMissingUserContext,
		Message: message,
		Details: message,
	})
}

// HandleUUIDError handles UUID parsing errors with 400 Bad Request
func HandleUUIDError(c *fiber.Ctx, fieldName string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidUUID,
		Message: "Invalid " + fieldName + " format",
		Details: "Invalid " + fieldName + " format",
	})
}
