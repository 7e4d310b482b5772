package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"
	"github.com/openagora/agora/audit/models"
	"github.com/openagora/agora/audit/services"
	"github.com/openagora/agora/internal/types"
)

var listDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// AuditHandler handles audit log HTTP requests
type AuditHandler struct {
	auditService services.AuditService
}

// NewAuditHandler creates a new AuditHandler with injected dependencies
func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListEntries handles the admin-only audit listing endpoint
func (h *AuditHandler) ListEntries(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"code":    "MISSING_USER_CONTEXT",
			"message": "Invalid user context",
		})
	}

	if user.SystemRole != types.AdminRole {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"code":    "PERMISSION_DENIED",
			"message": "Admin role required",
		})
	}

	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, val []byte) {
		values.Add(string(key), string(val))
	})

	var req models.ListAuditRequest
	if err := listDecoder.Decode(&req, values); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"code":    "INVALID_REQUEST",
			"message": "Invalid query parameters",
		})
	}

	result, err := h.auditService.ListEntries(c.Context(), &req)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"code":    "INVALID_REQUEST",
			"message": err.Error(),
		})
	}

	return c.JSON(result)
}
