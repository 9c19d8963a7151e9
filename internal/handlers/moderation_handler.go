package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/campusplaced/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ModerationHandler handles the admin-only moderation surface
type ModerationHandler struct {
	moderation           *services.ModerationService
	experienceRepository repositories.ExperienceRepository
	userRepository       repositories.UserRepository
	notifier             *services.Notifier
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(
	moderation *services.ModerationService,
	expRepo repositories.ExperienceRepository,
	userRepo repositories.UserRepository,
	notifier *services.Notifier,
) *ModerationHandler {
	return &ModerationHandler{
		moderation:           moderation,
		experienceRepository: expRepo,
		userRepository:       userRepo,
		notifier:             notifier,
	}
}

// RegisterModerationRoutes registers the moderator-only routes
func (h *ModerationHandler) RegisterModerationRoutes(g *echo.Group) {
	g.POST("/experiences/:id/moderate", h.ModerateExperience)
	g.PUT("/experiences/:id/threshold", h.SetReportThreshold)
	g.PUT("/users/:id/role", h.UpdateUserRole)
	g.POST("/announcements", h.Announce)
}

// ModerateRequest is the moderation action payload
type ModerateRequest struct {
	Action  string `json:"action" validate:"required,oneof=approve reject flag unflag"`
	Reason  string `json:"reason,omitempty" validate:"omitempty,max=500"`
	Details string `json:"details,omitempty" validate:"omitempty,max=2000"`
}

// ModerateExperience applies one moderation action and returns the updated
// experience. The owner is notified as a side effect.
func (h *ModerationHandler) ModerateExperience(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req ModerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Action == services.ActionFlag && req.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Flagging requires a reason")
	}

	exp, err := h.moderation.Moderate(c.Request().Context(), c.Param("id"), req.Action, req.Reason, req.Details, claims.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, exp)
}

// ThresholdRequest overrides the auto-flag report threshold for one record
type ThresholdRequest struct {
	Threshold int `json:"threshold" validate:"required,min=1,max=100"`
}

// SetReportThreshold changes the per-record auto-flag threshold
func (h *ModerationHandler) SetReportThreshold(c echo.Context) error {
	var req ThresholdRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.experienceRepository.SetReportThreshold(c.Request().Context(), c.Param("id"), req.Threshold); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"threshold": req.Threshold})
}

// UpdateUserRole changes a user's role and notifies them
func (h *ModerationHandler) UpdateUserRole(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	// Role assignment stays admin-only even for elevated moderators.
	if claims.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req models.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userRepository.UpdateRole(uint(userID), req.Role); err != nil {
		return httpError(err)
	}

	if _, err := h.notifier.Create(services.NotificationSpec{
		RecipientID: uint(userID),
		Type:        models.NotifRoleChanged,
		Title:       "Role updated",
		Message:     "Your role is now " + req.Role + ".",
		Priority:    models.PriorityMedium,
	}); err != nil {
		log.Printf("Role-change notification failed for user %d: %v", userID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user_id": userID, "role": req.Role})
}

// Announce fans a broadcast message out to every user, one notification row
// each. No idempotency key: retrying a failed announcement may duplicate.
func (h *ModerationHandler) Announce(c echo.Context) error {
	var req models.AnnounceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	count, err := h.notifier.Announce(req.Title, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"sent_count": count})
}
