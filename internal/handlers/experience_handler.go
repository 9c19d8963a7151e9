package handlers

import (
	"fmt"
	"net/http"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/campusplaced/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// Points awarded through engagement.
const (
	pointsPerSubmission     = 10
	pointsPerUpvoteReceived = 2
)

// ExperienceHandler handles HTTP requests for interview experiences
type ExperienceHandler struct {
	experienceRepository repositories.ExperienceRepository
	commentRepository    repositories.CommentRepository
	bookmarkRepository   repositories.BookmarkRepository
	userRepository       repositories.UserRepository
	resolver             *services.CompanyResolver
	moderation           *services.ModerationService
	trending             *services.TrendingCache
}

// NewExperienceHandler creates a new ExperienceHandler
func NewExperienceHandler(
	expRepo repositories.ExperienceRepository,
	commentRepo repositories.CommentRepository,
	bookmarkRepo repositories.BookmarkRepository,
	userRepo repositories.UserRepository,
	resolver *services.CompanyResolver,
	moderation *services.ModerationService,
	trending *services.TrendingCache,
) *ExperienceHandler {
	return &ExperienceHandler{
		experienceRepository: expRepo,
		commentRepository:    commentRepo,
		bookmarkRepository:   bookmarkRepo,
		userRepository:       userRepo,
		resolver:             resolver,
		moderation:           moderation,
		trending:             trending,
	}
}

// RegisterExperienceRoutes registers experience-related routes
func (h *ExperienceHandler) RegisterExperienceRoutes(g *echo.Group) {
	g.POST("/experiences", h.CreateExperience)
	g.GET("/experiences", h.GetExperiences)
	g.GET("/experiences/trending", h.GetTrending)
	g.GET("/experiences/mine", h.GetMyExperiences)
	g.GET("/experiences/:id", h.GetExperience)
	g.PUT("/experiences/:id", h.UpdateExperience)
	g.DELETE("/experiences/:id", h.DeleteExperience)
	g.POST("/experiences/:id/votes", h.Vote)
	g.DELETE("/experiences/:id/votes", h.Unvote)
	g.POST("/experiences/:id/view", h.RecordView)
	g.POST("/experiences/:id/report", h.Report)
	g.GET("/companies/:id/experiences", h.GetByCompany)
}

// CreateExperience submits a new interview experience. Company resolution is
// an explicit separate step before persistence.
func (h *ExperienceHandler) CreateExperience(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateExperienceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	company, err := h.resolver.Resolve(ctx, req.CompanyName)
	if err != nil {
		return httpError(err)
	}

	rounds := make([]models.Round, len(req.Rounds))
	for i, r := range req.Rounds {
		rounds[i] = models.Round{
			Type:      r.Type,
			Duration:  r.Duration,
			Questions: r.Questions,
			Skills:    r.Skills,
			Result:    r.Result,
		}
	}
	models.NumberRounds(rounds)

	info := models.CompanyInfo{
		CompanyID:    company.ID,
		CompanyName:  company.DisplayName,
		CompanyLogo:  company.Logo,
		Role:         req.Role,
		Department:   req.Department,
		Type:         req.Type,
		Location:     req.Location,
		Compensation: req.Compensation,
	}

	exp := &models.Experience{
		UserID:          claims.UserID,
		CompanyInfo:     info,
		Rounds:          rounds,
		OverallRating:   req.OverallRating,
		FinalResult:     req.FinalResult,
		IsPublished:     req.IsPublished,
		ReportThreshold: models.DefaultReportThreshold,
		Tags:            models.DeriveTags(info, rounds),
	}

	if err := h.experienceRepository.CreateExperience(ctx, exp); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.userRepository.AddPoints(claims.UserID, pointsPerSubmission); err != nil {
		c.Logger().Warnf("Failed to award submission points to user %d: %v", claims.UserID, err)
	}
	h.trending.Invalidate()

	return c.JSON(http.StatusCreated, exp)
}

// GetExperiences returns published experiences with pagination
func (h *ExperienceHandler) GetExperiences(c echo.Context) error {
	page, limit := pagination(c)
	skip := int64((page - 1) * limit)

	exps, err := h.experienceRepository.GetPublished(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"experiences": exps, "page": page, "limit": limit})
}

// GetTrending returns the most viewed recent experiences, served through the
// TTL cache.
func (h *ExperienceHandler) GetTrending(c echo.Context) error {
	const cacheKey = "trending"
	if exps, ok := h.trending.Get(cacheKey); ok {
		return c.JSON(http.StatusOK, echo.Map{"experiences": exps, "cached": true})
	}

	exps, err := h.experienceRepository.GetTrending(c.Request().Context(), 20)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.trending.Set(cacheKey, exps)
	return c.JSON(http.StatusOK, echo.Map{"experiences": exps, "cached": false})
}

// GetMyExperiences returns the authenticated user's own submissions,
// published or not.
func (h *ExperienceHandler) GetMyExperiences(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page, limit := pagination(c)
	skip := int64((page - 1) * limit)

	exps, err := h.experienceRepository.GetByUserID(c.Request().Context(), claims.UserID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"experiences": exps, "page": page, "limit": limit})
}

// GetByCompany returns published experiences for one company
func (h *ExperienceHandler) GetByCompany(c echo.Context) error {
	page, limit := pagination(c)
	skip := int64((page - 1) * limit)

	exps, err := h.experienceRepository.GetByCompanyID(c.Request().Context(), c.Param("id"), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"experiences": exps, "page": page, "limit": limit})
}

// GetExperience returns one experience. Unpublished or flagged records are
// only visible to their owner and moderators.
func (h *ExperienceHandler) GetExperience(c echo.Context) error {
	exp, err := h.experienceRepository.GetExperienceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	claims := getClaimsFromContext(c)
	if !exp.IsPublished {
		if claims == nil || (claims.UserID != exp.UserID && !claims.CanModerate()) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
	}
	return c.JSON(http.StatusOK, exp)
}

// UpdateExperience lets the owner edit their submission. Tags are re-derived
// from the updated fields.
func (h *ExperienceHandler) UpdateExperience(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateExperienceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	exp, err := h.experienceRepository.GetExperienceByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if exp.UserID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner can edit an experience")
	}

	set := bson.M{}
	if req.Role != "" {
		exp.CompanyInfo.Role = req.Role
		set["company_info.role"] = req.Role
	}
	if req.Department != "" {
		set["company_info.department"] = req.Department
	}
	if req.Location != "" {
		set["company_info.location"] = req.Location
	}
	if req.Compensation != "" {
		set["company_info.compensation"] = req.Compensation
	}
	if len(req.Rounds) > 0 {
		rounds := make([]models.Round, len(req.Rounds))
		for i, r := range req.Rounds {
			rounds[i] = models.Round{
				Type:      r.Type,
				Duration:  r.Duration,
				Questions: r.Questions,
				Skills:    r.Skills,
				Result:    r.Result,
			}
		}
		models.NumberRounds(rounds)
		exp.Rounds = rounds
		set["rounds"] = rounds
	}
	if req.OverallRating != 0 {
		set["overall_rating"] = req.OverallRating
	}
	if req.FinalResult != "" {
		set["final_result"] = req.FinalResult
	}
	if req.IsPublished != nil {
		set["is_published"] = *req.IsPublished
	}
	set["tags"] = models.DeriveTags(exp.CompanyInfo, exp.Rounds)

	if err := h.experienceRepository.UpdateExperience(ctx, id, set); err != nil {
		return httpError(err)
	}
	h.trending.Invalidate()

	updated, err := h.experienceRepository.GetExperienceByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteExperience removes an experience (owner or moderator) and cascades
// deletion of its comments and bookmarks.
func (h *ExperienceHandler) DeleteExperience(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	exp, err := h.experienceRepository.GetExperienceByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if exp.UserID != claims.UserID && !claims.CanModerate() {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner or a moderator can delete an experience")
	}

	if err := h.experienceRepository.DeleteExperience(ctx, id); err != nil {
		return httpError(err)
	}
	if _, err := h.commentRepository.DeleteByExperienceID(id); err != nil {
		c.Logger().Warnf("Comment cascade failed for experience %s: %v", id, err)
	}
	if err := h.bookmarkRepository.DeleteByExperienceID(id); err != nil {
		c.Logger().Warnf("Bookmark cascade failed for experience %s: %v", id, err)
	}
	h.trending.Invalidate()

	return c.NoContent(http.StatusNoContent)
}

// Vote records an up/down vote. Self-votes are rejected before any write.
// A repeat vote in the same direction is an idempotent no-op; the opposite
// direction switches the vote. Each mutation is a single atomic set update,
// so a user can never hold more than one vote. Withdrawing a vote is the
// separate Unvote operation.
func (h *ExperienceHandler) Vote(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	exp, err := h.experienceRepository.GetExperienceByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if exp.UserID == claims.UserID {
		return httpError(fmt.Errorf("%w: you cannot vote on your own experience", repositories.ErrForbidden))
	}

	if err := h.experienceRepository.Vote(ctx, id, claims.UserID, req.Direction); err != nil {
		return httpError(err)
	}

	if req.Direction == "upvote" && !containsUint(exp.Upvotes, claims.UserID) {
		if err := h.userRepository.AddPoints(exp.UserID, pointsPerUpvoteReceived); err != nil {
			c.Logger().Warnf("Failed to award upvote points to user %d: %v", exp.UserID, err)
		}
	}

	updated, err := h.experienceRepository.GetExperienceByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upvotes":   len(updated.Upvotes),
		"downvotes": len(updated.Downvotes),
	})
}

// Unvote withdraws the caller's vote, whichever direction it was in.
// Withdrawing when no vote exists is a no-op.
func (h *ExperienceHandler) Unvote(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.experienceRepository.Unvote(ctx, id, claims.UserID); err != nil {
		return httpError(err)
	}

	updated, err := h.experienceRepository.GetExperienceByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upvotes":   len(updated.Upvotes),
		"downvotes": len(updated.Downvotes),
	})
}

// RecordView counts a view once per user. Repeat views are accepted but
// change nothing.
func (h *ExperienceHandler) RecordView(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	counted, err := h.experienceRepository.AddUniqueView(c.Request().Context(), c.Param("id"), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"counted": counted})
}

// Report files an abuse report against an experience.
func (h *ExperienceHandler) Report(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	count, autoFlagged, err := h.moderation.Report(c.Request().Context(), c.Param("id"), claims.UserID, req.Reason)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"report_count": count, "auto_flagged": autoFlagged})
}

func containsUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
