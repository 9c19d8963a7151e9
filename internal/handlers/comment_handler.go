package handlers

import (
	"net/http"
	"strconv"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository    repositories.CommentRepository
	experienceRepository repositories.ExperienceRepository
	userRepository       repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, expRepo repositories.ExperienceRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository:    commentRepo,
		experienceRepository: expRepo,
		userRepository:       userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/experiences/:id/comments", h.CreateComment)
	g.GET("/experiences/:id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to an experience
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	expID := c.Param("id")
	if _, err := h.experienceRepository.GetExperienceByID(c.Request().Context(), expID); err != nil {
		return httpError(err)
	}

	comment := &models.Comment{
		ExperienceID: expID,
		UserID:       claims.UserID,
		Content:      req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists the comments of an experience with author info
func (h *CommentHandler) GetComments(c echo.Context) error {
	expID := c.Param("id")
	if _, err := h.experienceRepository.GetExperienceByID(c.Request().Context(), expID); err != nil {
		return httpError(err)
	}

	comments, err := h.commentRepository.GetByExperienceID(expID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	type enrichedComment struct {
		models.Comment
		Author models.UserCompact `json:"author"`
	}
	enriched := make([]enrichedComment, len(comments))
	userCache := make(map[uint]models.UserCompact)
	for i, comment := range comments {
		enriched[i] = enrichedComment{Comment: comment}
		if author, ok := userCache[comment.UserID]; ok {
			enriched[i].Author = author
		} else if user, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
			compact := user.ToCompact()
			userCache[comment.UserID] = compact
			enriched[i].Author = compact
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": enriched})
}

// DeleteComment removes a comment (author or moderator)
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		return httpError(err)
	}
	if comment.UserID != claims.UserID && !claims.CanModerate() {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author or a moderator can delete a comment")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
