package handlers

import (
	"errors"
	"net/http"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles saved-experience requests
type BookmarkHandler struct {
	bookmarkRepository   repositories.BookmarkRepository
	experienceRepository repositories.ExperienceRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, expRepo repositories.ExperienceRepository) *BookmarkHandler {
	return &BookmarkHandler{bookmarkRepository: bookmarkRepo, experienceRepository: expRepo}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/experiences/:id/bookmark", h.ToggleBookmark)
	g.GET("/bookmarks", h.GetBookmarks)
}

// ToggleBookmark saves or unsaves an experience for the caller
func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	expID := c.Param("id")
	if _, err := h.experienceRepository.GetExperienceByID(c.Request().Context(), expID); err != nil {
		return httpError(err)
	}

	saved, err := h.bookmarkRepository.HasBookmarked(claims.UserID, expID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if saved {
		if err := h.bookmarkRepository.DeleteBookmark(claims.UserID, expID); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"bookmarked": false})
	}

	err = h.bookmarkRepository.CreateBookmark(&models.Bookmark{UserID: claims.UserID, ExperienceID: expID})
	if err != nil {
		// A concurrent toggle already saved it; treat as saved.
		if !errors.Is(err, repositories.ErrConflict) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"bookmarked": true})
}

// GetBookmarks lists the caller's saved experiences
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmarks, err := h.bookmarkRepository.GetByUserID(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"bookmarks": bookmarks})
}
