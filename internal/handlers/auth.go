package handlers

import (
	"errors"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/campusplaced/backend/internal/middleware"
	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      middleware.JWTSecret(),
	}
}

// RegisterAuthRoutes registers authentication-related routes. The provider
// token is verified by FirebaseAuthMiddleware before the login handler runs.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin, middleware.FirebaseAuthMiddleware(h.firebaseAuth))
}

// RegisterElevationRoute registers the elevation endpoint on the
// authenticated group.
func (h *AuthHandler) RegisterElevationRoute(g *echo.Group) {
	g.POST("/auth/elevate", h.Elevate)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Check if user with this email already exists
	_, err := h.userRepository.GetUserByEmail(req.Email)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:                 req.Name,
		Email:                req.Email,
		Branch:               req.Branch,
		GradYear:             req.GradYear,
		Password:             string(hashedPassword),
		Role:                 models.RoleStudent,
		BrowserNotifications: true,
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.generateJWT(user, false, 24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user, false, 24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// FirebaseLogin exchanges a verified provider token for a local JWT,
// creating the local user record on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	token, ok := c.Get(middleware.FirebaseTokenKey).(*auth.Token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing verified identity token")
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name := ""
	if displayName, ok := token.Claims["name"].(string); ok {
		name = displayName
	}

	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		// Not seen via this provider before; link by email or create fresh.
		user, err = h.userRepository.GetUserByEmail(email)
		if err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			user = &models.User{
				Name:                 name,
				Email:                email,
				FirebaseUID:          firebaseUID,
				Role:                 models.RoleStudent,
				BrowserNotifications: true,
			}
			if err := h.userRepository.CreateUser(user); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		} else {
			user.FirebaseUID = firebaseUID
			if err := h.userRepository.UpdateUser(user); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
	}

	jwtToken, err := h.generateJWT(user, false, 24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": jwtToken, "user": user.ToCompact()})
}

// Elevate issues a short-lived elevated token for the same identity.
// Moderators need it to hit admin routes; admins get one too so clients can
// treat both roles uniformly.
func (h *AuthHandler) Elevate(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleModerator {
		return echo.NewHTTPError(http.StatusForbidden, "Elevation requires a moderator or admin role")
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		return httpError(err)
	}
	// Re-read the role so a demotion takes effect immediately.
	if user.Role != models.RoleAdmin && user.Role != models.RoleModerator {
		return echo.NewHTTPError(http.StatusForbidden, "Elevation requires a moderator or admin role")
	}

	token, err := h.generateJWT(user, true, 15*time.Minute)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate elevation token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "expires_in": 15 * 60})
}

func (h *AuthHandler) generateJWT(user *models.User, elevated bool, ttl time.Duration) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Elevated: elevated,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
