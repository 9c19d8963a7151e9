package handlers

import (
	"net/http"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/campusplaced/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CompanyHandler handles HTTP requests for the company directory
type CompanyHandler struct {
	companyRepository repositories.CompanyRepository
	resolver          *services.CompanyResolver
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyRepo repositories.CompanyRepository, resolver *services.CompanyResolver) *CompanyHandler {
	return &CompanyHandler{companyRepository: companyRepo, resolver: resolver}
}

// RegisterCompanyRoutes registers company routes
func (h *CompanyHandler) RegisterCompanyRoutes(g *echo.Group) {
	g.POST("/companies/resolve", h.ResolveCompany)
	g.GET("/companies", h.SearchCompanies)
	g.GET("/companies/:id", h.GetCompany)
}

// RegisterAdminCompanyRoutes registers the moderator-only company routes
func (h *CompanyHandler) RegisterAdminCompanyRoutes(g *echo.Group) {
	g.PUT("/companies/:id", h.UpdateCompany)
}

// ResolveCompany maps a free-text name to its canonical directory record,
// creating it when unseen.
func (h *CompanyHandler) ResolveCompany(c echo.Context) error {
	var req models.ResolveCompanyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	company, err := h.resolver.Resolve(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, company)
}

// SearchCompanies lists companies, optionally filtered by a substring query
func (h *CompanyHandler) SearchCompanies(c echo.Context) error {
	page, limit := pagination(c)
	skip := int64((page - 1) * limit)

	companies, err := h.companyRepository.SearchCompanies(c.Request().Context(), c.QueryParam("q"), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"companies": companies, "page": page, "limit": limit})
}

// GetCompany returns one company by id
func (h *CompanyHandler) GetCompany(c echo.Context) error {
	company, err := h.companyRepository.GetCompanyByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, company)
}

// UpdateCompany applies an admin metadata edit. Display-name and logo
// changes are propagated to every referencing experience's denormalized
// copy before the response is written.
func (h *CompanyHandler) UpdateCompany(c echo.Context) error {
	var req models.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	company, synced, err := h.resolver.UpdateCompany(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"company": company, "experiences_synced": synced})
}
