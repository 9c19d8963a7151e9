package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
)

// CompanyResolver is the find-or-create resolution over the company
// directory. It is its own operation, called by experience submission, so
// the denormalization invariant can be tested independently of submissions.
type CompanyResolver struct {
	companies   repositories.CompanyRepository
	experiences repositories.ExperienceRepository
	seeds       []CompanySeed
}

func NewCompanyResolver(companies repositories.CompanyRepository, experiences repositories.ExperienceRepository, seeds []CompanySeed) *CompanyResolver {
	return &CompanyResolver{companies: companies, experiences: experiences, seeds: seeds}
}

// Resolve maps a free-text company name to a persisted canonical record.
// Precedence: canonical name/display name, then alias, then seed table,
// then a minimal new record. Never fails for a non-empty name.
func (s *CompanyResolver) Resolve(ctx context.Context, rawName string) (*models.Company, error) {
	normalized := models.NormalizeCompanyName(rawName)
	if normalized == "" {
		return nil, fmt.Errorf("%w: company name is empty", repositories.ErrInvalid)
	}

	if company, err := s.companies.FindByName(ctx, normalized); err == nil {
		return company, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if company, err := s.companies.FindByAlias(ctx, normalized); err == nil {
		return company, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	company := s.fromSeed(normalized)
	if company == nil {
		company = &models.Company{
			Name:        normalized,
			DisplayName: strings.TrimSpace(rawName),
			Logo:        guessLogoURL(normalized),
			Aliases:     []string{normalized},
		}
	}

	if err := s.companies.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// Lost a creation race; the winner's record is canonical.
			return s.companies.FindByName(ctx, normalized)
		}
		return nil, err
	}
	return company, nil
}

func (s *CompanyResolver) fromSeed(normalized string) *models.Company {
	for _, seed := range s.seeds {
		if !seed.matches(normalized) {
			continue
		}
		aliases := append([]string{}, seed.Aliases...)
		if !containsString(aliases, normalized) {
			aliases = append(aliases, normalized)
		}
		return &models.Company{
			Name:         seed.Name,
			DisplayName:  seed.DisplayName,
			Logo:         seed.Logo,
			Industry:     seed.Industry,
			Size:         seed.Size,
			Aliases:      aliases,
			IsVerified:   true,
			LinkedinData: seed.Linkedin,
		}
	}
	return nil
}

// UpdateCompany applies an admin edit and, when the display name or logo
// changed, rewrites the denormalized copies on every referencing
// experience. The sync is an explicit step of the same logical operation.
func (s *CompanyResolver) UpdateCompany(ctx context.Context, id string, req models.UpdateCompanyRequest) (*models.Company, int64, error) {
	current, err := s.companies.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	set := bson.M{}
	if req.DisplayName != "" && req.DisplayName != current.DisplayName {
		set["display_name"] = req.DisplayName
		// displayName must always be present in aliases
		if !containsString(current.Aliases, models.NormalizeCompanyName(req.DisplayName)) {
			set["aliases"] = append(append([]string{}, current.Aliases...), models.NormalizeCompanyName(req.DisplayName))
		}
	}
	if req.Logo != "" {
		set["logo"] = req.Logo
	}
	if req.Industry != "" {
		set["industry"] = req.Industry
	}
	if req.Size != "" {
		set["size"] = req.Size
	}
	if req.IsVerified != nil {
		set["is_verified"] = *req.IsVerified
	}
	if len(req.Aliases) > 0 {
		aliases := normalizeAll(req.Aliases)
		display := models.NormalizeCompanyName(current.DisplayName)
		if v, ok := set["display_name"].(string); ok {
			display = models.NormalizeCompanyName(v)
		}
		if !containsString(aliases, display) {
			aliases = append(aliases, display)
		}
		set["aliases"] = aliases
	}
	if len(req.Linkedin) > 0 {
		set["linkedin_data"] = req.Linkedin
	}
	if len(set) == 0 {
		return current, 0, nil
	}

	if err := s.companies.UpdateCompany(ctx, id, set); err != nil {
		return nil, 0, err
	}

	updated, err := s.companies.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	var synced int64
	_, nameChanged := set["display_name"]
	_, logoChanged := set["logo"]
	if nameChanged || logoChanged {
		synced, err = s.experiences.SyncCompanyInfo(ctx, updated.ID, updated.DisplayName, updated.Logo)
		if err != nil {
			return nil, 0, fmt.Errorf("company updated but denormalized sync failed: %w", err)
		}
	}
	return updated, synced, nil
}

// guessLogoURL derives a best-effort logo URL by stripping non-alphanumerics
// from the normalized name and pointing at the logo service.
func guessLogoURL(normalized string) string {
	var b strings.Builder
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "https://logo.clearbit.com/" + b.String() + ".com"
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := models.NormalizeCompanyName(s); n != "" && !containsString(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
