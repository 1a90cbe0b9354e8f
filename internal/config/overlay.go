package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobradar/internal/domain"
)

// CompaniesFile is the optional registry overlay (sources.companies_file).
type CompaniesFile struct {
	Sources struct {
		Greenhouse      Family `yaml:"greenhouse"`
		Lever           Family `yaml:"lever"`
		SmartRecruiters Family `yaml:"smartrecruiters"`
		Careers         Family `yaml:"careers"`
	} `yaml:"sources"`
}

// OverlayCompanies replaces per-family company lists with those found in
// companiesPath. A missing file is not an error.
func OverlayCompanies(cfg *Config, companiesPath string) error {
	if strings.TrimSpace(companiesPath) == "" {
		return nil
	}
	b, err := os.ReadFile(companiesPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var cf CompaniesFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return fmt.Errorf("parse %s: %w", companiesPath, err)
	}

	if len(cf.Sources.Greenhouse.Companies) > 0 {
		cfg.Sources.Greenhouse.Companies = cf.Sources.Greenhouse.Companies
	}
	if len(cf.Sources.Lever.Companies) > 0 {
		cfg.Sources.Lever.Companies = cf.Sources.Lever.Companies
	}
	if len(cf.Sources.SmartRecruiters.Companies) > 0 {
		cfg.Sources.SmartRecruiters.Companies = cf.Sources.SmartRecruiters.Companies
	}
	if len(cf.Sources.Careers.Companies) > 0 {
		cfg.Sources.Careers.Companies = cf.Sources.Careers.Companies
	}
	return nil
}

// StaticRegistry serves company identifiers straight from the config.
type StaticRegistry struct {
	Sources Sources
}

func (r StaticRegistry) Companies(_ context.Context, family string) ([]domain.Company, error) {
	var fam Family
	switch family {
	case "greenhouse":
		fam = r.Sources.Greenhouse
	case "lever":
		fam = r.Sources.Lever
	case "smartrecruiters":
		fam = r.Sources.SmartRecruiters
	case "careers":
		fam = r.Sources.Careers
	default:
		return nil, fmt.Errorf("unknown ats family %q", family)
	}

	out := make([]domain.Company, 0, len(fam.Companies))
	for _, c := range fam.Companies {
		co := domain.Company{
			ATSType:  family,
			Slug:     strings.TrimSpace(c.Slug),
			Name:     strings.TrimSpace(c.Name),
			URL:      strings.TrimSpace(c.URL),
			Role:     strings.TrimSpace(c.Role),
			Location: strings.TrimSpace(c.Location),
		}
		if co.Slug == "" && co.URL == "" {
			continue
		}
		out = append(out, co)
	}
	return out, nil
}
