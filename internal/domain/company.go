package domain

// Company is one organization identifier handed to an adapter by the
// source registry.
type Company struct {
	ATSType  string // greenhouse/lever/smartrecruiters/careers
	Slug     string // board or handle; empty for careers pages
	Name     string // display name
	URL      string // careers page URL (careers only)
	Role     string // role label used as the title of a careers record
	Location string // location hint for a careers record
}

// DisplayName falls back to the slug when no name was configured.
func (c Company) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Slug != "" {
		return c.Slug
	}
	return c.URL
}

// ID is the identifier used in logs.
func (c Company) ID() string {
	if c.Slug != "" {
		return c.Slug
	}
	return c.URL
}
