package rank

import (
	_ "embed"
	"strings"
	"text/template"

	"jobradar/internal/config"
	"jobradar/internal/domain"
	"jobradar/internal/scrape/util"
)

//go:embed prompt.tmpl
var promptRaw string

var promptTemplate = template.Must(template.New("score").Parse(promptRaw))

type promptData struct {
	Years       string
	Roles       string
	Country     string
	Binary      bool
	Title       string
	Company     string
	Location    string
	Description string
}

// BuildPrompt renders the scoring prompt for one job.
func BuildPrompt(job domain.Job, profile config.Profile, descChars int) (string, error) {
	roles := strings.Join(profile.RoleFamilies, " / ")
	if roles == "" {
		roles = "software engineering"
	}
	location := job.Location
	if location == "" {
		location = "not stated"
	}

	var b strings.Builder
	err := promptTemplate.Execute(&b, promptData{
		Years:       profile.Years,
		Roles:       roles,
		Country:     profile.Country,
		Binary:      job.Mode == domain.ModeBinary,
		Title:       job.Title,
		Company:     job.Company,
		Location:    location,
		Description: util.Truncate(job.Description, descChars),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
