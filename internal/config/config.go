package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Tag    string   `yaml:"tag"`
	Weight int      `yaml:"weight"`
	Any    []string `yaml:"any"`
}

type Penalty struct {
	Reason string   `yaml:"reason"`
	Weight int      `yaml:"weight"`
	Any    []string `yaml:"any"`
}

// Company is one registry entry as written in YAML.
type Company struct {
	Slug     string `yaml:"slug,omitempty"`
	Name     string `yaml:"name,omitempty"`
	URL      string `yaml:"url,omitempty"`
	Role     string `yaml:"role,omitempty"`
	Location string `yaml:"location,omitempty"`
}

type Family struct {
	Enabled   bool      `yaml:"enabled"`
	Companies []Company `yaml:"companies"`
}

// Profile describes the candidate the scorer screens for.
type Profile struct {
	Years        string   `yaml:"years"`
	Country      string   `yaml:"country"`
	RoleFamilies []string `yaml:"role_families"`
}

type Geography struct {
	USTerms     []string `yaml:"us_terms"`
	StateSuffix bool     `yaml:"state_suffix"`
	BareRemote  string   `yaml:"bare_remote"` // reject | accept
}

type Recency struct {
	WindowHours     int               `yaml:"window_hours"`
	UnknownPostedAt string            `yaml:"unknown_posted_at"` // reject | pass
	UnknownBySource map[string]string `yaml:"unknown_by_source"`
}

type Filters struct {
	Include   []string  `yaml:"include"`
	Exclude   []string  `yaml:"exclude"`
	Geography Geography `yaml:"geography"`
	Recency   Recency   `yaml:"recency"`
}

type Scoring struct {
	Provider         string    `yaml:"provider"` // gemini | openai
	Model            string    `yaml:"model"`
	APIKey           Secret    `yaml:"api_key"`
	TimeoutSeconds   int       `yaml:"timeout_seconds"`
	DelayMS          int       `yaml:"delay_ms"`
	MaxJobs          int       `yaml:"max_jobs"`
	FallbackScore    int       `yaml:"fallback_score"`
	BinaryFitScore   int       `yaml:"binary_fit_score"`
	DescriptionChars int       `yaml:"description_chars"`
	MaxLogLength     int       `yaml:"max_log_length"`
	PriorityRules    []Rule    `yaml:"priority_rules"`
	Penalties        []Penalty `yaml:"penalties"`
}

type Digest struct {
	MinScore   int `yaml:"min_score"`
	MaxEntries int `yaml:"max_entries"`
}

type Sources struct {
	Registry         string  `yaml:"registry"` // config | sqlite
	RegistryDB       string  `yaml:"registry_db"`
	CompaniesFile    string  `yaml:"companies_file"`
	UserAgent        string  `yaml:"user_agent"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	Workers          int     `yaml:"workers"`
	HostRPS          float64 `yaml:"host_rps"`
	DescriptionChars int     `yaml:"description_chars"`

	Greenhouse      Family `yaml:"greenhouse"`
	Lever           Family `yaml:"lever"`
	SmartRecruiters Family `yaml:"smartrecruiters"`
	Careers         Family `yaml:"careers"`
}

// Secret names where a credential comes from; see internal/secrets.
type Secret struct {
	File           string `yaml:"file,omitempty"`
	Env            string `yaml:"env,omitempty"`
	KeyringAccount string `yaml:"keyring_account,omitempty"`
}

type Notify struct {
	Kind string   `yaml:"kind"` // smtp | gmail | imap | log
	From string   `yaml:"from"`
	To   []string `yaml:"to"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password Secret `yaml:"password"`
	} `yaml:"smtp"`

	Gmail struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
	} `yaml:"gmail"`

	IMAP struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password Secret `yaml:"password"`
		Mailbox  string `yaml:"mailbox"`
	} `yaml:"imap"`
}

type Run struct {
	DeadlineSeconds int    `yaml:"deadline_seconds"`
	LockFile        string `yaml:"lock_file"`
}

type Config struct {
	Profile Profile `yaml:"profile"`
	Filters Filters `yaml:"filters"`
	Scoring Scoring `yaml:"scoring"`
	Digest  Digest  `yaml:"digest"`
	Sources Sources `yaml:"sources"`
	Notify  Notify  `yaml:"notify"`
	Run     Run     `yaml:"run"`
}

// Load reads path over Default(); keys missing from the file keep defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (r Recency) Window() time.Duration {
	return time.Duration(r.WindowHours) * time.Hour
}

func (s Scoring) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (s Scoring) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

func (s Sources) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (r Run) Deadline() time.Duration {
	return time.Duration(r.DeadlineSeconds) * time.Second
}
