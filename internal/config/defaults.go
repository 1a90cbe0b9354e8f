package config

const (
	PolicyReject = "reject"
	PolicyAccept = "accept"
	PolicyPass   = "pass"

	RegistryConfig = "config"
	RegistrySQLite = "sqlite"
)

// Default is the profile the radar ships with: a 3-4 year engineer
// targeting full stack, frontend and product roles in the United States.
func Default() Config {
	var cfg Config

	cfg.Profile = Profile{
		Years:        "3-4",
		Country:      "United States",
		RoleFamilies: []string{"Full Stack", "Software Engineer", "Frontend", "Product Engineer"},
	}

	cfg.Filters = Filters{
		Include: []string{
			"software engineer", "software developer", "full stack", "full-stack", "fullstack",
			"frontend", "front-end", "front end", "web engineer", "web developer",
			" ui engineer", " ui developer", "product engineer",
		},
		Exclude: []string{
			"senior", " sr ", " sr.", "staff", "principal", "lead ", " lead", "manager", "director",
			" vp ", "vice president", "head of", "architect",
			"embedded", "verification", "hardware", "firmware", "mechanical",
			"internship", " intern ", " intern,", "(intern", "co-op",
			"recruit", "talent", "people partner",
		},
		Geography: Geography{
			USTerms: []string{
				"united states", "usa", "u.s.", ", us", "(us)", "us-remote", "us remote",
				"remote - us", "remote-us", "remote (us", "remote, us", "remote in the us",
				"anywhere in the us",
			},
			StateSuffix: true,
			BareRemote:  PolicyReject,
		},
		Recency: Recency{
			WindowHours:     24,
			UnknownPostedAt: PolicyReject,
			UnknownBySource: map[string]string{"careers": PolicyPass},
		},
	}

	cfg.Scoring = Scoring{
		Provider:         "openai",
		Model:            "gpt-4o-mini",
		APIKey:           Secret{Env: "OPENAI_API_KEY"},
		TimeoutSeconds:   30,
		DelayMS:          200,
		MaxJobs:          15,
		FallbackScore:    0,
		BinaryFitScore:   100,
		DescriptionChars: 2500,
		MaxLogLength:     200,
		PriorityRules: []Rule{
			{Tag: "fullstack", Weight: 10, Any: []string{"full stack", "full-stack", "fullstack"}},
			{Tag: "frontend", Weight: 8, Any: []string{"frontend", "front-end", "react", "typescript"}},
			{Tag: "product", Weight: 5, Any: []string{"product engineer"}},
		},
		Penalties: []Penalty{
			{Reason: "clearance", Weight: -10, Any: []string{"security clearance", "ts/sci"}},
		},
	}

	cfg.Digest = Digest{MinScore: 60, MaxEntries: 10}

	cfg.Sources = Sources{
		Registry:         RegistryConfig,
		UserAgent:        "job-radar/1.0",
		TimeoutSeconds:   30,
		Workers:          4,
		HostRPS:          2,
		DescriptionChars: 6000,
		Greenhouse: Family{Enabled: true, Companies: []Company{
			{Slug: "stripe", Name: "Stripe"},
			{Slug: "notion", Name: "Notion"},
			{Slug: "coinbase", Name: "Coinbase"},
			{Slug: "figma", Name: "Figma"},
		}},
		Lever: Family{Enabled: true, Companies: []Company{
			{Slug: "pinterest", Name: "Pinterest"},
			{Slug: "rivian", Name: "Rivian"},
		}},
	}

	cfg.Notify.Kind = "smtp"
	cfg.Notify.SMTP.Host = "smtp.gmail.com"
	cfg.Notify.SMTP.Port = 587
	cfg.Notify.SMTP.Password = Secret{Env: "GMAIL_APP_PASSWORD"}
	cfg.Notify.IMAP.Mailbox = "INBOX"

	cfg.Run = Run{DeadlineSeconds: 600}

	return cfg
}
