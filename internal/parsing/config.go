package parsing

import "strings"

// Config carries the closed vocabularies the extractor matches against.
// It is read-only after construction; callers share one value across
// goroutines. Tests inject reduced vocabularies for isolation.
type Config struct {
	// Skills is the recognized skills taxonomy. Extraction and matching
	// only ever report members of this list, in this spelling.
	Skills []string

	// NameBlacklist rejects name candidates containing role or document
	// words. Entries are matched case-insensitively as substrings.
	NameBlacklist []string

	// BulletBlacklist additionally rejects bulleted contact-section name
	// candidates that look like other contact fields.
	BulletBlacklist []string

	// StateNames are long-form region names accepted by the third
	// location pattern ("City, California").
	StateNames []string
}

// DefaultConfig returns the canonical taxonomy and blacklists.
func DefaultConfig() Config {
	return Config{
		Skills: []string{
			"Python", "Java", "JavaScript", "TypeScript", "Go", "Rust",
			"C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Scala", "SQL",
			"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js",
			"Django", "Flask", "Spring Boot", "PostgreSQL", "MySQL",
			"MongoDB", "Redis", "Elasticsearch", "AWS", "Azure",
			"Google Cloud", "Docker", "Kubernetes", "Terraform", "Jenkins",
			"Git", "GraphQL", "Machine Learning", "Agile", "Leadership",
		},
		NameBlacklist: []string{
			"resume", "curriculum", "vitae", "engineer", "engineering",
			"developer", "manager", "candidate", "position", "experience",
			"education", "skills", "objective", "summary", "profile",
			"contact", "information", "team", "department", "university",
			"college", "references", "employment", "work", "history",
			"professional", "technical",
		},
		BulletBlacklist: []string{
			"phone", "email", "address", "location", "mobile", "linkedin",
			"website", "city", "state",
		},
		StateNames: []string{
			"California", "New York", "Texas", "Florida", "Washington",
			"Illinois", "Georgia", "Virginia", "Massachusetts", "Colorado",
			"Ontario", "India", "Canada", "USA", "UK", "Germany",
			"Australia", "Singapore",
		},
	}
}

// CanonicalSkill resolves a free-form skill string to its taxonomy
// spelling. The lookup is case-insensitive; unknown skills return
// ok=false and are excluded, not inferred.
func (c Config) CanonicalSkill(s string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return "", false
	}
	for _, skill := range c.Skills {
		if strings.ToLower(skill) == needle {
			return skill, true
		}
	}
	return "", false
}
