package parsing

// Unspecified is the placeholder for text-valued fields no pattern matched.
const Unspecified = "unspecified"

// Field is a single extracted value with its heuristic confidence.
// Confidence is a 0-100 display score, not a calibrated probability.
// Found reports whether any pattern matched; an unfound field keeps an
// empty Value so it can never be mistaken for extracted data.
type Field struct {
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
	Found      bool   `json:"found"`
}

// WorkEntry is one position parsed out of a work-history section.
type WorkEntry struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Dates       string   `json:"dates,omitempty"`
	Description []string `json:"description,omitempty"`
}

// Profile is the structured candidate record produced from resume text.
// Every populated field carries a confidence value; misses degrade to
// absent fields or the Unspecified placeholder, never to an error.
type Profile struct {
	Name        Field       `json:"name"`
	Email       Field       `json:"email"`
	Phone       Field       `json:"phone"`
	Location    Field       `json:"location"`
	Skills      []string    `json:"skills"`
	Experience  string      `json:"experience"`
	Education   string      `json:"education"`
	WorkHistory []WorkEntry `json:"workHistory,omitempty"`
	Salary      Field       `json:"salary"`
}

// Result bundles a Profile with the raw text it came from, the source
// format tag, and the overall extraction confidence (0-95).
type Result struct {
	Profile
	Text       string `json:"text"`
	Source     string `json:"source"`
	Confidence int    `json:"confidence"`
}
