package parsing

import (
	"fmt"
	"regexp"
	"strings"
)

// Parser turns raw resume text into a structured Profile using ordered
// regex cascades with per-rule confidence scores. All patterns compile
// once in New; a Parser is immutable and safe for concurrent use.
type Parser struct {
	cfg Config

	nameRules   []nameRule
	bulletRules []nameRule
	contactRe   *regexp.Regexp

	emailRe     *regexp.Regexp
	phoneRes    []*regexp.Regexp
	locationRes []*regexp.Regexp

	skillRes []skillPattern

	experienceRes []*regexp.Regexp
	sectionRe     *regexp.Regexp
	sectionEndRe  *regexp.Regexp
	yearRe        *regexp.Regexp

	educationRes []*regexp.Regexp

	salaryRes []*regexp.Regexp

	jobLineRes []*regexp.Regexp
	bulletRe   *regexp.Regexp

	nameLineRe *regexp.Regexp
}

// nameRule is one step of the name cascade: a pattern, the fixed
// confidence reported when it wins, and a validator that rejects
// false positives. Rules are evaluated in order; the first validated
// match ends the cascade.
type nameRule struct {
	re         *regexp.Regexp
	confidence int
	validate   func(string) bool
}

type skillPattern struct {
	name string
	re   *regexp.Regexp
}

// New compiles a Parser for the given vocabularies. The skills taxonomy
// is required; a nil list is a caller bug and fails fast rather than
// silently extracting nothing.
func New(cfg Config) (*Parser, error) {
	if cfg.Skills == nil {
		return nil, fmt.Errorf("parsing: skills taxonomy is required")
	}

	p := &Parser{cfg: cfg}

	rejectName := func(s string) bool { return !containsAny(s, cfg.NameBlacklist) }
	rejectBullet := func(s string) bool {
		return !containsAny(s, cfg.NameBlacklist) && !containsAny(s, cfg.BulletBlacklist)
	}

	namePart := `[A-Z][A-Za-z.'-]+`
	p.nameRules = []nameRule{
		{regexp.MustCompile(`(?m)^Name:[ \t]*(` + namePart + `(?:[ \t]+` + namePart + `){0,3})[ \t]*\n`), 98, rejectName},
		{regexp.MustCompile(`(?m)^Name:[ \t]*(` + namePart + `(?:[ \t]+` + namePart + `){0,3})`), 95, rejectName},
		{regexp.MustCompile(`(?m)^([A-Z][a-z]{1,19})[ \t]*$`), 90, rejectName},
		{regexp.MustCompile(`(?m)^([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2})[ \t]*$`), 85, rejectName},
		{regexp.MustCompile(`(?m)^([A-Z][a-z]+[ \t]+[A-Z]\.[ \t]*[A-Z][a-z]+)[ \t]*$`), 80, rejectName},
		{regexp.MustCompile(`([A-Z][a-z]+[ \t]+[A-Z][a-z]+)`), 70, rejectName},
	}
	p.bulletRules = []nameRule{
		{regexp.MustCompile(`(?m)^[ \t]*[•*-][ \t]*Name:[ \t]*(` + namePart + `(?:[ \t]+` + namePart + `){0,3})[ \t]*$`), 88, rejectName},
		{regexp.MustCompile(`(?m)^[ \t]*[•*-][ \t]*([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2})[ \t]*$`), 75, rejectBullet},
	}
	p.contactRe = regexp.MustCompile(`(?is)contact[ \t]+information:?[ \t]*\n(.{0,600})`)

	p.emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	p.phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4}`),
		regexp.MustCompile(`\+1[-. ]?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}`),
		regexp.MustCompile(`(?i)\bPhone\b:?[ \t]*([+()\d][-+()\d. ]{6,18}\d)`),
	}

	p.locationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bLocation\b:?[ \t]*([A-Za-z][A-Za-z .]*(?:,[ \t]*[A-Za-z .]+)?)`),
		regexp.MustCompile(`(?m)([A-Z][A-Za-z .]+,[ \t]*[A-Z]{2})[ \t]*$`),
	}
	if len(cfg.StateNames) > 0 {
		alts := make([]string, 0, len(cfg.StateNames))
		for _, s := range cfg.StateNames {
			alts = append(alts, regexp.QuoteMeta(s))
		}
		p.locationRes = append(p.locationRes,
			regexp.MustCompile(`([A-Z][A-Za-z .]+,[ \t]*(?:`+strings.Join(alts, "|")+`))\b`))
	}

	p.skillRes = make([]skillPattern, 0, len(cfg.Skills))
	for _, skill := range cfg.Skills {
		p.skillRes = append(p.skillRes, skillPattern{name: skill, re: boundaryRegexp(skill)})
	}

	p.experienceRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?[ \t]*(?:years?|yrs?)[ \t]+(?:of[ \t]+)?experience`),
		regexp.MustCompile(`(?i)experience:?[ \t]*(\d+)\+?[ \t]*(?:years?|yrs?)`),
		regexp.MustCompile(`(?i)(?:over|more[ \t]+than)[ \t]+(\d+)[ \t]+years?`),
	}
	p.sectionRe = regexp.MustCompile(`(?im)^[ \t]*(?:professional[ \t]+experience|work[ \t]+experience|work[ \t]+history|employment|experience)[ \t]*:?[ \t]*$`)
	p.sectionEndRe = regexp.MustCompile(`(?im)^[ \t]*(?:education|skills|projects|certifications)[ \t]*:?[ \t]*$`)
	p.yearRe = regexp.MustCompile(`\b20\d{2}\b`)

	// Abbreviated degrees need their dots (or the Sc suffix); bare "BS"
	// or "MS" collides with too much ordinary text.
	p.educationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:Bachelor(?:'s)?|Master(?:'s)?|Doctorate|Ph\.?D\.?|MBA|[BM]\.[SA]\.?|[BM]Sc)\b`),
		regexp.MustCompile(`(?im)^[ \t]*EDUCATION[ \t]*:?[ \t]*$`),
	}

	p.salaryRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:expected[ \t]+salary|salary[ \t]+expectation|salary|compensation):?[ \t]*\$?([\d,]+(?:\.\d+)?[kK]?)`),
		regexp.MustCompile(`\$([\d,]+(?:\.\d+)?[kK]?)`),
	}

	// Dates are optional only in the pipe form; the separator itself is
	// signal enough there. Comma and "at" lines must end in a date range
	// or any prose sentence with a comma would start an entry.
	dates := `((?i:\d{4}[ \t]*-[ \t]*(?:\d{4}|Present)))`
	p.jobLineRes = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\|[ \t]*(.+?)(?:\|[ \t]*` + dates + `)?[ \t]*$`),
		regexp.MustCompile(`^([^,]+),[ \t]*([^,]+?),?[ \t]*` + dates + `[ \t]*$`),
		regexp.MustCompile(`^((?:[A-Z][A-Za-z]*[ \t]*)+)(?:at|@)[ \t]+([^\d]+?),?[ \t]*` + dates + `[ \t]*$`),
	}
	p.bulletRe = regexp.MustCompile(`^[•*-][ \t]*`)

	p.nameLineRe = regexp.MustCompile(`(?m)^[A-Z][a-z]+[ \t]+[A-Z][a-z]+`)

	return p, nil
}

// MustNew is New for static configs known to be valid.
func MustNew(cfg Config) *Parser {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Config returns the vocabularies the parser was built with.
func (p *Parser) Config() Config { return p.cfg }

// Extract produces a structured candidate profile from raw resume text.
// It never fails: absent fields come back unfound or Unspecified and the
// overall confidence reflects how much the heuristics had to work with.
// Identical input always yields identical output.
func (p *Parser) Extract(text, source string) Result {
	src := normalizeSource(source)
	return Result{
		Profile: Profile{
			Name:        p.extractName(text),
			Email:       p.extractEmail(text),
			Phone:       p.extractPhone(text),
			Location:    p.extractLocation(text),
			Skills:      p.extractSkills(text),
			Experience:  p.extractExperience(text),
			Education:   p.extractEducation(text),
			WorkHistory: p.extractWorkHistory(text),
			Salary:      p.extractSalary(text),
		},
		Text:       text,
		Source:     src,
		Confidence: p.extractionConfidence(text, src),
	}
}

// extractionConfidence estimates how trustworthy the text extraction
// itself was. Base 70 plus fixed bonuses, capped at 95 so the system
// never reports full certainty.
func (p *Parser) extractionConfidence(text, source string) int {
	score := 70
	if len(text) > 1000 {
		score += 10
	}
	if len(text) > 2000 {
		score += 5
	}
	if p.emailRe.MatchString(text) {
		score += 5
	}
	if p.phoneRes[0].MatchString(text) || p.phoneRes[1].MatchString(text) {
		score += 5
	}
	if p.nameLineRe.MatchString(text) {
		score += 5
	}
	if p.anySkill(text) {
		score += 10
	}
	// PDF extraction tends to preserve layout better than the others.
	if source == "pdf" {
		score += 5
	}
	if score > 95 {
		score = 95
	}
	return score
}

func normalizeSource(source string) string {
	s := strings.ToLower(strings.TrimSpace(source))
	s = strings.TrimPrefix(s, ".")
	switch s {
	case "pdf", "docx", "txt":
		return s
	case "doc":
		return "docx"
	case "text", "md", "plain":
		return "txt"
	default:
		if s == "" {
			return "txt"
		}
		return s
	}
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
