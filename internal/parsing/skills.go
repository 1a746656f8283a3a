package parsing

import (
	"regexp"
	"strings"
)

// extractSkills scans the text for every taxonomy entry. A cheap
// case-insensitive substring check gates the word-boundary confirm so
// embedded mentions ("ReactJS") never count as the shorter skill
// ("React"). Hits come back de-duplicated in taxonomy order; presence
// is binary, no per-skill confidence.
func (p *Parser) extractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, 8)
	for _, sp := range p.skillRes {
		if !strings.Contains(lower, strings.ToLower(sp.name)) {
			continue
		}
		if sp.re.MatchString(text) {
			found = append(found, sp.name)
		}
	}
	return found
}

// anySkill reports whether at least one taxonomy entry appears,
// without collecting the full list.
func (p *Parser) anySkill(text string) bool {
	lower := strings.ToLower(text)
	for _, sp := range p.skillRes {
		if strings.Contains(lower, strings.ToLower(sp.name)) && sp.re.MatchString(text) {
			return true
		}
	}
	return false
}

// boundaryRegexp builds the confirm pattern for one taxonomy entry.
// Plain word characters get \b guards; entries that start or end with
// symbols ("C++", "C#") need explicit non-token context because \b is
// undefined next to non-word runes.
func boundaryRegexp(skill string) *regexp.Regexp {
	esc := regexp.QuoteMeta(skill)
	pre := `\b`
	if !isWordByte(skill[0]) {
		pre = `(?:^|[^A-Za-z0-9_])`
	}
	post := `\b`
	if !isWordByte(skill[len(skill)-1]) {
		post = `(?:$|[^A-Za-z0-9+#_])`
	}
	return regexp.MustCompile(`(?i)` + pre + esc + post)
}

func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	}
	return false
}
