package parsing

import (
	"fmt"
	"strconv"
	"strings"
)

// extractExperience returns a career-length estimate as display text.
// Explicit "N years of experience" statements win outright; otherwise
// the span between the earliest and latest 4-digit years in the
// work-history section is used. The span heuristic is knowingly
// imprecise (graduation or certification years inflate it) and that
// behavior is kept as-is: downstream confidence semantics depend on it.
func (p *Parser) extractExperience(text string) string {
	for _, re := range p.experienceRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf("%s years", m[1])
		}
	}

	section := p.workSection(text)
	if section == "" {
		return Unspecified
	}
	years := p.distinctYears(section)
	if len(years) < 2 {
		return Unspecified
	}
	minYear, maxYear := years[0], years[0]
	for _, y := range years[1:] {
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	span := maxYear - minYear
	if span < 1 {
		span = 1
	}
	return fmt.Sprintf("%d+ years", span)
}

// workSection slices the text between a work-history heading and the
// next section heading (or end of text). Empty when no heading matched.
func (p *Parser) workSection(text string) string {
	loc := p.sectionRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	if end := p.sectionEndRe.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest
}

func (p *Parser) distinctYears(section string) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, m := range p.yearRe.FindAllString(section, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	return years
}

// educationSnippet is the cap on how much matched education text is kept.
const educationSnippet = 100

// extractEducation returns a window of up to ~100 characters starting
// at the first degree keyword or EDUCATION heading, whitespace-collapsed,
// with a trailing ellipsis when truncated.
func (p *Parser) extractEducation(text string) string {
	for _, re := range p.educationRes {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		snippet := text[loc[0]:]
		truncated := false
		if runes := []rune(snippet); len(runes) > educationSnippet {
			snippet = string(runes[:educationSnippet])
			truncated = true
		}
		snippet = strings.Join(strings.Fields(snippet), " ")
		if snippet == "" {
			continue
		}
		if truncated {
			snippet += "..."
		}
		return snippet
	}
	return Unspecified
}
