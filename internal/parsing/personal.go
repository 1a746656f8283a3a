package parsing

import "strings"

// maxRuleMatches bounds how many matches of a single name pattern are
// considered before moving to the next rule.
const maxRuleMatches = 8

// absentNameConfidence flags a profile whose name needs human review.
const absentNameConfidence = 30

// extractName runs the ordered name cascade, then the contact-section
// fallback. When nothing survives validation the name stays absent with
// a low confidence rather than being filled with a plausible fake.
func (p *Parser) extractName(text string) Field {
	if f, ok := runNameRules(p.nameRules, text); ok {
		return f
	}
	if m := p.contactRe.FindStringSubmatch(text); m != nil {
		if f, ok := runNameRules(p.bulletRules, m[1]); ok {
			return f
		}
	}
	return Field{Confidence: absentNameConfidence}
}

func runNameRules(rules []nameRule, text string) (Field, bool) {
	for _, rule := range rules {
		matches := rule.re.FindAllStringSubmatch(text, maxRuleMatches)
		for _, m := range matches {
			candidate := strings.TrimSpace(m[len(m)-1])
			if candidate == "" {
				continue
			}
			if rule.validate != nil && !rule.validate(candidate) {
				continue
			}
			return Field{Value: candidate, Confidence: rule.confidence, Found: true}, true
		}
	}
	return Field{}, false
}

// extractEmail reports the first email-shaped substring, lower-cased.
func (p *Parser) extractEmail(text string) Field {
	if m := p.emailRe.FindString(text); m != "" {
		return Field{Value: strings.ToLower(m), Confidence: 95, Found: true}
	}
	return Field{}
}

// extractPhone tries the bare, +1-prefixed, then labeled phone patterns.
func (p *Parser) extractPhone(text string) Field {
	for i, re := range p.phoneRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := m[0]
		// The labeled pattern captures the number after the label.
		if i == 2 && len(m) > 1 {
			value = m[1]
		}
		return Field{Value: strings.TrimSpace(value), Confidence: 85, Found: true}
	}
	return Field{}
}

// extractLocation tries the labeled, trailing "City, ST", then
// "City, <state name>" patterns.
func (p *Parser) extractLocation(text string) Field {
	for _, re := range p.locationRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		loc := strings.Join(strings.Fields(m[1]), " ")
		loc = strings.Trim(loc, " ,.")
		if len(loc) <= 3 || len(loc) >= 100 {
			continue
		}
		return Field{Value: loc, Confidence: 75, Found: true}
	}
	return Field{}
}
