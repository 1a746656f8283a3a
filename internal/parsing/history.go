package parsing

import "strings"

const (
	maxWorkEntries     = 5
	maxDescriptionPer  = 3
	minDescriptionLine = 20
)

// extractWorkHistory parses position entries out of the work-history
// section. A line shaped like "Title | Company | Dates", "Title,
// Company Dates" or "Title at Company Dates" starts an entry; bullet
// lines and substantial plain lines under it become the description.
// At most five entries are kept, newest-first as they appear.
func (p *Parser) extractWorkHistory(text string) []WorkEntry {
	section := p.workSection(text)
	if section == "" {
		return nil
	}

	var (
		entries []WorkEntry
		current *WorkEntry
	)
	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	for _, raw := range strings.Split(section, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		// Bullet lines are always description, never entry starts.
		if p.bulletRe.MatchString(line) {
			if current != nil && len(current.Description) < maxDescriptionPer {
				current.Description = append(current.Description, strings.TrimSpace(p.bulletRe.ReplaceAllString(line, "")))
			}
			continue
		}

		if entry, ok := p.matchJobLine(line); ok {
			flush()
			current = &entry
			continue
		}

		if current != nil && len(current.Description) < maxDescriptionPer && len(line) > minDescriptionLine {
			current.Description = append(current.Description, line)
		}
	}
	flush()

	if len(entries) > maxWorkEntries {
		entries = entries[:maxWorkEntries]
	}
	return entries
}

func (p *Parser) matchJobLine(line string) (WorkEntry, bool) {
	for _, re := range p.jobLineRes {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		entry := WorkEntry{
			Title:   strings.TrimSpace(m[1]),
			Company: strings.TrimSpace(m[2]),
		}
		if len(m) > 3 {
			entry.Dates = strings.TrimSpace(m[3])
		}
		if entry.Title == "" || entry.Company == "" {
			continue
		}
		return entry, true
	}
	return WorkEntry{}, false
}

// extractSalary looks for a stated salary expectation: labeled amounts
// first, then any bare dollar figure.
func (p *Parser) extractSalary(text string) Field {
	for _, re := range p.salaryRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return Field{Value: strings.TrimSpace(m[1]), Confidence: 60, Found: true}
		}
	}
	return Field{}
}
