package matching

import "strings"

// Gap groups the missing skills of a match under one taxonomy category
// so a recruiter can see where a candidate falls short at a glance.
type Gap struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// GapSummary buckets missing skills by category. Categories come back
// in a fixed order and skills keep their input order, so the summary is
// deterministic for identical match results.
func GapSummary(missing []string) []Gap {
	if len(missing) == 0 {
		return nil
	}

	buckets := make(map[string][]string, len(categoryOrder))
	for _, skill := range missing {
		cat := categoryFor(skill)
		buckets[cat] = append(buckets[cat], skill)
	}

	out := make([]Gap, 0, len(buckets))
	for _, cat := range categoryOrder {
		if skills, ok := buckets[cat]; ok {
			out = append(out, Gap{Category: cat, Skills: skills})
		}
	}
	return out
}

func categoryFor(skill string) string {
	if cat, ok := skillCategories[strings.ToLower(strings.TrimSpace(skill))]; ok {
		return cat
	}
	return categoryOther
}
