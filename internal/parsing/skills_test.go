package parsing

import (
	"reflect"
	"testing"
)

func TestSkillsWordBoundary(t *testing.T) {
	p := newTestParser(t)

	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "embedded mention does not count",
			text: "built SPAs with ReactJS for two years",
			want: []string{},
		},
		{
			name: "standalone token counts",
			text: "built SPAs with React for two years",
			want: []string{"React"},
		},
		{
			name: "both forms present",
			text: "migrated from ReactJS to React and TypeScript",
			want: []string{"TypeScript", "React"},
		},
		{
			name: "substring of longer word",
			text: "cargo shipping expertise", // does not contain Go
			want: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.extractSkills(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("skills = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSkillsSymbolEntries(t *testing.T) {
	p := newTestParser(t)

	got := p.extractSkills("fluent in C++ and C#, shipped Node.js services.")
	want := []string{"C++", "C#", "Node.js"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("skills = %v, want %v", got, want)
	}

	// C++ inside a longer token must not count.
	if got := p.extractSkills("uses C+++ extensions"); len(got) != 0 {
		t.Fatalf("skills = %v, want none", got)
	}
}

func TestSkillsTaxonomyOrderAndDedup(t *testing.T) {
	p := newTestParser(t)

	// Mentions out of taxonomy order, with repeats.
	got := p.extractSkills("Docker, Python, docker, PYTHON, Java")
	want := []string{"Python", "Java", "Docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("skills = %v, want taxonomy order %v", got, want)
	}
}

func TestSkillsCustomTaxonomy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Skills = []string{"Fortran", "COBOL"}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := p.extractSkills("Fortran and Python veteran")
	want := []string{"Fortran"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("skills = %v, want %v (custom taxonomy only)", got, want)
	}
}

func TestSkillsMultiWordEntries(t *testing.T) {
	p := newTestParser(t)

	got := p.extractSkills("experience with Spring Boot and Machine Learning pipelines on Google Cloud")
	want := []string{"Spring Boot", "Google Cloud", "Machine Learning"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("skills = %v, want %v", got, want)
	}
}
