package matching

import (
	"reflect"
	"testing"
)

func TestGapSummaryBuckets(t *testing.T) {
	missing := []string{"Docker", "Python", "React", "Figma", "Kubernetes"}
	got := GapSummary(missing)

	want := []Gap{
		{Category: categoryLanguages, Skills: []string{"Python"}},
		{Category: categoryWeb, Skills: []string{"React"}},
		{Category: categoryCloud, Skills: []string{"Docker", "Kubernetes"}},
		{Category: categoryOther, Skills: []string{"Figma"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestGapSummaryEmpty(t *testing.T) {
	if got := GapSummary(nil); got != nil {
		t.Fatalf("summary = %+v, want nil", got)
	}
	if got := GapSummary([]string{}); got != nil {
		t.Fatalf("summary = %+v, want nil", got)
	}
}

func TestGapSummaryDeterministic(t *testing.T) {
	missing := []string{"Redis", "Go", "Agile", "Terraform", "MySQL"}
	first := GapSummary(missing)
	for i := 0; i < 20; i++ {
		if again := GapSummary(missing); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}
