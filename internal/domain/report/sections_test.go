package report

import (
	"reflect"
	"testing"
)

func TestParseSectionsEmpty(t *testing.T) {
	got := ParseSections("")
	if !reflect.DeepEqual(got, allSections) {
		t.Errorf("empty input should select all sections, got %v", got)
	}
	// the returned slice must be a copy
	got[0] = "mutated"
	if allSections[0] == "mutated" {
		t.Error("ParseSections leaked the canonical slice")
	}
}

func TestParseSectionsFilter(t *testing.T) {
	got := ParseSections("calories, summary")
	want := []string{"calories", "summary"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSectionsDropsUnknown(t *testing.T) {
	got := ParseSections("calories,bogus,ai_analysis,also_bogus")
	want := []string{"calories", "ai_analysis"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSectionsCaseAndDuplicates(t *testing.T) {
	got := ParseSections("CALORIES,calories,Summary")
	want := []string{"calories", "summary"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
