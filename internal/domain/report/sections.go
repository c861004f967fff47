package report

import "strings"

// Report sections selectable through the `sections` query parameter.
const (
	SectionCalories       = "calories"
	SectionMacronutrients = "macronutrients"
	SectionFoodConsumed   = "food_consumed"
	SectionSummary        = "summary"
	SectionAIAnalysis     = "ai_analysis"
)

var allSections = []string{
	SectionCalories,
	SectionMacronutrients,
	SectionFoodConsumed,
	SectionSummary,
	SectionAIAnalysis,
}

// ParseSections splits a comma-separated section list, dropping unknown
// names. An empty parameter selects every section.
func ParseSections(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string{}, allSections...)
	}
	known := make(map[string]bool, len(allSections))
	for _, s := range allSections {
		known[s] = true
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if known[name] && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	return out
}

func hasSection(sections []string, name string) bool {
	for _, s := range sections {
		if s == name {
			return true
		}
	}
	return false
}
