package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"strings"
)

// dataPlaceholder is the token external templates carry where the payload
// JSON gets spliced in.
const dataPlaceholder = "/* DATA_PLACEHOLDER */"

// HTMLRenderer produces the report HTML document. The built-in template
// escapes every interpolated value; an external template file, when
// configured, receives the payload as embedded JSON instead.
type HTMLRenderer struct {
	templatePath string
	tmpl         *template.Template
}

func NewHTMLRenderer(templatePath string) (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"pct": func(actual, target float64) int {
			if target == 0 {
				return 0
			}
			return int(math.Round(actual / target * 100))
		},
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLRenderer{templatePath: templatePath, tmpl: tmpl}, nil
}

// Render returns the HTML document for the payload.
func (r *HTMLRenderer) Render(data any) ([]byte, error) {
	if r.templatePath != "" {
		return r.renderExternal(data)
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

// renderExternal splices the payload JSON into the external template in
// place of the placeholder token, verbatim.
func (r *HTMLRenderer) renderExternal(data any) ([]byte, error) {
	raw, err := os.ReadFile(r.templatePath)
	if err != nil {
		return nil, fmt.Errorf("read report template %s: %w", r.templatePath, err)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode report data: %w", err)
	}
	if !strings.Contains(string(raw), dataPlaceholder) {
		return nil, fmt.Errorf("template %s has no data placeholder", r.templatePath)
	}
	out := strings.Replace(string(raw), dataPlaceholder, string(payload), 1)
	return []byte(out), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Nutrition Report - {{.Patient.Name}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 40px; color: #222; }
h1 { border-bottom: 2px solid #2a6fb0; padding-bottom: 8px; }
h2 { color: #2a6fb0; margin-top: 28px; }
table { border-collapse: collapse; width: 100%; margin-top: 10px; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f5fa; }
.bar { background: #e4e8ec; height: 14px; width: 200px; }
.bar span { display: block; background: #2a6fb0; height: 14px; max-width: 200px; }
.narrative { background: #f8f9fa; border-left: 4px solid #2a6fb0; padding: 10px 16px; margin: 8px 0; }
</style>
</head>
<body>
<h1>Nutrition Report</h1>
<p>
<strong>{{.Patient.Name}}</strong> (ID {{.Patient.ID}}){{if .Patient.Age}}, age {{.Patient.Age}}{{end}}<br>
{{if .Patient.Allergies}}Allergies: {{range $i, $a := .Patient.Allergies}}{{if $i}}, {{end}}{{$a}}{{end}}{{else}}No known allergies{{end}}<br>
{{if .Summary.DateRange.Start}}Period: {{.Summary.DateRange.Start}} to {{.Summary.DateRange.End}}{{end}}
</p>

<h2>Nutrient Intake</h2>
<table>
<tr><th>Nutrient</th><th>Actual</th><th>Target</th><th>% of Target</th><th></th></tr>
<tr><td>Calories</td><td>{{printf "%.0f" .Nutrients.Calories.Actual}}</td><td>{{printf "%.0f" .Nutrients.Calories.Target}}</td><td>{{pct .Nutrients.Calories.Actual .Nutrients.Calories.Target}}%</td><td><div class="bar"><span style="width: {{pct .Nutrients.Calories.Actual .Nutrients.Calories.Target}}px"></span></div></td></tr>
<tr><td>Protein (g)</td><td>{{printf "%.1f" .Nutrients.Protein.Actual}}</td><td>{{printf "%.0f" .Nutrients.Protein.Target}}</td><td>{{pct .Nutrients.Protein.Actual .Nutrients.Protein.Target}}%</td><td><div class="bar"><span style="width: {{pct .Nutrients.Protein.Actual .Nutrients.Protein.Target}}px"></span></div></td></tr>
<tr><td>Carbohydrates (g)</td><td>{{printf "%.1f" .Nutrients.Carbs.Actual}}</td><td>{{printf "%.0f" .Nutrients.Carbs.Target}}</td><td>{{pct .Nutrients.Carbs.Actual .Nutrients.Carbs.Target}}%</td><td><div class="bar"><span style="width: {{pct .Nutrients.Carbs.Actual .Nutrients.Carbs.Target}}px"></span></div></td></tr>
<tr><td>Fat (g)</td><td>{{printf "%.1f" .Nutrients.Fat.Actual}}</td><td>{{printf "%.0f" .Nutrients.Fat.Target}}</td><td>{{pct .Nutrients.Fat.Actual .Nutrients.Fat.Target}}%</td><td><div class="bar"><span style="width: {{pct .Nutrients.Fat.Actual .Nutrients.Fat.Target}}px"></span></div></td></tr>
<tr><td>Fiber (g)</td><td>{{printf "%.1f" .Nutrients.Fiber.Actual}}</td><td>{{printf "%.0f" .Nutrients.Fiber.Target}}</td><td>{{pct .Nutrients.Fiber.Actual .Nutrients.Fiber.Target}}%</td><td><div class="bar"><span style="width: {{pct .Nutrients.Fiber.Actual .Nutrients.Fiber.Target}}px"></span></div></td></tr>
</table>

{{if .FoodItems}}
<h2>Food Items Consumed</h2>
<table>
<tr><th>Item</th><th>Quantity</th><th>Calories per Serving</th><th>Date</th></tr>
{{range .FoodItems}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "%.0f" .Calories}}</td><td>{{.Date}}</td></tr>
{{end}}</table>
{{end}}

<h2>Summary</h2>
<p>Total calories: {{printf "%.0f" .Summary.TotalCalories}}<br>
Items consumed: {{.Summary.TotalItemsConsumed}}</p>

{{if .AIAnalysis}}
<h2>AI Nutritional Analysis</h2>
<div class="narrative"><strong>Summary</strong><br>{{.AIAnalysis.Summary}}</div>
{{if .AIAnalysis.Analysis}}<div class="narrative"><strong>Analysis</strong><br>{{.AIAnalysis.Analysis}}</div>{{end}}
{{if .AIAnalysis.Recommendations}}<div class="narrative"><strong>Recommendations</strong><br>{{.AIAnalysis.Recommendations}}</div>{{end}}
{{if .AIAnalysis.HealthInsights}}<div class="narrative"><strong>Health Insights</strong><br>{{.AIAnalysis.HealthInsights}}</div>{{end}}
{{end}}
</body>
</html>
`
