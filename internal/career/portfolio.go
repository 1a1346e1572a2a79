package career

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed templates/portfolio.html.tmpl
var portfolioTemplate string

var portfolioTmpl = template.Must(template.New("portfolio").Parse(portfolioTemplate))

// RenderPortfolio renders a structured resume into a standalone portfolio
// page. No AI call involved; the structured profile already holds
// everything the page needs.
func RenderPortfolio(profile *StructuredResume) (string, error) {
	var buf bytes.Buffer
	if err := portfolioTmpl.Execute(&buf, profile); err != nil {
		return "", fmt.Errorf("render portfolio: %w", err)
	}
	return buf.String(), nil
}
