package llm

import (
	"fmt"
	"strings"

	"github.com/umputun/dropscope/pkg/domain"
)

// template ids, part of the cache key so changing a template invalidates its cached answers
const (
	TemplateStandard = "standard-v1"
	TemplatePremium  = "premium-v1"
)

const responseFormat = `Respond with a JSON object with these fields:
{"seo_score": 0-10, "commercial_score": 0-10, "brandability_score": 0-10, "competition_score": 0-10,
"risk_score": 0-10, "recommended_price": USD, "resale_value": USD, "roi_percent": number,
"recommendation": "BUY_NOW|BUY|WATCH|PASS", "reasoning": "one or two sentences"}`

// BuildPrompt renders the prompt of the template for the candidate
func BuildPrompt(templateID string, c domain.Candidate) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Domain: %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("Label: %s (%d characters), extension: .%s\n", c.Label, c.Length, c.Suffix))
	if len(c.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(c.Tags, ", ")))
	}

	if templateID == TemplatePremium {
		// premium candidates get the full metric profile and a deeper brief
		sb.WriteString("\nMetrics reported by marketplaces:\n")
		writeMetric(&sb, "Domain authority", c.Metrics.DomainAuthority)
		writeMetric(&sb, "Page authority", c.Metrics.PageAuthority)
		writeMetric(&sb, "Trust flow", c.Metrics.TrustFlow)
		writeMetric(&sb, "Citation flow", c.Metrics.CitationFlow)
		writeIntMetric(&sb, "Backlinks", c.Metrics.Backlinks)
		writeIntMetric(&sb, "Referring domains", c.Metrics.ReferringDomains)
		writeMetric(&sb, "Age in years", c.Metrics.AgeYears)
		if n := c.SourceCount(); n > 1 {
			sb.WriteString(fmt.Sprintf("Listed by %d independent sources\n", n))
		}
		sb.WriteString("\nThis name passed a preliminary screen as a strong candidate. Consider comparable sales of " +
			"similar names, the end-user market, whether the backlink profile looks natural or spammy, and the " +
			"realistic time to sell. Estimate the maximum price worth paying and the likely resale value.\n\n")
	} else {
		if auth := c.Metrics.Authority(); auth > 0 {
			sb.WriteString(fmt.Sprintf("Best authority metric: %.0f\n", auth))
		}
		if c.Metrics.Backlinks != nil {
			sb.WriteString(fmt.Sprintf("Backlinks: %d\n", *c.Metrics.Backlinks))
		}
		sb.WriteString("\nGive a quick appraisal of this expired domain for acquisition and resale.\n\n")
	}

	sb.WriteString(responseFormat)
	return sb.String()
}

func writeMetric(sb *strings.Builder, title string, v *float64) {
	if v == nil {
		sb.WriteString(fmt.Sprintf("- %s: unknown\n", title))
		return
	}
	sb.WriteString(fmt.Sprintf("- %s: %g\n", title, *v))
}

func writeIntMetric(sb *strings.Builder, title string, v *int64) {
	if v == nil {
		sb.WriteString(fmt.Sprintf("- %s: unknown\n", title))
		return
	}
	sb.WriteString(fmt.Sprintf("- %s: %d\n", title, *v))
}
