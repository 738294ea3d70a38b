package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/dropscope/pkg/domain"
)

func TestBuildPrompt(t *testing.T) {
	c := domain.Candidate{Name: "cloudpay.io", Label: "cloudpay", Suffix: "io", Length: 8, Tags: []string{"cloud", "pay"},
		Sources: []string{"alpha", "beta"},
		Metrics: domain.Metrics{DomainAuthority: domain.Float64(32), Backlinks: domain.Int64(1500)}}

	t.Run("standard", func(t *testing.T) {
		p := BuildPrompt(TemplateStandard, c)
		assert.Contains(t, p, "Domain: cloudpay.io")
		assert.Contains(t, p, "Keywords: cloud, pay")
		assert.Contains(t, p, "Best authority metric: 32")
		assert.Contains(t, p, "Backlinks: 1500")
		assert.Contains(t, p, `"seo_score"`)
		assert.NotContains(t, p, "Referring domains")
	})

	t.Run("premium", func(t *testing.T) {
		p := BuildPrompt(TemplatePremium, c)
		assert.Contains(t, p, "- Domain authority: 32")
		assert.Contains(t, p, "- Backlinks: 1500")
		assert.Contains(t, p, "- Referring domains: unknown")
		assert.Contains(t, p, "Listed by 2 independent sources")
		assert.Contains(t, p, "comparable sales")
		assert.Contains(t, p, `"recommendation"`)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, BuildPrompt(TemplatePremium, c), BuildPrompt(TemplatePremium, c))
		assert.NotEqual(t, BuildPrompt(TemplateStandard, c), BuildPrompt(TemplatePremium, c))
	})
}
