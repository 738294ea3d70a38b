package source

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/domain"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Example.COM", want: "example.com"},
		{in: "https://www.example.com/path?q=1", want: "example.com"},
		{in: "http://user:pw@shop.example.com:8080/", want: "example.com"},
		{in: "blog.example.co.uk", want: "example.co.uk"},
		{in: "example.com.", want: "example.com"},
		{in: "münchen.de", want: "xn--mnchen-3ya.de"},
		{in: "  seo-tools-pro.com  ", want: "seo-tools-pro.com"},
		{in: "com", wantErr: true},
		{in: "", wantErr: true},
		{in: "two words.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CanonicalName(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer([]string{"seo", "Tools", " ", "pay"})
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	n.now = func() time.Time { return fixed }

	raw := domain.RawCandidate{Name: "https://www.SEO-Tools-Pro.com/", Source: "auctions",
		Metrics: domain.Metrics{DomainAuthority: domain.Float64(30)}}
	c, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "seo-tools-pro.com", c.Name)
	assert.Equal(t, "seo-tools-pro", c.Label)
	assert.Equal(t, "com", c.Suffix)
	assert.Equal(t, 13, c.Length)
	assert.Equal(t, "auctions", c.Source)
	assert.Equal(t, []string{"auctions"}, c.Sources)
	assert.Equal(t, []string{"seo", "tools"}, c.Tags)
	assert.Equal(t, int64(1), c.Observations)
	assert.InDelta(t, 30, *c.Metrics.DomainAuthority, 0.001)
	assert.Equal(t, fixed.UTC(), c.DiscoveredAt)
	assert.Equal(t, time.UTC, c.LastSeenAt.Location())

	t.Run("multi-part suffix", func(t *testing.T) {
		c, err := n.Normalize(domain.RawCandidate{Name: "paydesk.co.uk"})
		require.NoError(t, err)
		assert.Equal(t, "paydesk", c.Label)
		assert.Equal(t, "co.uk", c.Suffix)
		assert.Equal(t, []string{"pay"}, c.Tags)
		assert.Empty(t, c.Sources)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := n.Normalize(domain.RawCandidate{Name: "not a domain"})
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}
