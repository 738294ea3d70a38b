package source

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"github.com/umputun/dropscope/pkg/domain"
)

// ErrInvalidName is returned for raw names that can't be turned into a registrable domain
var ErrInvalidName = errors.New("invalid domain name")

// Normalizer turns raw source records into candidates keyed by canonical name
type Normalizer struct {
	keywords []string
	now      func() time.Time
}

// NewNormalizer makes normalizer tagging candidates with the valued keywords found in their label
func NewNormalizer(valuedKeywords []string) *Normalizer {
	kw := make([]string, 0, len(valuedKeywords))
	for _, k := range valuedKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &Normalizer{keywords: kw, now: time.Now}
}

// Normalize canonicalizes the name: lowercase, no scheme, path, port or www, IDN in punycode,
// reduced to the registrable domain. Label, suffix, length and tags are derived from it.
func (n *Normalizer) Normalize(raw domain.RawCandidate) (domain.Candidate, error) {
	name, err := CanonicalName(raw.Name)
	if err != nil {
		return domain.Candidate{}, err
	}

	suffix, _ := publicsuffix.PublicSuffix(name)
	label := strings.TrimSuffix(name, "."+suffix)

	now := n.now().UTC()
	c := domain.Candidate{
		Name:         name,
		Label:        label,
		Suffix:       suffix,
		Length:       len(label),
		Source:       raw.Source,
		Metrics:      raw.Metrics,
		Observations: 1,
		DiscoveredAt: now,
		LastSeenAt:   now,
	}
	if raw.Source != "" {
		c.Sources = []string{raw.Source}
	}
	for _, kw := range n.keywords {
		if strings.Contains(label, kw) {
			c.Tags = append(c.Tags, kw)
		}
	}
	return c, nil
}

// CanonicalName returns the registrable domain for a raw name, url or host
func CanonicalName(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimPrefix(s, "www.")
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidName, raw, err)
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(ascii)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidName, raw, err)
	}
	return registrable, nil
}
