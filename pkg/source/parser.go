// Package source turns raw pages of external sources into candidate records.
// Each source kind is a variant in a static table, a page is parsed into a typed
// result carrying both extracted candidates and skipped malformed rows.
package source

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/umputun/dropscope/pkg/config"
	"github.com/umputun/dropscope/pkg/domain"
)

// Kind is a parser variant
type Kind string

// supported parser kinds
const (
	KindHTMLTable Kind = "html_table"
	KindCards     Kind = "cards"
	KindJSON      Kind = "json"
	KindFeed      Kind = "feed"
)

// Result is the outcome of parsing one page. Parsing never fails as a whole,
// rows that can't be read are reported in Skipped and the rest is kept.
type Result struct {
	Candidates []domain.RawCandidate
	Skipped    []domain.ParseError
}

// Parser extracts candidates from a page body
type Parser interface {
	Parse(body []byte) Result
}

// registry is the static table of parser variants. Adding a source kind means adding an entry here.
var registry = map[Kind]func(cfg config.SourceConfig) (Parser, error){
	KindHTMLTable: newTableParser,
	KindCards:     newCardsParser,
	KindJSON:      newJSONParser,
	KindFeed:      newFeedParser,
}

// New makes parser for the source. Unknown kind or bad mapping is a configuration error.
func New(cfg config.SourceConfig) (Parser, error) {
	ctor, ok := registry[Kind(cfg.Kind)]
	if !ok {
		return nil, &domain.ConfigError{Field: "sources." + cfg.Name + ".kind", Reason: fmt.Sprintf("unknown parser kind %q", cfg.Kind)}
	}
	return ctor(cfg)
}

// Kinds returns supported kinds, sorted
func Kinds() []Kind {
	res := make([]Kind, 0, len(registry))
	for k := range registry {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// metric names accepted in column, selector and field mappings
const (
	MetricDomainAuthority  = "domain_authority"
	MetricPageAuthority    = "page_authority"
	MetricTrustFlow        = "trust_flow"
	MetricCitationFlow     = "citation_flow"
	MetricBacklinks        = "backlinks"
	MetricReferringDomains = "referring_domains"
	MetricAgeYears         = "age_years"
)

func knownMetric(name string) bool {
	switch name {
	case MetricDomainAuthority, MetricPageAuthority, MetricTrustFlow, MetricCitationFlow,
		MetricBacklinks, MetricReferringDomains, MetricAgeYears:
		return true
	}
	return false
}

// checkMetrics verifies that every mapped metric name is known
func checkMetrics[V any](src string, mapping map[string]V) error {
	for name := range mapping {
		if !knownMetric(name) {
			return &domain.ConfigError{Field: "sources." + src, Reason: fmt.Sprintf("unknown metric %q", name)}
		}
	}
	return nil
}

// setMetric parses raw cell text into the named metric. Unreadable values leave the metric unset.
func setMetric(m *domain.Metrics, name, raw string) {
	v, ok := ParseNumber(raw)
	if !ok {
		return
	}
	switch name {
	case MetricDomainAuthority:
		m.DomainAuthority = domain.Float64(v)
	case MetricPageAuthority:
		m.PageAuthority = domain.Float64(v)
	case MetricTrustFlow:
		m.TrustFlow = domain.Float64(v)
	case MetricCitationFlow:
		m.CitationFlow = domain.Float64(v)
	case MetricBacklinks:
		m.Backlinks = domain.Int64(int64(v))
	case MetricReferringDomains:
		m.ReferringDomains = domain.Int64(int64(v))
	case MetricAgeYears:
		m.AgeYears = domain.Float64(v)
	}
}

// ParseNumber reads metric cells like "1,234", "1.2K", "3M", "45%" or "12 yrs".
// Empty cells and placeholders like "-" or "n/a" are reported as missing.
func ParseNumber(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "", "-", "--", "n/a", "na", "none", "null", "?":
		return 0, false
	}

	// keep leading numeric part and an optional magnitude suffix
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || (end == 0 && s[end] == '-')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	if end < len(s) {
		switch s[end] {
		case 'k':
			v *= 1e3
		case 'm':
			v *= 1e6
		case 'b':
			v *= 1e9
		}
	}
	return v, true
}

// looksLikeName is a cheap check that a token may be a domain name
func looksLikeName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	dot := strings.LastIndex(s, ".")
	return dot > 0 && dot < len(s)-1
}
