package domain

import "time"

// Metrics holds externally supplied quality metrics. Every field is optional,
// nil means the source didn't expose it.
type Metrics struct {
	DomainAuthority  *float64 `json:"domain_authority,omitempty"`
	PageAuthority    *float64 `json:"page_authority,omitempty"`
	TrustFlow        *float64 `json:"trust_flow,omitempty"`
	CitationFlow     *float64 `json:"citation_flow,omitempty"`
	Backlinks        *int64   `json:"backlinks,omitempty"`
	ReferringDomains *int64   `json:"referring_domains,omitempty"`
	AgeYears         *float64 `json:"age_years,omitempty"`
}

// Merge returns a copy of m with every non-nil field of other written over it
func (m Metrics) Merge(other Metrics) Metrics {
	res := m
	if other.DomainAuthority != nil {
		res.DomainAuthority = other.DomainAuthority
	}
	if other.PageAuthority != nil {
		res.PageAuthority = other.PageAuthority
	}
	if other.TrustFlow != nil {
		res.TrustFlow = other.TrustFlow
	}
	if other.CitationFlow != nil {
		res.CitationFlow = other.CitationFlow
	}
	if other.Backlinks != nil {
		res.Backlinks = other.Backlinks
	}
	if other.ReferringDomains != nil {
		res.ReferringDomains = other.ReferringDomains
	}
	if other.AgeYears != nil {
		res.AgeYears = other.AgeYears
	}
	return res
}

// Empty reports whether no metric is set or every set metric is zero
func (m Metrics) Empty() bool {
	for _, f := range []*float64{m.DomainAuthority, m.PageAuthority, m.TrustFlow, m.CitationFlow, m.AgeYears} {
		if f != nil && *f != 0 {
			return false
		}
	}
	for _, i := range []*int64{m.Backlinks, m.ReferringDomains} {
		if i != nil && *i != 0 {
			return false
		}
	}
	return true
}

// Authority returns the best available authority-like metric, 0 if none
func (m Metrics) Authority() float64 {
	var best float64
	for _, f := range []*float64{m.DomainAuthority, m.TrustFlow, m.CitationFlow, m.PageAuthority} {
		if f != nil && *f > best {
			best = *f
		}
	}
	return best
}

// RawCandidate is a record as emitted by a source parser, before normalization
type RawCandidate struct {
	Name    string
	Source  string
	Metrics Metrics
}

// Candidate is a discovered domain name, unique by its normalized name
type Candidate struct {
	Name         string // normalized full name, e.g. "seo-tools-pro.com"
	Label        string // base label without the public suffix, e.g. "seo-tools-pro"
	Suffix       string // public suffix, e.g. "com" or "co.uk"
	Length       int    // length of the base label
	Source       string // source of the first observation
	Sources      []string
	Tags         []string // valued keywords found in the label
	Metrics      Metrics
	Observations int64
	Admitted     bool
	DiscoveredAt time.Time
	LastSeenAt   time.Time
	ListedAt     *time.Time
	AnalyzedAt   *time.Time
}

// SourceCount returns the number of distinct sources that observed the candidate
func (c Candidate) SourceCount() int {
	if len(c.Sources) == 0 && c.Source != "" {
		return 1
	}
	return len(c.Sources)
}

// UpsertOutcome tells whether an upsert created a new record or updated an existing one
type UpsertOutcome string

// upsert outcomes
const (
	UpsertCreated UpsertOutcome = "created"
	UpsertUpdated UpsertOutcome = "updated"
)

// EnrichedCandidate pairs a candidate with its analysis result
type EnrichedCandidate struct {
	Candidate Candidate
	Analysis  AnalysisResult
}

// Float64 returns a pointer to v, helper for optional metrics
func Float64(v float64) *float64 { return &v }

// Int64 returns a pointer to v, helper for optional metrics
func Int64(v int64) *int64 { return &v }
