// Package filter implements the quality gate run before enrichment. Rules are checked in a
// fixed order, the first failing rule rejects: length, suffix, banned keyword, structure, value.
package filter

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/umputun/dropscope/pkg/domain"
)

// Rule names the gate that decided
type Rule string

// gates, in evaluation order
const (
	RuleLength    Rule = "length"
	RuleSuffix    Rule = "suffix"
	RuleBanned    Rule = "banned"
	RuleStructure Rule = "structure"
	RuleValue     Rule = "value"
)

// Decision is the filter verdict with the deciding rule. Rejection is an expected outcome, not an error.
type Decision struct {
	Admitted bool
	Rule     Rule
	Reason   string
}

// Config holds gate thresholds
type Config struct {
	MinLength           int
	MaxLength           int
	AllowedSuffixes     []string
	BannedKeywords      []string
	ValuedKeywords      []string
	MaxDigitRun         int
	ShortNameThreshold  int
	MinAuthority        float64
	MinBacklinks        int64
	MinReferringDomains int64
}

// Filter is a stateless rule engine, safe for concurrent use
type Filter struct {
	cfg      Config
	suffixes map[string]bool
	banned   []string
	valued   []string
}

// New makes filter from config
func New(cfg Config) *Filter {
	f := &Filter{cfg: cfg, suffixes: make(map[string]bool, len(cfg.AllowedSuffixes))}
	for _, s := range cfg.AllowedSuffixes {
		f.suffixes[strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")] = true
	}
	f.banned = lowerAll(cfg.BannedKeywords)
	f.valued = lowerAll(cfg.ValuedKeywords)
	return f
}

// Admit reports whether the candidate passes all gates
func (f *Filter) Admit(c domain.Candidate) bool {
	return f.Evaluate(c).Admitted
}

// Evaluate runs gates in order and returns the first rejection, or admission with the rule that admitted
func (f *Filter) Evaluate(c domain.Candidate) Decision {
	label, suffix := splitName(c)
	length := len(label)

	if length < f.cfg.MinLength || length > f.cfg.MaxLength {
		return reject(RuleLength, "label length %d outside [%d, %d]", length, f.cfg.MinLength, f.cfg.MaxLength)
	}

	if len(f.suffixes) > 0 && !f.suffixes[suffix] {
		return reject(RuleSuffix, "suffix %q not allowed", suffix)
	}

	for _, kw := range f.banned {
		if strings.Contains(label, kw) {
			return reject(RuleBanned, "contains banned keyword %q", kw)
		}
	}

	if reason := structuralFlag(label, f.cfg.MaxDigitRun); reason != "" {
		return reject(RuleStructure, "%s", reason)
	}

	for _, kw := range f.valued {
		if strings.Contains(label, kw) {
			return Decision{Admitted: true, Rule: RuleValue, Reason: fmt.Sprintf("valued keyword %q", kw)}
		}
	}
	if f.cfg.ShortNameThreshold > 0 && length <= f.cfg.ShortNameThreshold {
		return Decision{Admitted: true, Rule: RuleValue, Reason: fmt.Sprintf("short name, length %d", length)}
	}
	if reason := f.metricsPass(c.Metrics); reason != "" {
		return Decision{Admitted: true, Rule: RuleValue, Reason: reason}
	}
	return reject(RuleValue, "no valued keyword, not short, metrics below thresholds")
}

func (f *Filter) metricsPass(m domain.Metrics) string {
	if f.cfg.MinAuthority > 0 && m.Authority() >= f.cfg.MinAuthority {
		return fmt.Sprintf("authority %.1f", m.Authority())
	}
	if f.cfg.MinBacklinks > 0 && m.Backlinks != nil && *m.Backlinks >= f.cfg.MinBacklinks {
		return fmt.Sprintf("backlinks %d", *m.Backlinks)
	}
	if f.cfg.MinReferringDomains > 0 && m.ReferringDomains != nil && *m.ReferringDomains >= f.cfg.MinReferringDomains {
		return fmt.Sprintf("referring domains %d", *m.ReferringDomains)
	}
	return ""
}

// structuralFlag returns a reason for names with long digit runs, repeated separators,
// or digits/separators at either end. Empty string means no flag.
func structuralFlag(label string, maxDigitRun int) string {
	if label == "" {
		return "empty label"
	}
	first, last := label[0], label[len(label)-1]
	if first == '-' || last == '-' {
		return "leading or trailing hyphen"
	}
	if isDigit(first) || isDigit(last) {
		return "leading or trailing digit"
	}
	if strings.Contains(label, "--") && !strings.HasPrefix(label, "xn--") {
		return "repeated separators"
	}
	run := 0
	for i := 0; i < len(label); i++ {
		if !isDigit(label[i]) {
			run = 0
			continue
		}
		run++
		if maxDigitRun > 0 && run > maxDigitRun {
			return fmt.Sprintf("digit run longer than %d", maxDigitRun)
		}
	}
	return ""
}

// splitName returns label and suffix, derived from the name when the candidate isn't normalized
func splitName(c domain.Candidate) (label, suffix string) {
	if c.Label != "" && c.Suffix != "" {
		return c.Label, c.Suffix
	}
	name := strings.ToLower(c.Name)
	suffix, _ = publicsuffix.PublicSuffix(name)
	return strings.TrimSuffix(name, "."+suffix), suffix
}

func reject(rule Rule, format string, args ...any) Decision {
	return Decision{Admitted: false, Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func lowerAll(in []string) []string {
	res := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			res = append(res, s)
		}
	}
	return res
}
