package source

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/dropscope/pkg/config"
	"github.com/umputun/dropscope/pkg/domain"
)

// feedParser reads RSS/Atom listings. The name is taken from the item title, or the link host
// when the title doesn't carry one.
type feedParser struct {
	source string
	parser *gofeed.Parser
}

func newFeedParser(cfg config.SourceConfig) (Parser, error) {
	return &feedParser{source: cfg.Name, parser: gofeed.NewParser()}, nil
}

// Parse implements Parser
func (p *feedParser) Parse(body []byte) Result {
	var res Result
	feed, err := p.parser.Parse(bytes.NewReader(body))
	if err != nil {
		res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Reason: fmt.Sprintf("parse feed: %v", err)})
		return res
	}

	for i, item := range feed.Items {
		name := feedItemName(item)
		if name == "" {
			res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Row: i, Reason: fmt.Sprintf("no name in item %q", item.Title)})
			continue
		}
		raw := domain.RawCandidate{Name: name, Source: p.source}
		// listing feeds often expose metrics as custom fields
		for metric, value := range item.Custom {
			if knownMetric(metric) {
				setMetric(&raw.Metrics, metric, value)
			}
		}
		res.Candidates = append(res.Candidates, raw)
	}
	return res
}

func feedItemName(item *gofeed.Item) string {
	for _, tok := range strings.Fields(item.Title) {
		tok = strings.Trim(tok, "\"'()[],;:.!")
		if looksLikeName(tok) {
			return tok
		}
	}
	if u, err := url.Parse(item.Link); err == nil && looksLikeName(u.Hostname()) {
		return u.Hostname()
	}
	return ""
}
