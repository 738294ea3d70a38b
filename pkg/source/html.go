package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/umputun/dropscope/pkg/config"
	"github.com/umputun/dropscope/pkg/domain"
)

// tableParser reads listings laid out as table rows, metrics addressed by column index
type tableParser struct {
	source      string
	rowSelector string
	nameColumn  int
	columns     map[string]int
}

func newTableParser(cfg config.SourceConfig) (Parser, error) {
	if err := checkMetrics(cfg.Name, cfg.Columns); err != nil {
		return nil, err
	}
	if cfg.NameColumn < 0 {
		return nil, &domain.ConfigError{Field: "sources." + cfg.Name + ".name_column", Reason: "must not be negative"}
	}
	p := &tableParser{source: cfg.Name, rowSelector: cfg.RowSelector, nameColumn: cfg.NameColumn, columns: cfg.Columns}
	if p.rowSelector == "" {
		p.rowSelector = "table tr"
	}
	return p, nil
}

// Parse implements Parser
func (p *tableParser) Parse(body []byte) Result {
	var res Result
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Reason: fmt.Sprintf("parse html: %v", err)})
		return res
	}

	doc.Find(p.rowSelector).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return // header row
		}
		if p.nameColumn >= cells.Length() {
			res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Row: i,
				Reason: fmt.Sprintf("row has %d cells, name column %d", cells.Length(), p.nameColumn)})
			return
		}
		name := cellName(cells.Eq(p.nameColumn))
		if !looksLikeName(name) {
			res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Row: i, Reason: fmt.Sprintf("no name in %q", name)})
			return
		}
		raw := domain.RawCandidate{Name: name, Source: p.source}
		for metric, col := range p.columns {
			if col >= 0 && col < cells.Length() {
				setMetric(&raw.Metrics, metric, cells.Eq(col).Text())
			}
		}
		res.Candidates = append(res.Candidates, raw)
	})
	return res
}

// cardsParser reads listings laid out as repeated blocks, metrics addressed by css selector
type cardsParser struct {
	source       string
	cardSelector string
	nameSelector string
	selectors    map[string]string
}

func newCardsParser(cfg config.SourceConfig) (Parser, error) {
	if cfg.RowSelector == "" {
		return nil, &domain.ConfigError{Field: "sources." + cfg.Name + ".row_selector", Reason: "is required for cards sources"}
	}
	if err := checkMetrics(cfg.Name, cfg.Selectors); err != nil {
		return nil, err
	}
	p := &cardsParser{source: cfg.Name, cardSelector: cfg.RowSelector, nameSelector: cfg.NameSelector, selectors: cfg.Selectors}
	if p.nameSelector == "" {
		p.nameSelector = "a"
	}
	return p, nil
}

// Parse implements Parser
func (p *cardsParser) Parse(body []byte) Result {
	var res Result
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Reason: fmt.Sprintf("parse html: %v", err)})
		return res
	}

	doc.Find(p.cardSelector).Each(func(i int, card *goquery.Selection) {
		name := cellName(card.Find(p.nameSelector).First())
		if !looksLikeName(name) {
			res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Row: i, Reason: fmt.Sprintf("no name in %q", name)})
			return
		}
		raw := domain.RawCandidate{Name: name, Source: p.source}
		for metric, sel := range p.selectors {
			if el := card.Find(sel).First(); el.Length() > 0 {
				setMetric(&raw.Metrics, metric, el.Text())
			}
		}
		res.Candidates = append(res.Candidates, raw)
	})
	return res
}

// cellName takes the first name-like token of a cell, falling back to a link target
func cellName(sel *goquery.Selection) string {
	for _, tok := range strings.Fields(sel.Text()) {
		if looksLikeName(tok) {
			return tok
		}
	}
	if href, ok := sel.Find("a").Attr("href"); ok && looksLikeName(href) {
		return href
	}
	if href, ok := sel.Attr("href"); ok && looksLikeName(href) {
		return href
	}
	return strings.TrimSpace(sel.Text())
}
