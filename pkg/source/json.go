package source

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/umputun/dropscope/pkg/config"
	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/jsonscan"
)

// jsonParser reads records from an API response or from a JSON blob embedded in a page
type jsonParser struct {
	source    string
	itemsPath string
	nameField string
	fields    map[string]string
}

func newJSONParser(cfg config.SourceConfig) (Parser, error) {
	if err := checkMetrics(cfg.Name, cfg.Fields); err != nil {
		return nil, err
	}
	p := &jsonParser{source: cfg.Name, itemsPath: cfg.ItemsPath, nameField: cfg.NameField, fields: cfg.Fields}
	if p.nameField == "" {
		p.nameField = "domain"
	}
	return p, nil
}

// Parse implements Parser
func (p *jsonParser) Parse(body []byte) Result {
	var res Result
	items, ok := p.locate(body)
	if !ok {
		res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Reason: "no json records found"})
		return res
	}

	i := 0
	items.ForEach(func(_, item gjson.Result) bool {
		defer func() { i++ }()
		if !item.IsObject() {
			res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Row: i, Reason: "record is not an object"})
			return true
		}
		name := item.Get(p.nameField).String()
		if !looksLikeName(name) {
			res.Skipped = append(res.Skipped, domain.ParseError{Source: p.source, Row: i,
				Reason: fmt.Sprintf("no name in field %q", p.nameField)})
			return true
		}
		raw := domain.RawCandidate{Name: name, Source: p.source}
		for metric, field := range p.fields {
			if v := item.Get(field); v.Exists() {
				setMetric(&raw.Metrics, metric, v.String())
			}
		}
		res.Candidates = append(res.Candidates, raw)
		return true
	})
	return res
}

// locate finds the records array, either in a pure json body or in the first embedded object holding it
func (p *jsonParser) locate(body []byte) (gjson.Result, bool) {
	if gjson.ValidBytes(body) {
		if items := p.items(gjson.ParseBytes(body)); items.IsArray() {
			return items, true
		}
		return gjson.Result{}, false
	}
	for _, obj := range jsonscan.AllObjects(string(body)) {
		if items := p.items(gjson.Parse(obj)); items.IsArray() {
			return items, true
		}
	}
	return gjson.Result{}, false
}

func (p *jsonParser) items(doc gjson.Result) gjson.Result {
	if p.itemsPath == "" {
		return doc
	}
	return doc.Get(p.itemsPath)
}
