// Package proxy maintains the inventory of egress proxies, tests them against a
// "what is my IP" probe and hands them out in round-robin order.
package proxy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/dropscope/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store persists historical proxy stats between runs
type Store interface {
	ProxyStats(ctx context.Context) (map[string]domain.ProxyStats, error)
	SaveProxyStats(ctx context.Context, endpoints []*domain.ProxyEndpoint) error
}

// Config holds pool settings
type Config struct {
	ProbeURL    string
	Timeout     time.Duration
	Concurrency int
	RetestAfter time.Duration
}

// TestReport summarizes a full test pass
type TestReport struct {
	Total    int
	Working  int
	Failed   int
	Duration time.Duration
}

// Pool is a set of proxy endpoints with rotation and liveness checks
type Pool struct {
	cfg   Config
	store Store

	mu        sync.RWMutex
	endpoints []*domain.ProxyEndpoint
	known     map[string]bool

	cursor atomic.Uint64
	now    func() time.Time
}

// New creates an empty pool. Store is optional, without it history isn't kept between runs.
func New(cfg Config, store Store) *Pool {
	if cfg.ProbeURL == "" {
		cfg.ProbeURL = "https://api.ipify.org?format=json"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 20
	}
	if cfg.RetestAfter == 0 {
		cfg.RetestAfter = 10 * time.Minute
	}
	return &Pool{cfg: cfg, store: store, known: map[string]bool{}, now: time.Now}
}

// Load adds endpoints from descriptors. Unparsable descriptors are logged and skipped,
// duplicates collapse. Returns an error only if descriptors were given and none was usable.
func (p *Pool) Load(descriptors []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	added, invalid := 0, 0
	for _, d := range descriptors {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		ep, err := domain.ParseProxy(d)
		if err != nil {
			lgr.Printf("[WARN] skip proxy: %v", err)
			invalid++
			continue
		}
		if p.known[ep.Key()] {
			continue
		}
		p.known[ep.Key()] = true
		p.endpoints = append(p.endpoints, ep)
		added++
	}

	lgr.Printf("[DEBUG] loaded %d proxies, %d invalid, %d total", added, invalid, len(p.endpoints))
	if added == 0 && invalid > 0 && len(p.endpoints) == 0 {
		return fmt.Errorf("no valid proxy among %d descriptors", invalid)
	}
	return nil
}

// LoadFile adds endpoints from a provider list, one descriptor per line, # starts a comment
func (p *Pool) LoadFile(path string) error {
	fh, err := os.Open(path) //nolint:gosec // path comes from config
	if err != nil {
		return fmt.Errorf("open proxy list: %w", err)
	}
	defer fh.Close()

	var descriptors []string
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		descriptors = append(descriptors, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read proxy list: %w", err)
	}
	return p.Load(descriptors)
}

// Restore merges historical stats from the store into loaded endpoints
func (p *Pool) Restore(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	stats, err := p.store.ProxyStats(ctx)
	if err != nil {
		return fmt.Errorf("load proxy stats: %w", err)
	}
	restored := 0
	for _, ep := range p.Endpoints() {
		if st, ok := stats[ep.Key()]; ok {
			ep.Restore(st)
			restored++
		}
	}
	lgr.Printf("[DEBUG] restored stats for %d proxies", restored)
	return nil
}

// Persist writes current stats of all endpoints to the store
func (p *Pool) Persist(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	if err := p.store.SaveProxyStats(ctx, p.Endpoints()); err != nil {
		return fmt.Errorf("save proxy stats: %w", err)
	}
	return nil
}

// TestAll probes every endpoint with bounded parallelism. Probes are independent,
// a failing one marks its endpoint not working and never aborts the pass.
func (p *Pool) TestAll(ctx context.Context) TestReport {
	st := time.Now()
	endpoints := p.Endpoints()

	var working atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for _, ep := range endpoints {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // canceled, leave remaining endpoints untested
			}
			if p.Check(gctx, ep) {
				working.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	rep := TestReport{Total: len(endpoints), Working: int(working.Load()), Duration: time.Since(st)}
	rep.Failed = rep.Total - rep.Working
	lgr.Printf("[INFO] proxy test: %d/%d working in %v", rep.Working, rep.Total, rep.Duration.Round(time.Millisecond))
	return rep
}

// Next returns the next eligible endpoint in rotation order, nil if none is eligible.
// Endpoints marked not working are skipped until their last test is older than retest interval.
func (p *Pool) Next() *domain.ProxyEndpoint {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := uint64(len(p.endpoints))
	if n == 0 {
		return nil
	}
	now := p.now()
	for range n {
		idx := (p.cursor.Add(1) - 1) % n
		if ep := p.endpoints[idx]; ep.Eligible(now, p.cfg.RetestAfter) {
			return ep
		}
	}
	return nil
}

// Check probes the endpoint and records the outcome. Used for the full test pass
// and for just-in-time checks before a fetch.
func (p *Pool) Check(ctx context.Context, ep *domain.ProxyEndpoint) bool {
	st := time.Now()
	err := p.probe(ctx, ep)
	if err != nil {
		ep.RecordFailure(p.now())
		lgr.Printf("[DEBUG] proxy %s failed: %v", ep, err)
		return false
	}
	ep.RecordSuccess(time.Since(st), p.now())
	return true
}

// Endpoints returns a copy of the endpoint list
func (p *Pool) Endpoints() []*domain.ProxyEndpoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res := make([]*domain.ProxyEndpoint, len(p.endpoints))
	copy(res, p.endpoints)
	return res
}

// Len returns number of loaded endpoints
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.endpoints)
}

// probe fetches the probe url through the endpoint and expects an ip address in the reply
func (p *Pool) probe(ctx context.Context, ep *domain.ProxyEndpoint) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	client := &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyURL(ep.URL()), DisableKeepAlives: true},
		Timeout:   p.cfg.Timeout,
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.ProbeURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("read probe response: %w", err)
	}
	if ProbeIP(body) == nil {
		return errNoIP
	}
	return nil
}

var errNoIP = errors.New("probe response has no ip address")

// ProbeIP extracts the address from a probe reply, either {"ip":"..."} or a plain text address
func ProbeIP(body []byte) net.IP {
	if gjson.ValidBytes(body) {
		if ip := net.ParseIP(gjson.GetBytes(body, "ip").String()); ip != nil {
			return ip
		}
		return nil
	}
	return net.ParseIP(strings.TrimSpace(string(body)))
}
