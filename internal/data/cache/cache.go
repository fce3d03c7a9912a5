// Package cache stores raw company snapshots between collection runs so a
// re-run within the TTL does not hit the upstream provider again. Only
// collector output is cached, never derived scores.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/config"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/telemetry"
)

// Store is a snapshot cache keyed by symbol.
type Store interface {
	Get(ctx context.Context, symbol string) (*domain.Company, bool)
	Put(ctx context.Context, c *domain.Company)
}

// snapshotDoc is the wire form of a cached company. Missing metrics are
// absent from the map rather than encoded, since JSON has no NaN.
type snapshotDoc struct {
	Symbol         string             `json:"symbol"`
	CompanyName    string             `json:"company_name"`
	SectorCategory string             `json:"sector_category"`
	Metrics        map[string]float64 `json:"metrics"`
	StoredAt       time.Time          `json:"stored_at"`
}

// RedisStore caches snapshots in redis under a namespace prefix.
type RedisStore struct {
	client *redis.Client
	ns     string
	ttl    time.Duration
}

// New connects to the configured redis instance.
func New(cfg config.CacheConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	return NewWithClient(client, cfg.Namespace, cfg.TTL())
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ns: namespace, ttl: ttl}
}

func (s *RedisStore) key(symbol string) string {
	return fmt.Sprintf("%s:snapshot:%s", s.ns, strings.ToUpper(symbol))
}

func (s *RedisStore) Get(ctx context.Context, symbol string) (*domain.Company, bool) {
	b, err := s.client.Get(ctx, s.key(symbol)).Bytes()
	if err == redis.Nil {
		telemetry.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		telemetry.CacheHits.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("symbol", symbol).Msg("cache read failed")
		return nil, false
	}

	c, err := decode(b)
	if err != nil {
		telemetry.CacheHits.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("symbol", symbol).Msg("cache entry corrupt")
		return nil, false
	}
	telemetry.CacheHits.WithLabelValues("hit").Inc()
	return c, true
}

func (s *RedisStore) Put(ctx context.Context, c *domain.Company) {
	b, err := encode(c)
	if err != nil {
		log.Warn().Err(err).Str("symbol", c.Symbol).Msg("cache encode failed")
		return
	}
	if err := s.client.Set(ctx, s.key(c.Symbol), string(b), s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("symbol", c.Symbol).Msg("cache write failed")
	}
}

// GetOrFetch returns the cached snapshot when present, otherwise fetches and
// caches the result.
func GetOrFetch(ctx context.Context, s Store, symbol string, fetch func() (*domain.Company, error)) (*domain.Company, error) {
	if c, ok := s.Get(ctx, symbol); ok {
		return c, nil
	}
	c, err := fetch()
	if err != nil {
		return nil, err
	}
	s.Put(ctx, c)
	return c, nil
}

func encode(c *domain.Company) ([]byte, error) {
	doc := snapshotDoc{
		Symbol:         strings.ToUpper(c.Symbol),
		CompanyName:    c.CompanyName,
		SectorCategory: c.SectorCategory,
		Metrics:        make(map[string]float64),
		StoredAt:       time.Now().UTC(),
	}
	for _, col := range domain.RawMetricColumns() {
		if v, ok := domain.ColumnValue(c, col); ok && !domain.IsMissing(v) {
			doc.Metrics[col] = v
		}
	}
	return json.Marshal(doc)
}

func decode(b []byte) (*domain.Company, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	c := domain.NewCompany(doc.Symbol)
	c.CompanyName = doc.CompanyName
	c.SectorCategory = doc.SectorCategory
	for col, v := range doc.Metrics {
		domain.SetColumnValue(&c, col, v)
	}
	return &c, nil
}

// MemoryStore is an in-process Store used when redis is disabled.
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]memEntry
	ttl time.Duration
}

type memEntry struct {
	c   domain.Company
	exp time.Time
}

func NewMemory(ttl time.Duration) *MemoryStore {
	return &MemoryStore{m: make(map[string]memEntry), ttl: ttl}
}

func (s *MemoryStore) Get(_ context.Context, symbol string) (*domain.Company, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[strings.ToUpper(symbol)]
	if !ok || (!e.exp.IsZero() && time.Now().After(e.exp)) {
		telemetry.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	telemetry.CacheHits.WithLabelValues("hit").Inc()
	c := e.c
	return &c, true
}

func (s *MemoryStore) Put(_ context.Context, c *domain.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memEntry{c: *c}
	if s.ttl > 0 {
		e.exp = time.Now().Add(s.ttl)
	}
	s.m[strings.ToUpper(c.Symbol)] = e
}
