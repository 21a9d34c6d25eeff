package practices

import (
	"context"
	"io"
	"log"
	"time"

	"aigenio/pkg/config"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Service answers practice lookups.
type Service struct {
	cache     *gocache.Cache
	cacheTTL  time.Duration
	cachePath string
	limiter   *rate.Limiter
	remote    Remote
	fallback  *Fallback
	timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRemote sets the server consulted before the built-in catalog.
func WithRemote(r Remote) Option {
	return func(s *Service) { s.remote = r }
}

// WithTimeout bounds one remote lookup.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithCacheTTL sets how long remote answers are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheFile keeps remote answers in path between runs. Entries that
// expired on disk are dropped when the service starts.
func WithCacheFile(path string) Option {
	return func(s *Service) { s.cachePath = path }
}

// WithRateLimit caps remote calls per second.
func WithRateLimit(perSecond float64) Option {
	return func(s *Service) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewService builds a service that uses the built-in catalog and, when
// configured, a remote server.
func NewService(opts ...Option) (*Service, error) {
	fallback, err := NewFallback()
	if err != nil {
		return nil, err
	}

	s := &Service{
		cacheTTL: config.DefaultPracticesCacheTTL,
		limiter:  rate.NewLimiter(rate.Limit(config.DefaultPracticesRatePerSecond), 1),
		fallback: fallback,
		timeout:  config.DefaultPracticesTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	items := map[string]gocache.Item{}
	if s.cachePath != "" {
		items = loadCacheItems(s.cachePath)
	}
	s.cache = gocache.NewFrom(s.cacheTTL, 2*s.cacheTTL, items)
	return s, nil
}

// NewServiceFromSettings wires the MCP server from settings. useMCP
// false, or an empty server URL, leaves only the built-in catalog.
func NewServiceFromSettings(settings config.PracticesSettings, useMCP bool) (*Service, error) {
	opts := []Option{
		WithTimeout(settings.Timeout),
		WithCacheTTL(settings.CacheTTL),
		WithRateLimit(settings.RatePerSecond),
		WithCacheFile(config.GetPracticesCachePath()),
	}
	if useMCP && settings.ServerURL != "" {
		opts = append(opts, WithRemote(NewMCPRemote(settings.ServerURL)))
	}
	return NewService(opts...)
}

// Fallback exposes the built-in catalog.
func (s *Service) Fallback() *Fallback {
	return s.fallback
}

// Get returns practices for q. Remote failures are logged and answered
// from the built-in catalog, so Get always returns a response.
func (s *Service) Get(ctx context.Context, q Query) Response {
	q = q.normalized()
	key := q.Key()

	if cached, ok := s.cache.Get(key); ok {
		resp := cached.(Response)
		resp.Source = SourceCache
		return resp
	}

	if s.remote != nil {
		if practices, err := s.fetchRemote(ctx, q); err != nil {
			log.Printf("best practices server unavailable, using built-in catalog: %v", err)
		} else if len(practices) > 0 {
			resp := Response{Query: q, Source: SourceMCP, Practices: practices}
			s.cache.SetDefault(key, resp)
			if err := s.persist(); err != nil {
				log.Printf("best practices cache: %v", err)
			}
			return resp
		}
	}

	return Response{Query: q, Source: SourceFallback, Practices: s.fallback.Lookup(q)}
}

func (s *Service) fetchRemote(ctx context.Context, q Query) ([]Practice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	practices, err := s.remote.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	kept := make([]Practice, 0, len(practices))
	for _, p := range practices {
		if p.Title != "" && q.wantsCategory(p.Category) {
			kept = append(kept, p)
		}
	}
	return sortPractices(kept), nil
}

// ClearCache drops remembered remote answers, on disk too.
func (s *Service) ClearCache() error {
	s.cache.Flush()
	if s.cachePath == "" {
		return nil
	}
	var dc diskCache
	return config.UpdateJSONFile(s.cachePath, &dc, config.PermConfigFile, func() error {
		dc.Entries = map[string]cacheEntry{}
		return nil
	})
}

// CachedEntries is the number of unexpired remote answers held.
func (s *Service) CachedEntries() int {
	return s.cache.ItemCount()
}

// DirectoryStructure suggests a layout for the language and framework.
func (s *Service) DirectoryStructure(language, framework string) map[string]string {
	return s.fallback.DirectoryStructure(language, framework)
}

// Close releases the remote connection, if any.
func (s *Service) Close() error {
	if c, ok := s.remote.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
