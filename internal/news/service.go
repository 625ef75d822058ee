package news

import (
	"context"
	"sync"
	"time"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/types"
)

// SymbolNews bundles the scraped articles with their aggregated
// sentiment for one symbol.
type SymbolNews struct {
	Articles  []types.NewsArticle `json:"articles"`
	Sentiment types.NewsSentiment `json:"sentiment"`
}

// Service provides news and sentiment for ticker symbols with caching
type Service struct {
	scraper  *Scraper
	analyzer *SentimentAnalyzer
	cache    *newsCache
	cfg      *ServiceConfig
}

// ServiceConfig configures the news service
type ServiceConfig struct {
	MaxArticles    int           // Maximum articles to scrape per symbol
	CacheDuration  time.Duration // How long to cache results
	ScraperTimeout time.Duration // Timeout for scraping operations
	Enabled        bool          // Whether news lookups are enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:    15,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
		Enabled:        true,
	}
}

// newsCache stores symbol news temporarily
type newsCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	news      SymbolNews
	timestamp time.Time
}

func newNewsCache(ttl time.Duration) *newsCache {
	cache := &newsCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

// get retrieves cached news if valid
func (c *newsCache) get(symbol string) (SymbolNews, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists {
		return SymbolNews{}, false
	}

	if time.Since(entry.timestamp) > c.ttl {
		return SymbolNews{}, false
	}

	return entry.news, true
}

// set stores news in cache
func (c *newsCache) set(symbol string, news SymbolNews) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = &cacheEntry{
		news:      news,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *newsCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup removes expired entries
func (c *newsCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for symbol, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, symbol)
		}
	}
}

// NewService creates a new news service
func NewService(assistant interfaces.Assistant, serviceCfg *ServiceConfig) *Service {
	if serviceCfg == nil {
		serviceCfg = DefaultServiceConfig()
	}

	return &Service{
		scraper:  NewScraper(serviceCfg.ScraperTimeout),
		analyzer: NewSentimentAnalyzer(assistant),
		cache:    newNewsCache(serviceCfg.CacheDuration),
		cfg:      serviceCfg,
	}
}

// SymbolNews retrieves articles and sentiment for a symbol (cached or fresh)
func (s *Service) SymbolNews(ctx context.Context, symbol string) (SymbolNews, error) {
	if !s.cfg.Enabled {
		return SymbolNews{
			Sentiment: types.NewsSentiment{
				Symbol:           symbol,
				OverallSentiment: "NEUTRAL",
				Summary:          "News lookups disabled",
				Timestamp:        time.Now().Unix(),
			},
		}, nil
	}

	if cached, ok := s.cache.get(symbol); ok {
		logger.Info(ctx, "Using cached news", "symbol", symbol, "age_minutes",
			time.Since(time.Unix(cached.Sentiment.Timestamp, 0)).Minutes())
		return cached, nil
	}

	logger.Info(ctx, "Fetching fresh news", "symbol", symbol)
	news, err := s.fetchFresh(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch news", err, "symbol", symbol)
		// Return neutral sentiment on error rather than failing
		return SymbolNews{
			Sentiment: types.NewsSentiment{
				Symbol:           symbol,
				OverallSentiment: "NEUTRAL",
				Summary:          "Failed to fetch news: " + err.Error(),
				Timestamp:        time.Now().Unix(),
			},
		}, nil
	}

	s.cache.set(symbol, news)

	return news, nil
}

// fetchFresh scrapes and analyzes news for a symbol
func (s *Service) fetchFresh(ctx context.Context, symbol string) (SymbolNews, error) {
	articles, err := s.scraper.ScrapeNews(ctx, symbol, s.cfg.MaxArticles)
	if err != nil {
		return SymbolNews{}, err
	}

	// If no articles found, try Google News as fallback
	if len(articles) == 0 {
		logger.Info(ctx, "No articles from primary sources, trying Google News", "symbol", symbol)
		articles, err = s.scraper.ScrapeGoogleNews(ctx, symbol, s.cfg.MaxArticles)
		if err != nil {
			logger.ErrorWithErr(ctx, "Google News fallback failed", err, "symbol", symbol)
		}
	}

	sentiment, err := s.analyzer.AnalyzeMultipleArticles(ctx, symbol, articles)
	if err != nil {
		return SymbolNews{}, err
	}

	return SymbolNews{Articles: articles, Sentiment: sentiment}, nil
}

// Refresh forces a refresh of news data (bypasses cache)
func (s *Service) Refresh(ctx context.Context, symbol string) (SymbolNews, error) {
	news, err := s.fetchFresh(ctx, symbol)
	if err != nil {
		return SymbolNews{}, err
	}

	s.cache.set(symbol, news)
	return news, nil
}

// ClearCache removes all cached news data
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

// CachedSymbols returns symbols with cached news
func (s *Service) CachedSymbols() []string {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	symbols := make([]string, 0, len(s.cache.data))
	for symbol := range s.cache.data {
		symbols = append(symbols, symbol)
	}
	return symbols
}
