package holidays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	DefaultBaseURL   = "https://www.calendrier-365.fr/jours-feries/{year}.html"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// ErrUpstreamStatus is wrapped by StatusError
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// StatusError reports a non-2xx answer from the holiday provider
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d for %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// ScraperConfig configures the holiday page client
type ScraperConfig struct {
	// BaseURL contains a {year} placeholder
	BaseURL   string
	UserAgent string
	// Timeout of zero leaves the request bound only by its context
	Timeout time.Duration
}

// Scraper downloads the holiday page of a year and hands it to a Parser.
// It keeps no state between calls: every Fetch hits the provider.
type Scraper struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	parser     Parser
	logger     *zap.Logger
}

// NewScraper creates a new Scraper. A nil parser selects the TableParser.
func NewScraper(cfg ScraperConfig, parser Parser, logger *zap.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if parser == nil {
		parser = NewTableParser()
	}

	return &Scraper{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		parser: parser,
		logger: logger,
	}
}

// URL returns the page address for year
func (s *Scraper) URL(year int) string {
	return strings.ReplaceAll(s.baseURL, "{year}", strconv.Itoa(year))
}

// Fetch downloads and parses the holidays of year, in page order
func (s *Scraper) Fetch(ctx context.Context, year int) ([]Record, error) {
	url := s.URL(year)

	s.logger.Debug("Fetching holidays page",
		zap.String("url", url),
		zap.Int("year", year),
		zap.String("schema", s.parser.SchemaVersion()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body := s.utf8Body(resp)

	records, err := s.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse holidays page: %w", err)
	}

	s.logger.Info("Holidays fetched",
		zap.Int("year", year),
		zap.Int("count", len(records)))

	return records, nil
}

// utf8Body converts the response body to UTF-8 using the charset announced
// in Content-Type. Unknown charsets are passed through unchanged.
func (s *Scraper) utf8Body(resp *http.Response) io.Reader {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return resp.Body
	}

	charset := params["charset"]
	if charset == "" {
		return resp.Body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		s.logger.Warn("Unknown page charset, reading as UTF-8",
			zap.String("charset", charset),
			zap.Error(err))
		return resp.Body
	}

	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return resp.Body
	}

	return transform.NewReader(resp.Body, enc.NewDecoder())
}
