package providers

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"mibig-toxins/config"
	"mibig-toxins/metrics"
)

const (
	userAgent   = "mibig-toxins/1.0 (+https://mibig.secondarymetabolites.org)"
	maxBodySize = 8 * 1024 * 1024
)

// SleepFunc wartet d ab oder bricht mit dem Kontext ab.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepContext ist die Standard-SleepFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Response ist eine vollständig gelesene HTTP-Antwort.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK meldet einen 2xx-Status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err liefert einen Fehler für Nicht-2xx-Antworten, sonst nil.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("request %s failed: status %d", r.URL, r.StatusCode)
}

// LookupClient führt GET-Anfragen gegen eine Quelle mit Wiederholungslogik aus.
//
// Bei 429 wird RateLimitBackoff gewartet (NPAtlas sperrt nach zu vielen Anfragen für etwa
// eine Minute), bei 408 und 503 TransientBackoff. Jeder Versuch zählt gegen MaxAttempts.
// Alle anderen Status werden ohne Wiederholung zurückgegeben. Nach dem letzten Versuch wird
// nicht mehr gewartet, sondern die letzte Antwort zurückgegeben.
type LookupClient struct {
	Source           string
	HTTPClient       *http.Client
	Logger           *zap.Logger
	MaxAttempts      int
	RateLimitBackoff time.Duration
	TransientBackoff time.Duration
	Limiter          *rate.Limiter
	Sleep            SleepFunc
}

// NewLookupClient erstellt einen LookupClient für eine Quelle aus der Konfiguration.
func NewLookupClient(source string, cfg *config.Config, logger *zap.Logger) *LookupClient {
	limit := rate.Inf
	if cfg.LookupRatePerSecond > 0 {
		limit = rate.Limit(cfg.LookupRatePerSecond)
	}
	attempts := cfg.LookupMaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &LookupClient{
		Source:           source,
		HTTPClient:       &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:           logger.With(zap.String("source", source)),
		MaxAttempts:      attempts,
		RateLimitBackoff: cfg.RateLimitBackoff,
		TransientBackoff: cfg.TransientBackoff,
		Limiter:          rate.NewLimiter(limit, int(math.Max(1, math.Ceil(cfg.LookupRatePerSecond)))),
		Sleep:            SleepContext,
	}
}

// Get ruft url auf. id dient nur dem Logging.
// Ein Fehler wird nur bei Transportproblemen oder Kontextabbruch geliefert,
// HTTP-Fehlerstatus stecken in der Response.
func (c *LookupClient) Get(ctx context.Context, id, url string) (*Response, error) {
	log := c.Logger.With(zap.String("id", id))

	var last *Response
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}

		resp, err := c.do(ctx, url)
		if err != nil {
			return nil, err
		}
		last = resp

		var wait time.Duration
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			wait = c.RateLimitBackoff
		case http.StatusRequestTimeout, http.StatusServiceUnavailable:
			wait = c.TransientBackoff
		default:
			// Erfolg oder nicht wiederholbarer Fehler
			return resp, nil
		}

		if attempt == c.MaxAttempts {
			break
		}
		metrics.Retries.WithLabelValues(c.Source, strconv.Itoa(resp.StatusCode)).Inc()
		log.Warn("HTTP-Fehler, warte vor erneutem Versuch",
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait))
		if err := c.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	log.Warn("Maximale Anzahl an Versuchen erreicht", zap.Int("status", last.StatusCode))
	return last, nil
}

func (c *LookupClient) do(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	c.Logger.Debug("Rufe URL auf", zap.String("url", url))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body from %s: %w", url, err)
	}
	return &Response{URL: url, StatusCode: resp.StatusCode, Body: body}, nil
}
