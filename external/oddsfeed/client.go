package oddsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/riskibarqy/nba-trixie/internal/platform/resilience"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://pinnacle-odds.p.rapidapi.com"
	defaultTimeout      = 10 * time.Second
	defaultRequestDelay = 400 * time.Millisecond
	minRequestDelay     = 100 * time.Millisecond
	basketballSportID   = "3"
	providerTimeLayout  = "2006-01-02T15:04:05"
)

var errOddsTransient = crerr.New("odds feed transient failure")

// Slate dates are US Eastern; the provider reports UTC start times.
var slateZone = time.FixedZone("ET", -5*60*60)

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RequestDelay   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	http    *fasthttp.Client
	baseURL string
	host    string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	guard   *resilience.Guard
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		host = parsed.Host
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = defaultRequestDelay
	}
	if delay < minRequestDelay {
		delay = minRequestDelay
	}

	return &Client{
		http: &fasthttp.Client{
			Name:         "nba-trixie",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: baseURL,
		host:    host,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		guard:   resilience.NewGuard(cfg.CircuitBreaker, isOddsCircuitFailure, logCircuitChange(logger)),
		logger:  logger,
	}
}

// FetchGames lists pregame NBA events starting on date with their main
// spread (home perspective) and total.
func (c *Client) FetchGames(ctx context.Context, date string) ([]usecase.ExternalGameLine, error) {
	var payload marketsEnvelope
	query := map[string]string{
		"sport_id":     basketballSportID,
		"event_type":   "prematch",
		"is_have_odds": "true",
	}
	if err := c.doJSON(ctx, "/kit/v1/markets", query, &payload); err != nil {
		return nil, crerr.Wrapf(err, "fetch games date=%s", date)
	}

	out := make([]usecase.ExternalGameLine, 0, len(payload.Events))
	for _, event := range payload.Events {
		if event.EventID == 0 || event.Home == "" || event.Away == "" {
			continue
		}
		start, err := time.Parse(providerTimeLayout, event.Starts)
		if err == nil && date != "" && start.In(slateZone).Format("2006-01-02") != date {
			continue
		}

		line := usecase.ExternalGameLine{
			EventID:   strconv.FormatInt(event.EventID, 10),
			Home:      event.Home,
			Away:      event.Away,
			StartTime: start,
		}
		if period, ok := event.Periods["num_0"]; ok {
			line.Spread = mainSpread(period.Spreads)
			line.Total = mainTotal(period.Totals)
		}
		out = append(out, line)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out, nil
}

// FetchPlayerProps returns the over side of every player special whose
// label maps onto a known market.
func (c *Client) FetchPlayerProps(ctx context.Context, eventID string) ([]usecase.ExternalProp, error) {
	var payload specialsEnvelope
	query := map[string]string{
		"sport_id":  basketballSportID,
		"event_ids": eventID,
	}
	if err := c.doJSON(ctx, "/kit/v1/special-markets", query, &payload); err != nil {
		return nil, crerr.Wrapf(err, "fetch player props event_id=%s", eventID)
	}

	out := make([]usecase.ExternalProp, 0, len(payload.Specials))
	for _, special := range payload.Specials {
		name, m, ok := market.ParseSpecialLabel(special.Name)
		if !ok {
			continue
		}
		over, ok := special.over()
		if !ok {
			continue
		}
		out = append(out, usecase.ExternalProp{
			EventID: eventID,
			Player:  name,
			Market:  m,
			Line:    over.Handicap,
			Odds:    over.Price,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Market < out[j].Market
	})
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path + "?" + values.Encode()

	raw, err := c.guard.Do(fullURL, func() ([]byte, error) {
		return c.executeRequest(ctx, fullURL)
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "odds feed circuit breaker rejected request", "state", c.guard.State())
			return fmt.Errorf("%w: odds provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
		req.Header.Set("X-RapidAPI-Host", c.host)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errOddsTransient, err)
	}

	body := append([]byte(nil), resp.Body()...)
	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return body, nil
	case isRetryableStatus(status):
		c.logger.WarnContext(ctx, "odds feed request throttled or failed", "status", status)
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errOddsTransient, status, abbreviateBody(body))
	default:
		return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
	}
}

// mainSpread picks the handicap whose two prices are closest, which is the
// book's main line.
func mainSpread(spreads map[string]spreadQuote) float64 {
	best, bestGap := 0.0, math.Inf(1)
	for _, key := range sortedKeys(spreads) {
		quote := spreads[key]
		if quote.Home <= 0 || quote.Away <= 0 {
			continue
		}
		if gap := math.Abs(quote.Home - quote.Away); gap < bestGap {
			best, bestGap = quote.Handicap, gap
		}
	}
	return best
}

func mainTotal(totals map[string]totalQuote) float64 {
	best, bestGap := 0.0, math.Inf(1)
	for _, key := range sortedKeys(totals) {
		quote := totals[key]
		if quote.Over <= 0 || quote.Under <= 0 {
			continue
		}
		if gap := math.Abs(quote.Over - quote.Under); gap < bestGap {
			best, bestGap = quote.Points, gap
		}
	}
	return best
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isOddsCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errOddsTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code == fasthttp.StatusForbidden || code >= fasthttp.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

type marketsEnvelope struct {
	Events []marketEvent `json:"events"`
}

type marketEvent struct {
	EventID int64                  `json:"event_id"`
	Home    string                 `json:"home"`
	Away    string                 `json:"away"`
	Starts  string                 `json:"starts"`
	Periods map[string]eventPeriod `json:"periods"`
}

type eventPeriod struct {
	Spreads map[string]spreadQuote `json:"spreads"`
	Totals  map[string]totalQuote  `json:"totals"`
}

type spreadQuote struct {
	Handicap float64 `json:"hdp"`
	Home     float64 `json:"home"`
	Away     float64 `json:"away"`
}

type totalQuote struct {
	Points float64 `json:"points"`
	Over   float64 `json:"over"`
	Under  float64 `json:"under"`
}

type specialsEnvelope struct {
	Specials []special `json:"specials"`
}

type special struct {
	Name  string                 `json:"name"`
	Lines map[string]specialLine `json:"lines"`
}

type specialLine struct {
	Name     string  `json:"name"`
	Handicap float64 `json:"handicap"`
	Price    float64 `json:"price"`
}

func (s special) over() (specialLine, bool) {
	for _, key := range sortedKeys(s.Lines) {
		line := s.Lines[key]
		if strings.EqualFold(strings.TrimSpace(line.Name), "over") && line.Price > 1 {
			return line, true
		}
	}
	return specialLine{}, false
}

func logCircuitChange(logger *logging.Logger) resilience.StateChangeFunc {
	return func(from, to resilience.CircuitState) {
		logger.Warn("odds feed circuit state changed", "from", string(from), "to", string(to))
	}
}
