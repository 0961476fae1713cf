package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/riskibarqy/nba-trixie/internal/platform/resilience"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba"
	defaultTimeout      = 10 * time.Second
	defaultRequestDelay = 200 * time.Millisecond
	minRequestDelay     = 200 * time.Millisecond
	maxBodyBytes        = 8 << 20
)

var errESPNTransient = crerr.New("espn transient failure")

// ESPN uses its own short codes for a handful of franchises.
var teamSlugs = map[string]string{
	"GSW": "gs",
	"NOP": "no",
	"NYK": "ny",
	"SAS": "sa",
	"UTA": "utah",
	"WAS": "wsh",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	RequestDelay   time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	limiter      *rate.Limiter
	guard        *resilience.Guard
	logger       *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = defaultRequestDelay
	}
	if delay < minRequestDelay {
		delay = minRequestDelay
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		limiter:      rate.NewLimiter(rate.Every(delay), 1),
		guard:        resilience.NewGuard(cfg.CircuitBreaker, isESPNCircuitFailure, logCircuitChange(logger)),
		logger:       logger,
	}
}

// FetchTeamRoster returns every athlete on the team roster with availability fields.
func (c *Client) FetchTeamRoster(ctx context.Context, teamCode string) ([]usecase.ExternalAthlete, error) {
	code := team.Normalize(teamCode)
	if !team.Known(code) {
		return nil, fmt.Errorf("unknown team code %q", teamCode)
	}

	var payload rosterEnvelope
	path := "/teams/" + teamSlug(code) + "/roster"
	if _, err := c.doJSON(ctx, path, nil, &payload); err != nil {
		return nil, crerr.Wrapf(err, "fetch roster team=%s", code)
	}

	athletes := payload.flatten()
	out := make([]usecase.ExternalAthlete, 0, len(athletes))
	for _, item := range athletes {
		name := firstNonEmpty(item.FullName, item.DisplayName)
		if name == "" {
			continue
		}
		athlete := usecase.ExternalAthlete{
			Name:   name,
			Status: strings.TrimSpace(item.Status.Type.Name),
		}
		for _, inj := range item.Injuries {
			athlete.Injuries = append(athlete.Injuries, usecase.ExternalInjury{
				Status:  strings.TrimSpace(inj.Status),
				Details: inj.detailText(),
				Date:    strings.TrimSpace(inj.Date),
			})
		}
		out = append(out, athlete)
	}
	return out, nil
}

// FetchGameSummary returns the raw summary payload for audit.ParseBoxScore.
func (c *Client) FetchGameSummary(ctx context.Context, gameID string) ([]byte, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}

	raw, err := c.doJSON(ctx, "/summary", map[string]string{"event": gameID}, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch summary game_id=%s", gameID)
	}
	return raw, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.guard.Do(fullURL, func() ([]byte, error) {
		return c.executeRequest(ctx, fullURL)
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.guard.State())
			return nil, fmt.Errorf("%w: injury and box score provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return nil, err
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode provider payload: %w", err)
		}
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errESPNTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func teamSlug(code string) string {
	if slug, ok := teamSlugs[code]; ok {
		return slug
	}
	return strings.ToLower(code)
}

func isESPNCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errESPNTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// The roster endpoint returns athletes either flat or grouped by position.
type rosterEnvelope struct {
	Athletes []rosterEntry `json:"athletes"`
}

type rosterEntry struct {
	rosterAthlete
	Items []rosterAthlete `json:"items"`
}

func (e rosterEnvelope) flatten() []rosterAthlete {
	out := make([]rosterAthlete, 0, len(e.Athletes))
	for _, entry := range e.Athletes {
		if len(entry.Items) > 0 {
			out = append(out, entry.Items...)
			continue
		}
		out = append(out, entry.rosterAthlete)
	}
	return out
}

type rosterAthlete struct {
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Status      struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"status"`
	Injuries []rosterInjury `json:"injuries"`
}

type rosterInjury struct {
	Status  string `json:"status"`
	Date    string `json:"date"`
	Details any    `json:"details"`
}

// detailText accepts both the plain string and the structured
// {type, location, detail, side} shapes.
func (i rosterInjury) detailText() string {
	switch v := i.Details.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		parts := make([]string, 0, 3)
		for _, key := range []string{"side", "type", "detail"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" && !strings.EqualFold(s, "not specified") {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func logCircuitChange(logger *logging.Logger) resilience.StateChangeFunc {
	return func(from, to resilience.CircuitState) {
		logger.Warn("espn circuit state changed", "from", string(from), "to", string(to))
	}
}
