package vertexai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/platform/resilience"
	"github.com/riskibarqy/football-stats/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"
)

const (
	defaultLocation        = "us-central1"
	defaultModel           = "gemini-2.0-flash-001"
	defaultTimeout         = 30 * time.Second
	defaultMaxOutputTokens = 2048
	maxErrorBodyLength     = 512
)

var errVertexTransient = crerr.New("vertex ai transient failure")

type ClientConfig struct {
	ProjectID       string
	Location        string
	Model           string
	BaseURL         string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
	TokenSource     oauth2.TokenSource
	HTTPClient      *fasthttp.Client
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client talks to the Vertex AI generateContent endpoint. It implements
// nlquery.LanguageModel and never retries.
type Client struct {
	httpClient      *fasthttp.Client
	endpoint        string
	model           string
	temperature     float64
	maxOutputTokens int
	timeout         time.Duration
	tokens          oauth2.TokenSource
	logger          *logging.Logger
	breaker         *resilience.CircuitBreaker
	circuitEnabled  bool
}

func NewClient(cfg ClientConfig) (*Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, crerr.New("vertex project id is required")
	}
	if cfg.TokenSource == nil {
		return nil, crerr.New("vertex token source is required")
	}

	location := firstNonEmpty(cfg.Location, defaultLocation)
	model := firstNonEmpty(cfg.Model, defaultModel)
	baseURL := strings.TrimRight(firstNonEmpty(cfg.BaseURL, "https://"+location+"-aiplatform.googleapis.com"), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, crerr.Wrapf(err, "invalid vertex base url %q", baseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxOutputTokens := cfg.MaxOutputTokens
	if maxOutputTokens <= 0 {
		maxOutputTokens = defaultMaxOutputTokens
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "football-stats",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker(breakerCfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("vertex circuit breaker state changed", "breaker", breaker.Name(), "from", from, "to", to)
	})
	logger.Debug("vertex circuit breaker configured", breakerCfg.LogArgs()...)

	return &Client{
		httpClient:      httpClient,
		endpoint:        fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent", baseURL, url.PathEscape(projectID), url.PathEscape(location), url.PathEscape(model)),
		model:           model,
		temperature:     cfg.Temperature,
		maxOutputTokens: maxOutputTokens,
		timeout:         timeout,
		tokens:          cfg.TokenSource,
		logger:          logger,
		breaker:         breaker,
		circuitEnabled:  breakerCfg.Enabled,
	}, nil
}

// Generate sends system turns as systemInstruction and human turns as user
// contents, and returns the concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, messages []nlquery.Message) (string, error) {
	if len(messages) == 0 {
		return "", crerr.New("at least one message is required")
	}

	var text string
	call := func() error {
		var err error
		text, err = c.generate(ctx, messages)
		return err
	}
	if !c.circuitEnabled {
		if err := call(); err != nil {
			return "", err
		}
		return text, nil
	}

	err := c.breaker.Do(call, isCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "vertex circuit breaker rejected request", "breaker", c.breaker.Name(), "state", c.breaker.State())
		return "", fmt.Errorf("%w: language model is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return text, err
}

func (c *Client) generate(ctx context.Context, messages []nlquery.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := encodeRequest(buf, c.buildRequest(messages)); err != nil {
		return "", err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", token.Type()+" "+token.AccessToken)
	req.SetBodyRaw(buf.B)

	started := time.Now()
	if err := c.httpClient.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("call vertex generateContent: %w", ctxErr)
		}
		if stderrors.Is(err, fasthttp.ErrTimeout) {
			return "", crerr.Mark(fmt.Errorf("call vertex generateContent: %w", context.DeadlineExceeded), errVertexTransient)
		}
		return "", crerr.Mark(fmt.Errorf("call vertex generateContent: %w", err), errVertexTransient)
	}

	status := resp.StatusCode()
	c.logger.DebugContext(ctx, "vertex generateContent completed",
		"model", c.model,
		"status_code", status,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	if status < 200 || status >= 300 {
		return "", statusError(status, resp.Body())
	}

	var decoded generateResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", fmt.Errorf("decode vertex response: %w", err)
	}
	return decoded.text()
}

type tokenResult struct {
	token *oauth2.Token
	err   error
}

// token bounds the token source by ctx and the client timeout. A refresh
// left running past either finishes in the background and is dropped.
func (c *Client) token(ctx context.Context) (*oauth2.Token, error) {
	done := make(chan tokenResult, 1)
	go func() {
		token, err := c.tokens.Token()
		done <- tokenResult{token: token, err: err}
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, crerr.Mark(fmt.Errorf("fetch vertex access token: %w", res.err), errVertexTransient)
		}
		return res.token, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch vertex access token: %w", ctx.Err())
	case <-timer.C:
		return nil, crerr.Mark(fmt.Errorf("fetch vertex access token: %w", context.DeadlineExceeded), errVertexTransient)
	}
}

func (c *Client) buildRequest(messages []nlquery.Message) generateRequest {
	out := generateRequest{
		Contents: make([]content, 0, len(messages)),
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}

	var system []part
	for _, msg := range messages {
		switch msg.Role {
		case nlquery.RoleSystem:
			system = append(system, part{Text: msg.Content})
		default:
			out.Contents = append(out.Contents, content{Role: "user", Parts: []part{{Text: msg.Content}}})
		}
	}
	if len(system) > 0 {
		out.SystemInstruction = &content{Parts: system}
	}
	return out
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func encodeRequest(buf *bytebufferpool.ByteBuffer, payload generateRequest) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode vertex request: %w", err)
	}
	_, _ = buf.Write(raw)
	return nil
}

func statusError(status int, body []byte) error {
	message := abbreviate(strings.TrimSpace(string(body)))
	var decoded errorResponse
	if err := sonic.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
		message = decoded.Error.Status + ": " + decoded.Error.Message
	}

	err := fmt.Errorf("vertex generateContent status=%d: %s", status, message)
	if isRetryableStatus(status) {
		return crerr.Mark(err, errVertexTransient)
	}
	return err
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errVertexTransient)
}

func abbreviate(s string) string {
	if len(s) <= maxErrorBodyLength {
		return s
	}
	return s[:maxErrorBodyLength] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
