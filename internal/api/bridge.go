package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"duel-tracker/internal/config"
	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Tell is the payload posted to the chat bridge.
type Tell struct {
	ID   string `json:"id"`
	GUID string `json:"guid"`
	Text string `json:"text"`
}

// BridgeClient forwards chat lines to a game server's HTTP chat bridge.
// Message only queues; Run performs the deliveries.
type BridgeClient struct {
	url     string
	timeout time.Duration
	client  *fasthttp.Client
	queue   chan Tell
	logger  zerolog.Logger
}

func NewBridgeClient(cfg *config.Config, logger zerolog.Logger) *BridgeClient {
	return &BridgeClient{
		url:     cfg.BridgeURL,
		timeout: cfg.BridgeTimeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.BridgeMaxConns,
			ReadTimeout:         cfg.BridgeTimeout,
			WriteTimeout:        cfg.BridgeTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		queue:  make(chan Tell, cfg.EventBuffer),
		logger: logger.With().Str("component", "bridge").Logger(),
	}
}

// Message queues text for p. When the queue is full the line is dropped.
func (c *BridgeClient) Message(p *domain.Player, text string) {
	t := Tell{ID: p.ID, GUID: p.GUID, Text: text}
	select {
	case c.queue <- t:
	default:
		c.logger.Warn().Str("player_id", p.ID).Msg("bridge queue full, dropping message")
	}
}

// Run delivers queued messages until ctx is done, then flushes what is left
// in the queue for at most BridgeFlushTimeout.
func (c *BridgeClient) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.flush(time.Now().Add(constants.BridgeFlushTimeout))
			return nil
		case t := <-c.queue:
			c.deliver(t)
		}
	}
}

func (c *BridgeClient) flush(deadline time.Time) {
	for time.Now().Before(deadline) {
		select {
		case t := <-c.queue:
			c.deliver(t)
		default:
			return
		}
	}
	if n := len(c.queue); n > 0 {
		c.logger.Warn().Int("dropped", n).Msg("bridge flush deadline reached")
	}
}

func (c *BridgeClient) deliver(t Tell) {
	if err := c.Send(t); err != nil {
		c.logger.Error().Err(err).Str("player_id", t.ID).Msg("failed to deliver message")
	}
}

// Send posts one message and waits for the bridge to answer.
func (c *BridgeClient) Send(t Tell) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tell: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("bridge returned status %d: %s", code, resp.Body())
	}
	return nil
}
