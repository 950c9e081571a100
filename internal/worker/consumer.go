// Package worker renders resumes requested over NATS JetStream and
// publishes the finished documents back to the stream.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/render"
	"github.com/blockedby/resumekit/internal/web"
)

// Broker is the part of the nats client the worker needs.
type Broker interface {
	Subscribe(ctx context.Context, stream, consumer, subject string, handler func([]byte) error) error
	Publish(ctx context.Context, subject string, data any) error
}

// Renderer produces documents.
type Renderer interface {
	Render(ctx context.Context, id int, data *models.ResumeData, photo image.Image) (*render.Document, error)
}

// Limiter throttles renders.
type Limiter interface {
	Wait(ctx context.Context) error
	Pause(d time.Duration)
}

// Notifier receives an event for every published result.
type Notifier interface {
	Broadcast(msg []byte)
}

// RenderTimeout bounds a single render including publishing its result.
const RenderTimeout = 30 * time.Second

// publishBackoff pauses the limiter after the broker rejected a result.
const publishBackoff = 2 * time.Second

// Consumer handles render requests.
type Consumer struct {
	broker   Broker
	renderer Renderer
	limiter  Limiter
	notifier Notifier
	log      *zerolog.Logger
	ctx      context.Context
}

// NewConsumer creates a consumer. limiter may be nil.
func NewConsumer(broker Broker, renderer Renderer, limiter Limiter, log *zerolog.Logger) *Consumer {
	return &Consumer{
		broker:   broker,
		renderer: renderer,
		limiter:  limiter,
		log:      log,
		ctx:      context.Background(),
	}
}

// SetNotifier makes the consumer announce every published result.
func (c *Consumer) SetNotifier(n Notifier) {
	c.notifier = n
}

// Start subscribes to render requests. Messages are handled until ctx is
// done.
func (c *Consumer) Start(ctx context.Context) error {
	c.ctx = ctx
	c.log.Info().Str("subject", SubjectRender).Msg("starting render consumer")
	return c.broker.Subscribe(ctx, Stream, Durable, SubjectRender, c.handleMessage)
}

// handleMessage renders one request. Undecodable messages are acked and
// dropped; only a failed publish asks for redelivery.
func (c *Consumer) handleMessage(data []byte) error {
	var req RenderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.log.Error().Err(err).Msg("invalid render request, skipping")
		return nil
	}
	if req.RequestID == "" {
		c.log.Error().Int("template", req.Template).Msg("render request without request_id, skipping")
		return nil
	}

	log := c.log.With().Str("request_id", req.RequestID).Int("template", req.Template).Logger()
	log.Debug().Msg("received render request")

	ctx, cancel := context.WithTimeout(c.ctx, RenderTimeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for render slot: %w", err)
		}
	}

	result := c.render(ctx, &req)
	if result.Error != "" {
		log.Warn().Str("error", result.Error).Msg("render request failed")
	}

	if err := c.broker.Publish(ctx, SubjectRendered, result); err != nil {
		log.Error().Err(err).Msg("failed to publish render result")
		if c.limiter != nil {
			c.limiter.Pause(publishBackoff)
		}
		return err
	}

	log.Info().Str("document_id", result.DocumentID).Int("bytes", len(result.PDF)).Msg("render result published")
	if c.notifier != nil {
		c.notifier.Broadcast(web.RenderEvent(web.RenderPayload{
			Source:     "worker",
			RequestID:  result.RequestID,
			DocumentID: result.DocumentID,
			Template:   result.Template,
			Bytes:      len(result.PDF),
			Fallbacks:  len(result.Diagnostics),
			Error:      result.Error,
			At:         time.Now().UTC(),
		}))
	}
	return nil
}

// render turns a request into a result. Caller errors end up in
// RenderResult.Error instead of being retried, and so does a renderer
// panic: redelivering the message would only panic again.
func (c *Consumer) render(ctx context.Context, req *RenderRequest) (result *RenderResult) {
	result = &RenderResult{RequestID: req.RequestID, Template: req.Template}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("request_id", req.RequestID).Interface("panic", r).Msg("renderer panicked")
			result = &RenderResult{RequestID: req.RequestID, Template: req.Template, Error: fmt.Sprintf("render panic: %v", r)}
		}
	}()

	photo, err := models.DecodePhotoBase64(req.Photo)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	doc, err := c.renderer.Render(ctx, req.Template, req.Resume, photo)
	if err != nil {
		var rerr *render.RenderError
		if errors.As(err, &rerr) {
			c.log.Error().Err(err).Str("request_id", req.RequestID).Msg("render failed")
		}
		result.Error = err.Error()
		return result
	}

	result.DocumentID = doc.ID.String()
	result.Title = doc.Title
	result.Author = doc.Author
	result.PDF = doc.PDF
	result.Diagnostics = doc.Diagnostics
	return result
}
