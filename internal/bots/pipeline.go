package bots

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/linerelay/internal/llm"
	"github.com/ziadkadry99/linerelay/internal/logging"
)

// ReplySender delivers one reply to LINE.
type ReplySender interface {
	Reply(ctx context.Context, reply OutboundReply) error
}

// PipelineConfig holds the completion parameters and fixed reply texts.
type PipelineConfig struct {
	Model       string
	MaxTokens   int
	Temperature float64

	UnavailableMessage string
	ErrorMessage       string

	// ReplyTimeout bounds each send. Zero means no bound.
	ReplyTimeout time.Duration
}

// Pipeline turns one text event into exactly one reply.
type Pipeline struct {
	provider llm.Provider
	sender   ReplySender
	cfg      PipelineConfig
	log      *logrus.Entry
}

// NewPipeline creates a reply pipeline.
func NewPipeline(provider llm.Provider, sender ReplySender, cfg PipelineConfig, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		provider: provider,
		sender:   sender,
		cfg:      cfg,
		log:      logging.Component(logger, "pipeline"),
	}
}

// HandleText asks the completion service for a reply to ev.Text and sends
// the result, or a fixed fallback message, to ev.ReplyToken. A send is
// attempted exactly once whatever the completion did.
func (p *Pipeline) HandleText(ctx context.Context, ev TextMessageEvent) Outcome {
	log := p.log.WithFields(logrus.Fields{
		"event_id": ev.WebhookEventID,
		"user_id":  ev.UserID,
		"text_len": len(ev.Text),
	})

	text, outcome := p.complete(ctx, ev.Text, log)
	p.send(ctx, OutboundReply{ReplyToken: ev.ReplyToken, Text: text}, log)
	return outcome
}

func (p *Pipeline) complete(ctx context.Context, text string, log *logrus.Entry) (reply string, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("completion panicked")
			reply, outcome = p.cfg.ErrorMessage, OutcomeFailed
		}
	}()

	start := time.Now()
	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		Model:       p.cfg.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: text}},
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
	elapsed := time.Since(start)

	switch {
	case err == nil && resp != nil && resp.Content != "":
		log.WithFields(logrus.Fields{
			"provider":      p.provider.Name(),
			"model":         resp.Model,
			"input_tokens":  resp.InputTokens,
			"output_tokens": resp.OutputTokens,
			"cost_usd":      llm.EstimateCost(resp.Model, resp.InputTokens, resp.OutputTokens),
			"duration":      elapsed,
		}).Info("completion succeeded")
		return resp.Content, OutcomeCompleted

	case err == nil:
		log.WithField("duration", elapsed).Warn("completion returned no content")
		return p.cfg.ErrorMessage, OutcomeFailed

	case llm.IsServiceError(err):
		log.WithError(err).WithField("duration", elapsed).Warn("completion service unavailable")
		return p.cfg.UnavailableMessage, OutcomeUnavailable

	default:
		log.WithError(err).WithField("duration", elapsed).Error("completion failed")
		return p.cfg.ErrorMessage, OutcomeFailed
	}
}

// send runs detached from the request's cancellation so that a timed-out
// completion still gets its reply. Failures are logged and dropped.
func (p *Pipeline) send(ctx context.Context, reply OutboundReply, log *logrus.Entry) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("reply delivery panicked")
		}
	}()

	ctx = context.WithoutCancel(ctx)
	if p.cfg.ReplyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ReplyTimeout)
		defer cancel()
	}

	if err := p.sender.Reply(ctx, reply); err != nil {
		log.WithError(err).Error("reply delivery failed")
		return
	}
	log.Debug("reply sent")
}
