package bots

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/linerelay/internal/logging"
)

// TextHandler handles a single text message event.
type TextHandler interface {
	HandleText(ctx context.Context, ev TextMessageEvent) Outcome
}

// Gateway verifies and decodes callback bodies, then routes each text
// event to a handler.
type Gateway struct {
	secret  string
	handler TextHandler
	log     *logrus.Entry
}

// NewGateway creates a new Gateway for the given channel secret.
func NewGateway(secret string, handler TextHandler, logger logrus.FieldLogger) *Gateway {
	return &Gateway{
		secret:  secret,
		handler: handler,
		log:     logging.Component(logger, "gateway"),
	}
}

// Process verifies body against signature, then handles its text events
// one after another. It returns the number of events handled. Nothing is
// handled unless the signature is valid.
func (g *Gateway) Process(ctx context.Context, body []byte, signature string) (int, error) {
	log := g.log.WithField("delivery_id", uuid.NewString())

	if err := VerifySignature(body, signature, g.secret); err != nil {
		log.WithError(err).Warn("callback rejected")
		return 0, err
	}

	events, err := Dispatch(body)
	if err != nil {
		log.WithError(err).Error("callback body could not be decoded")
		return 0, err
	}

	handled := 0
	for ev := range events {
		outcome := g.handler.HandleText(ctx, ev)
		log.WithFields(logrus.Fields{
			"event_id": ev.WebhookEventID,
			"outcome":  outcome,
		}).Info("event handled")
		handled++
	}

	log.WithField("events", handled).Debug("callback processed")
	return handled, nil
}
