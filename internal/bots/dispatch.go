package bots

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// ErrMalformedBody is returned when a verified body is not a LINE callback.
var ErrMalformedBody = errors.New("malformed callback body")

// lineCallback represents the top-level LINE webhook payload.
type lineCallback struct {
	Destination string      `json:"destination"`
	Events      []lineEvent `json:"events"`
}

// lineEvent represents one webhook event. Only the fields needed to
// recognise text messages are decoded.
type lineEvent struct {
	Type           string       `json:"type"`
	Mode           string       `json:"mode"`
	Timestamp      int64        `json:"timestamp"`
	ReplyToken     string       `json:"replyToken"`
	WebhookEventID string       `json:"webhookEventId"`
	Source         lineSource   `json:"source"`
	Message        *lineMessage `json:"message"`
}

type lineSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
	RoomID  string `json:"roomId"`
}

type lineMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Dispatch decodes a verified callback body and returns its text-message
// events in body order. All other event and message types are skipped.
func Dispatch(body []byte) (iter.Seq[TextMessageEvent], error) {
	var cb lineCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if cb.Events == nil {
		return nil, fmt.Errorf("%w: no events array", ErrMalformedBody)
	}

	events := cb.Events
	return func(yield func(TextMessageEvent) bool) {
		for _, ev := range events {
			te, ok := ev.textMessage()
			if !ok {
				continue
			}
			if !yield(te) {
				return
			}
		}
	}, nil
}

func (e lineEvent) textMessage() (TextMessageEvent, bool) {
	switch e.Type {
	case "message":
		if e.Message == nil || e.Message.Type != "text" {
			return TextMessageEvent{}, false
		}
		return TextMessageEvent{
			ReplyToken:     e.ReplyToken,
			Text:           e.Message.Text,
			UserID:         e.Source.UserID,
			WebhookEventID: e.WebhookEventID,
		}, true
	default:
		// follow, unfollow, join, postback, unsend, ...
		return TextMessageEvent{}, false
	}
}
