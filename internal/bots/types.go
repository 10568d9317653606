package bots

// TextMessageEvent is an inbound LINE message event whose message is text.
// UserID and WebhookEventID are carried for logging only.
type TextMessageEvent struct {
	ReplyToken     string
	Text           string
	UserID         string
	WebhookEventID string
}

// OutboundReply is the single reply sent for one TextMessageEvent.
type OutboundReply struct {
	ReplyToken string
	Text       string
}

// Outcome records which reply branch the pipeline took for an event.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeFailed      Outcome = "failed"
)
