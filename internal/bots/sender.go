package bots

import (
	"context"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LineSender sends replies through the LINE Messaging API.
type LineSender struct {
	accessToken string
	endpoint    string
}

// NewLineSender creates a sender for the given channel access token.
// endpoint is the API base URL, normally https://api.line.me.
func NewLineSender(accessToken, endpoint string) *LineSender {
	return &LineSender{
		accessToken: accessToken,
		endpoint:    endpoint,
	}
}

// Reply sends reply as a single text message. Each call builds its own
// client and releases its connections before returning.
func (s *LineSender) Reply(ctx context.Context, reply OutboundReply) error {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	defer transport.CloseIdleConnections()

	api, err := messaging_api.NewMessagingApiAPI(
		s.accessToken,
		messaging_api.WithEndpoint(s.endpoint),
		messaging_api.WithHTTPClient(&http.Client{Transport: transport}),
	)
	if err != nil {
		return fmt.Errorf("creating LINE client: %w", err)
	}

	_, err = api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: reply.ReplyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: reply.Text},
		},
	})
	if err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}
