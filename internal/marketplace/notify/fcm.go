package notify

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/messaging"
)

// Messenger sends a single push message. *messaging.Client satisfies it.
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// TokenStore resolves the device tokens registered by a user.
type TokenStore interface {
	TokensByUser(ctx context.Context, userID string) ([]string, error)
}

// TokenPruner is implemented by token stores that can forget stale tokens.
type TokenPruner interface {
	DeleteToken(ctx context.Context, token string) error
}

// FCMSink pushes events to registered devices through Firebase Cloud Messaging.
type FCMSink struct {
	client       Messenger
	tokens       TokenStore
	unregistered func(error) bool
}

// NewFCMSink constructs an FCMSink. When tokens also implements TokenPruner,
// tokens that Firebase reports as unregistered are deleted.
func NewFCMSink(client Messenger, tokens TokenStore) *FCMSink {
	return &FCMSink{client: client, tokens: tokens, unregistered: messaging.IsRegistrationTokenNotRegistered}
}

func (s *FCMSink) Name() string { return "fcm" }

// Deliver sends one message per device token of every recipient and returns the
// joined failures.
func (s *FCMSink) Deliver(ctx context.Context, e Event) error {
	var errs []error
	for _, userID := range e.Recipients {
		tokens, err := s.tokens.TokensByUser(ctx, userID)
		if err != nil {
			errs = append(errs, fmt.Errorf("tokens for %s: %w", userID, err))
			continue
		}
		for _, token := range tokens {
			_, err := s.client.Send(ctx, buildMessage(token, e))
			if err == nil {
				continue
			}
			if pruner, ok := s.tokens.(TokenPruner); ok && s.unregistered(err) {
				if derr := pruner.DeleteToken(ctx, token); derr != nil {
					errs = append(errs, fmt.Errorf("prune token of %s: %w", userID, derr))
				}
				continue
			}
			errs = append(errs, fmt.Errorf("send to %s: %w", userID, err))
		}
	}
	return errors.Join(errs...)
}

func buildMessage(token string, e Event) *messaging.Message {
	data := map[string]string{
		"type":       e.Type,
		"subject_id": e.SubjectID,
	}
	if e.Status != "" {
		data["status"] = e.Status
	}
	for k, v := range e.Data {
		data[k] = v
	}
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: e.Title,
			Body:  e.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: e.Title,
						Body:  e.Body,
					},
					Sound: "default",
				},
			},
		},
	}
}
