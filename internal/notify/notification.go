package notify

import (
	"context"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAlert        Kind = "alert"
	KindQuotaWarning Kind = "quota_warning"
)

// Notification is one outbound message, serializable so it can cross a queue.
type Notification struct {
	ID         uuid.UUID         `json:"id"`
	Kind       Kind              `json:"kind"`
	PracticeID uuid.UUID         `json:"practice_id"`
	To         string            `json:"to"`
	Subject    string            `json:"subject"`
	Text       string            `json:"text"`
	Data       map[string]string `json:"data,omitempty"`
}

// Notifier accepts notifications without waiting for delivery.
type Notifier interface {
	Dispatch(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Dispatch(ctx context.Context, n Notification) { f(ctx, n) }
