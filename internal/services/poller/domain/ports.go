// Package domain holds the poller's collaborator contracts
package domain

import (
	"context"

	"reqrelay/internal/core/framing"

	convdom "reqrelay/internal/services/api/conversations/domain"
	reldom "reqrelay/internal/services/api/relay/domain"
	reqdom "reqrelay/internal/services/api/requirements/domain"
)

// Mailbox is the status and acknowledgement surface of the requirements API
type Mailbox interface {
	Status(ctx context.Context) (reqdom.Status, error)
	Ack(ctx context.Context, entryID string) error
}

// Relayer streams a submission through the relay, one frame at a time
type Relayer interface {
	Relay(ctx context.Context, in reldom.RelayInput, fn func(framing.Frame) error) error
}

// History persists conversation message lists
type History interface {
	SaveMessages(ctx context.Context, id string, msgs []convdom.Message) (convdom.SaveOutput, error)
	LoadMessages(ctx context.Context, id string) (convdom.History, error)
}

// Client is everything the poller needs from the API
type Client interface {
	Mailbox
	Relayer
	History
}

// Outcome is the terminal result of one delivery
type Outcome uint8

const (
	// Nothing means the stream ended without an assistant message
	Nothing Outcome = iota
	// Failed means the delivery errored and will be retried on a later tick
	Failed
	// Succeeded means at least one assistant message arrived
	Succeeded
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	default:
		return "nothing"
	}
}

// Notifier reports delivery outcomes to whoever watches the session
type Notifier interface {
	Notify(o Outcome, conversationID string, err error)
}

// NotifierFunc adapts a func to Notifier
type NotifierFunc func(o Outcome, conversationID string, err error)

// Notify calls f
func (f NotifierFunc) Notify(o Outcome, conversationID string, err error) { f(o, conversationID, err) }

// Worker runs the poll loop until ctx is done
type Worker interface {
	Run(ctx context.Context) error
}
